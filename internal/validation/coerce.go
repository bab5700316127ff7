package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"progress-tracker-go/internal/models"
)

// TimeOfDay is the clock time attached to a date-only timestamp input.
type TimeOfDay int

const (
	StartOfDay TimeOfDay = iota
	Midday
	EndOfDay
)

func (t TimeOfDay) clock() (int, int, int) {
	switch t {
	case Midday:
		return 12, 0, 0
	case EndOfDay:
		return 23, 59, 59
	default:
		return 0, 0, 0
	}
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parser coerces raw input into typed patches. Naive timestamps and
// date-only values are interpreted in Location.
type Parser struct {
	Location *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{Location: loc}
}

// Timestamp accepts YYYY-MM-DD (completed with tod), naive ISO timestamps
// and RFC 3339 timestamps with an offset.
func (p *Parser) Timestamp(src Source, errs FieldErrors, field string, tod TimeOfDay) *time.Time {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	if day, err := time.ParseInLocation(models.DateLayout, raw, p.Location); err == nil {
		h, m, s := tod.clock()
		value := time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, p.Location)
		return &value
	}
	if value, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &value
	}
	for _, layout := range naiveLayouts {
		if value, err := time.ParseInLocation(layout, raw, p.Location); err == nil {
			return &value
		}
	}
	errs.Add(field, fmt.Sprintf("%s must be a date (YYYY-MM-DD) or timestamp (YYYY-MM-DDTHH:MM:SS), got %q", field, raw))
	return nil
}

// Date accepts YYYY-MM-DD, or a timestamp whose calendar day is taken.
func (p *Parser) Date(src Source, errs FieldErrors, field string) *models.Date {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	if day, err := models.ParseDate(raw); err == nil {
		return &day
	}
	if value, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		day := models.DateOf(value.In(p.Location))
		return &day
	}
	for _, layout := range naiveLayouts {
		if value, err := time.ParseInLocation(layout, raw, p.Location); err == nil {
			day := models.DateOf(value)
			return &day
		}
	}
	errs.Add(field, fmt.Sprintf("%s must be a date in YYYY-MM-DD format, got %q", field, raw))
	return nil
}

func Text(src Source, field string) *string {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	return &raw
}

func Int(src Source, errs FieldErrors, field string) *int {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, fmt.Sprintf("%s must be a whole number, got %q", field, raw))
		return nil
	}
	return &value
}

func ID(src Source, errs FieldErrors, field string) *int64 {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs.Add(field, fmt.Sprintf("%s must be a numeric id, got %q", field, raw))
		return nil
	}
	return &value
}

func Float(src Source, errs FieldErrors, field string) *float64 {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		errs.Add(field, fmt.Sprintf("%s must be a number, got %q", field, raw))
		return nil
	}
	return &value
}

// Enum checks raw input against a closed value set, case-sensitively.
func Enum[T ~string](src Source, errs FieldErrors, field string, allowed []T) *T {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	if !models.IsMember(raw, allowed) {
		errs.Add(field, fmt.Sprintf("%s must be one of [%s], got %q", field, strings.Join(models.Values(allowed), ", "), raw))
		return nil
	}
	value := T(raw)
	return &value
}
