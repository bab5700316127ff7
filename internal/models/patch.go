package models

import (
	"reflect"
	"time"
)

// Patches carry the fields a caller supplied. A nil pointer means "not
// supplied" and leaves the stored value untouched. The db tag names the
// column, matching the entity field with the same tag.

type ReadingPatch struct {
	UserID           *int64         `db:"user_id" validate:"omitempty,gt=0"`
	Title            *string        `db:"title" validate:"omitempty,min=1,max=500"`
	Author           *string        `db:"author" validate:"omitempty,max=200"`
	ISBN             *string        `db:"isbn" validate:"omitempty,max=20,isbn_chars"`
	ReadingType      *ReadingType   `db:"reading_type"`
	LengthPages      *int           `db:"length_pages" validate:"omitempty,gte=1,lte=10000"`
	LengthDuration   *string        `db:"length_duration" validate:"omitempty,max=50,reading_length"`
	Status           *ReadingStatus `db:"status"`
	ProgressFraction *float64       `db:"progress_fraction" validate:"omitempty,gte=0,lte=1"`
	StartedDate      *time.Time     `db:"started_date"`
	PausedDate       *time.Time     `db:"paused_date"`
	CompletedDate    *time.Time     `db:"completed_date"`
	Notes            *string        `db:"notes" validate:"omitempty,max=2000"`
	PauseReason      *string        `db:"pause_reason" validate:"omitempty,max=500"`
	SeriesInfo       *string        `db:"series_info" validate:"omitempty,max=500"`
}

func (p ReadingPatch) Changes() []Change       { return changesOf(p) }
func (p ReadingPatch) ApplyTo(e *ReadingEntry) { applyPatch(p, e) }

type DrawingPatch struct {
	UserID             *int64         `db:"user_id" validate:"omitempty,gt=0"`
	Title              *string        `db:"title" validate:"omitempty,min=1,max=500"`
	Subject            *string        `db:"subject" validate:"omitempty,max=200"`
	Medium             *DrawingMedium `db:"medium"`
	Context            *string        `db:"context" validate:"omitempty,max=200"`
	Location           *string        `db:"location" validate:"omitempty,max=200"`
	StartDate          *time.Time     `db:"start_date"`
	EndDate            *time.Time     `db:"end_date"`
	DurationHours      *float64       `db:"duration_hours" validate:"omitempty,gte=0,lte=100"`
	SessionsCount      *int           `db:"sessions_count" validate:"omitempty,gte=1,lte=100"`
	ProcessDescription *string        `db:"process_description" validate:"omitempty,max=2000"`
	TemplateUsed       *string        `db:"template_used" validate:"omitempty,max=200"`
	AssistanceLevel    *string        `db:"assistance_level" validate:"omitempty,max=100"`
	TechnicalNotes     *string        `db:"technical_notes" validate:"omitempty,max=2000"`
	MaterialsCount     *int           `db:"materials_count" validate:"omitempty,gte=1,lte=1000000"`
	ComplexityLevel    *string        `db:"complexity_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Status             *DrawingStatus `db:"status"`
	CompletionNotes    *string        `db:"completion_notes" validate:"omitempty,max=2000"`
	ContinuationPlans  *string        `db:"continuation_plans" validate:"omitempty,max=2000"`
	ReferenceLink      *string        `db:"reference_link" validate:"omitempty,max=500"`
	ImageURL           *string        `db:"image_url" validate:"omitempty,max=500"`
	ImageFilename      *string        `db:"image_filename" validate:"omitempty,max=255"`
}

func (p DrawingPatch) Changes() []Change       { return changesOf(p) }
func (p DrawingPatch) ApplyTo(e *DrawingEntry) { applyPatch(p, e) }

type FitnessPatch struct {
	UserID          *int64         `db:"user_id" validate:"omitempty,gt=0"`
	Title           *string        `db:"title" validate:"omitempty,min=1,max=500"`
	ActivityType    *FitnessType   `db:"activity_type"`
	Description     *string        `db:"description" validate:"omitempty,max=2000"`
	ActivityDate    *time.Time     `db:"activity_date"`
	DurationMinutes *float64       `db:"duration_minutes" validate:"omitempty,gte=0,lte=1440"`
	PlannedDuration *float64       `db:"planned_duration" validate:"omitempty,gte=0,lte=1440"`
	DistanceKm      *float64       `db:"distance_km" validate:"omitempty,gte=0,lte=1000"`
	CaloriesBurned  *int           `db:"calories_burned" validate:"omitempty,gte=0,lte=10000"`
	HeartRateAvg    *int           `db:"heart_rate_avg" validate:"omitempty,gte=1,lte=300"`
	HeartRateMax    *int           `db:"heart_rate_max" validate:"omitempty,gte=1,lte=300"`
	IntensityLevel  *string        `db:"intensity_level" validate:"omitempty,oneof=low moderate high 'very high'"`
	PerceivedEffort *int           `db:"perceived_effort" validate:"omitempty,gte=1,lte=10"`
	Location        *string        `db:"location" validate:"omitempty,max=200"`
	Weather         *string        `db:"weather" validate:"omitempty,max=100"`
	EquipmentUsed   *string        `db:"equipment_used" validate:"omitempty,max=500"`
	Status          *FitnessStatus `db:"status"`
	Notes           *string        `db:"notes" validate:"omitempty,max=2000"`
	Achievements    *string        `db:"achievements" validate:"omitempty,max=1000"`
	NextGoals       *string        `db:"next_goals" validate:"omitempty,max=1000"`
}

func (p FitnessPatch) Changes() []Change       { return changesOf(p) }
func (p FitnessPatch) ApplyTo(e *FitnessEntry) { applyPatch(p, e) }

type JournalPatch struct {
	UserID        *int64  `db:"user_id" validate:"omitempty,gt=0"`
	Date          *Date   `db:"date"`
	Title         *string `db:"title" validate:"omitempty,max=200"`
	Location      *string `db:"location" validate:"omitempty,max=200"`
	Context       *string `db:"context" validate:"omitempty,min=1,max=5000"`
	ParentalInput *string `db:"parental_input" validate:"omitempty,max=5000"`
	AIAnalysis    *string `db:"ai_analysis" validate:"omitempty,max=5000"`
	Tags          *string `db:"tags" validate:"omitempty,max=500"`
}

func (p JournalPatch) Changes() []Change       { return changesOf(p) }
func (p JournalPatch) ApplyTo(e *JournalEntry) { applyPatch(p, e) }

// Change is one column assignment derived from a patch.
type Change struct {
	Column string
	Value  any
}

func changesOf(patch any) []Change {
	v := reflect.Indirect(reflect.ValueOf(patch))
	t := v.Type()
	changes := make([]Change, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		column := t.Field(i).Tag.Get("db")
		field := v.Field(i)
		if column == "" || column == "-" || field.Kind() != reflect.Pointer || field.IsNil() {
			continue
		}
		value := field.Elem()
		if value.Kind() == reflect.String {
			// enum newtypes travel as plain strings
			changes = append(changes, Change{Column: column, Value: value.String()})
			continue
		}
		changes = append(changes, Change{Column: column, Value: value.Interface()})
	}
	return changes
}

func applyPatch(patch any, dst any) {
	pv := reflect.Indirect(reflect.ValueOf(patch))
	dv := reflect.ValueOf(dst).Elem()
	columns := columnIndex(dv.Type())
	pt := pv.Type()
	for i := 0; i < pt.NumField(); i++ {
		field := pv.Field(i)
		if field.Kind() != reflect.Pointer || field.IsNil() {
			continue
		}
		j, ok := columns[pt.Field(i).Tag.Get("db")]
		if !ok {
			continue
		}
		target := dv.Field(j)
		value := field.Elem()
		if target.Kind() == reflect.Pointer {
			copied := reflect.New(value.Type())
			copied.Elem().Set(value)
			target.Set(copied)
			continue
		}
		target.Set(value)
	}
}

func columnIndex(t reflect.Type) map[string]int {
	index := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if column := t.Field(i).Tag.Get("db"); column != "" && column != "-" {
			index[column] = i
		}
	}
	return index
}
