package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

const maxJSONBody = 1 << 20

// pathID reads a positive integer URL parameter. ok is false after an
// error response has been written.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
		return 0, false
	}
	return id, true
}

// decodeObject reads a JSON object body into a lookup source. Values keep
// their raw JSON form so the coercion layer sees numbers and strings alike.
func decodeObject(r *http.Request) (validation.JSONSource, error) {
	src := validation.JSONSource{}
	body := io.LimitReader(r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(&src); err != nil {
		if err == io.EOF {
			return src, nil
		}
		return nil, err
	}
	return src, nil
}

// listFilter builds a store filter from query parameters. Tag and date
// bounds only apply to dated entries.
func listFilter(r *http.Request, dated bool) (store.Filter, validation.FieldErrors) {
	query := r.URL.Query()
	errs := validation.FieldErrors{}
	filter := store.Filter{
		UserID: validation.ID(validation.FormSource(query), errs, "user_id"),
		Status: strings.TrimSpace(query.Get("status")),
	}
	if limit := strings.TrimSpace(query.Get("limit")); limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil || value <= 0 {
			errs.Add("limit", "limit must be a positive integer")
		} else {
			filter.Limit = value
		}
	}
	if dated {
		filter.Tag = strings.TrimSpace(query.Get("tags"))
		filter.From = queryDate(query.Get("start_date"), "start_date", errs)
		filter.To = queryDate(query.Get("end_date"), "end_date", errs)
	}
	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}

func queryDate(raw, field string, errs validation.FieldErrors) *models.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		errs.Add(field, field+" must be a date in YYYY-MM-DD format, got '"+raw+"'")
		return nil
	}
	return &date
}

func chiWildcard(r *http.Request) string {
	return chi.URLParam(r, "*")
}
