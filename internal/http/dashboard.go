package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"progress-tracker-go/internal/validation"
)

const maxHistoryMonths = 120

// Dashboard answers with one user's summary when user_id is given and
// with the household overview otherwise.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	errs := validation.FieldErrors{}
	userID := validation.ID(validation.FormSource(query), errs, "user_id")

	months := 0
	if raw := strings.TrimSpace(query.Get("months")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 || value > maxHistoryMonths {
			errs.Add("months", "months must be an integer between 1 and 120")
		} else {
			months = value
		}
	}
	fill := false
	if raw := strings.TrimSpace(query.Get("fill")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			errs.Add("fill", "fill must be true or false")
		}
		fill = value
	}
	if len(errs) > 0 {
		writeInvalid(w, errs)
		return
	}

	if userID == nil {
		overview, err := s.Dashboards.Overview(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, overview)
		return
	}
	summary, err := s.Dashboards.ForUser(r.Context(), *userID, months, fill)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
