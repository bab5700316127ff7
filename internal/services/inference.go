package services

import (
	"time"

	"progress-tracker-go/internal/models"
)

// The infer functions add the date fields a status implies to patch. entry
// is the stored state with patch already applied, so a date is "absent"
// only when neither the caller nor the stored row supplies one. Fields the
// caller set in patch are never touched.
//
// Drawing end_date and fitness activity_date are refreshed on every
// qualifying status write, while every other field is only filled when
// absent.

func inferReadingDates(entry models.ReadingEntry, patch *models.ReadingPatch, now time.Time) {
	switch entry.Status {
	case models.ReadingInProgress:
		fillAbsent(&patch.StartedDate, entry.StartedDate, now)
	case models.ReadingPaused:
		fillAbsent(&patch.StartedDate, entry.StartedDate, now)
		fillAbsent(&patch.PausedDate, entry.PausedDate, now)
	case models.ReadingCompleted:
		fillAbsent(&patch.StartedDate, entry.StartedDate, now)
		fillAbsent(&patch.CompletedDate, entry.CompletedDate, now)
	}
}

func inferDrawingDates(entry models.DrawingEntry, patch *models.DrawingPatch, now time.Time) {
	switch entry.Status {
	case models.DrawingInProgress:
		fillAbsent(&patch.StartDate, entry.StartDate, now)
	case models.DrawingCompleted:
		fillAbsent(&patch.StartDate, entry.StartDate, now)
		refresh(&patch.EndDate, now)
	}
}

func inferFitnessDates(entry models.FitnessEntry, patch *models.FitnessPatch, now time.Time) {
	switch entry.Status {
	case models.FitnessInProgress, models.FitnessCompleted:
		refresh(&patch.ActivityDate, now)
	}
}

func fillAbsent(field **time.Time, current *time.Time, now time.Time) {
	if *field != nil || current != nil {
		return
	}
	value := now
	*field = &value
}

func refresh(field **time.Time, now time.Time) {
	if *field != nil {
		return
	}
	value := now
	*field = &value
}
