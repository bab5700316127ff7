package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"progress-tracker-go/internal/models"
)

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (s *Store) CategoryStats(_ context.Context, category models.Category, userID int64, from, to time.Time) (models.CategoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats models.CategoryStats
	switch category {
	case models.CategoryReading:
		for _, e := range s.readings {
			if e.UserID == userID && within(e.CreatedAt, from, to) {
				stats.Count++
				if e.Status == models.ReadingCompleted {
					stats.Completed++
				}
			}
		}
	case models.CategoryDrawing:
		hours := 0.0
		for _, e := range s.drawings {
			if e.UserID == userID && within(e.CreatedAt, from, to) {
				stats.Count++
				if e.Status == models.DrawingCompleted {
					stats.Completed++
				}
				if e.DurationHours != nil {
					hours += *e.DurationHours
				}
			}
		}
		stats.Hours = &hours
	case models.CategoryFitness:
		minutes, distance := 0.0, 0.0
		for _, e := range s.fitness {
			if e.UserID == userID && within(e.CreatedAt, from, to) {
				stats.Count++
				if e.Status == models.FitnessCompleted {
					stats.Completed++
				}
				if e.DurationMinutes != nil {
					minutes += *e.DurationMinutes
				}
				if e.DistanceKm != nil {
					distance += *e.DistanceKm
				}
			}
		}
		stats.Minutes, stats.DistanceKm = &minutes, &distance
	case models.CategoryJournal:
		for _, e := range s.journal {
			if e.UserID == userID && within(e.CreatedAt, from, to) {
				stats.Count++
			}
		}
	default:
		return stats, fmt.Errorf("no stats for category %q", category)
	}
	return stats, nil
}

func (s *Store) CompletedByMonth(_ context.Context, category models.Category, userID int64, since time.Time, loc *time.Location) ([]models.MonthCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var dates []time.Time
	switch category {
	case models.CategoryReading:
		for _, e := range s.readings {
			if e.UserID == userID && e.Status == models.ReadingCompleted && e.CompletedDate != nil {
				dates = append(dates, *e.CompletedDate)
			}
		}
	case models.CategoryDrawing:
		for _, e := range s.drawings {
			if e.UserID == userID && e.Status == models.DrawingCompleted && e.EndDate != nil {
				dates = append(dates, *e.EndDate)
			}
		}
	case models.CategoryFitness:
		for _, e := range s.fitness {
			if e.UserID == userID && e.Status == models.FitnessCompleted && e.ActivityDate != nil {
				dates = append(dates, *e.ActivityDate)
			}
		}
	default:
		return nil, fmt.Errorf("no completion date for category %q", category)
	}

	type month struct{ year, month int }
	counts := map[month]int{}
	for _, d := range dates {
		if d.Before(since) {
			continue
		}
		local := d.In(loc)
		counts[month{local.Year(), int(local.Month())}]++
	}
	out := make([]models.MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, models.MonthCount{Year: m.year, Month: m.month, Count: n})
	}
	slices.SortFunc(out, func(a, b models.MonthCount) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	return out, nil
}
