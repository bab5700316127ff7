package postgres

import (
	"context"
	"fmt"
	"time"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
)

var statsSelect = map[models.Category]string{
	models.CategoryReading: `SELECT count(*) AS count,
		count(*) FILTER (WHERE status = 'completed') AS completed
		FROM reading_entries`,
	models.CategoryDrawing: `SELECT count(*) AS count,
		count(*) FILTER (WHERE status = 'completed') AS completed,
		coalesce(sum(duration_hours), 0) AS hours
		FROM drawing_entries`,
	models.CategoryFitness: `SELECT count(*) AS count,
		count(*) FILTER (WHERE status = 'completed') AS completed,
		coalesce(sum(duration_minutes), 0) AS minutes,
		coalesce(sum(distance_km), 0) AS distance_km
		FROM fitness_entries`,
	models.CategoryJournal: `SELECT count(*) AS count, 0 AS completed FROM journal_entries`,
}

func (s *Store) CategoryStats(ctx context.Context, category models.Category, userID int64, from, to time.Time) (models.CategoryStats, error) {
	var stats models.CategoryStats
	base, ok := statsSelect[category]
	if !ok {
		return stats, fmt.Errorf("no stats for category %q", category)
	}
	query := base + " WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3"
	if err := s.db.GetContext(ctx, &stats, query, userID, from, to); err != nil {
		return stats, fmt.Errorf("%s stats for user %d: %w", category, userID, translate(err))
	}
	return stats, nil
}

func (s *Store) CompletedByMonth(ctx context.Context, category models.Category, userID int64, since time.Time, loc *time.Location) ([]models.MonthCount, error) {
	column, ok := store.CompletionColumn(category)
	if !ok {
		return nil, fmt.Errorf("no completion date for category %q", category)
	}
	local := fmt.Sprintf("(%s AT TIME ZONE $3)", column)
	query := fmt.Sprintf(`SELECT EXTRACT(YEAR FROM %[1]s)::int AS year,
		EXTRACT(MONTH FROM %[1]s)::int AS month,
		count(*) AS count
		FROM %[2]s
		WHERE user_id = $1 AND status = 'completed' AND %[3]s >= $2
		GROUP BY 1, 2
		ORDER BY 1, 2`, local, tables[category], column)
	out := []models.MonthCount{}
	if err := s.db.SelectContext(ctx, &out, query, userID, since, loc.String()); err != nil {
		return nil, fmt.Errorf("%s history for user %d: %w", category, userID, translate(err))
	}
	return out, nil
}
