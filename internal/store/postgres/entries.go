package postgres

import (
	"context"
	"fmt"
	"time"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
)

const (
	byCreation = "created_at DESC, id DESC"
	byDate     = "date DESC, id DESC"
)

func (s *Store) InsertReading(ctx context.Context, entry models.ReadingEntry) (models.ReadingEntry, error) {
	return insertRow(ctx, s.db, tables[models.CategoryReading], entry)
}

func (s *Store) GetReading(ctx context.Context, id int64) (models.ReadingEntry, error) {
	return getRow[models.ReadingEntry](ctx, s.db, tables[models.CategoryReading], id)
}

func (s *Store) ListReadings(ctx context.Context, filter store.Filter) ([]models.ReadingEntry, error) {
	return listRows[models.ReadingEntry](ctx, s.db, tables[models.CategoryReading], filter, byCreation)
}

func (s *Store) UpdateReading(ctx context.Context, id int64, patch models.ReadingPatch, updatedAt time.Time) (models.ReadingEntry, error) {
	return updateRow[models.ReadingEntry](ctx, s.db, tables[models.CategoryReading], id, patch.Changes(), updatedAt)
}

func (s *Store) DeleteReading(ctx context.Context, id int64) error {
	return deleteRow(ctx, s.db, tables[models.CategoryReading], id)
}

func (s *Store) InsertDrawing(ctx context.Context, entry models.DrawingEntry) (models.DrawingEntry, error) {
	return insertRow(ctx, s.db, tables[models.CategoryDrawing], entry)
}

func (s *Store) GetDrawing(ctx context.Context, id int64) (models.DrawingEntry, error) {
	return getRow[models.DrawingEntry](ctx, s.db, tables[models.CategoryDrawing], id)
}

func (s *Store) ListDrawings(ctx context.Context, filter store.Filter) ([]models.DrawingEntry, error) {
	return listRows[models.DrawingEntry](ctx, s.db, tables[models.CategoryDrawing], filter, byCreation)
}

func (s *Store) UpdateDrawing(ctx context.Context, id int64, patch models.DrawingPatch, updatedAt time.Time) (models.DrawingEntry, error) {
	return updateRow[models.DrawingEntry](ctx, s.db, tables[models.CategoryDrawing], id, patch.Changes(), updatedAt)
}

func (s *Store) DeleteDrawing(ctx context.Context, id int64) error {
	return deleteRow(ctx, s.db, tables[models.CategoryDrawing], id)
}

func (s *Store) DrawingByImage(ctx context.Context, filename string) (models.DrawingEntry, error) {
	var out models.DrawingEntry
	query := "SELECT * FROM drawing_entries WHERE image_filename = $1 ORDER BY id LIMIT 1"
	if err := s.db.GetContext(ctx, &out, query, filename); err != nil {
		return out, fmt.Errorf("load drawing by image %q: %w", filename, translate(err))
	}
	return out, nil
}

func (s *Store) InsertFitness(ctx context.Context, entry models.FitnessEntry) (models.FitnessEntry, error) {
	return insertRow(ctx, s.db, tables[models.CategoryFitness], entry)
}

func (s *Store) GetFitness(ctx context.Context, id int64) (models.FitnessEntry, error) {
	return getRow[models.FitnessEntry](ctx, s.db, tables[models.CategoryFitness], id)
}

func (s *Store) ListFitness(ctx context.Context, filter store.Filter) ([]models.FitnessEntry, error) {
	return listRows[models.FitnessEntry](ctx, s.db, tables[models.CategoryFitness], filter, byCreation)
}

func (s *Store) UpdateFitness(ctx context.Context, id int64, patch models.FitnessPatch, updatedAt time.Time) (models.FitnessEntry, error) {
	return updateRow[models.FitnessEntry](ctx, s.db, tables[models.CategoryFitness], id, patch.Changes(), updatedAt)
}

func (s *Store) DeleteFitness(ctx context.Context, id int64) error {
	return deleteRow(ctx, s.db, tables[models.CategoryFitness], id)
}

func (s *Store) InsertJournal(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	return insertRow(ctx, s.db, tables[models.CategoryJournal], entry)
}

func (s *Store) GetJournal(ctx context.Context, id int64) (models.JournalEntry, error) {
	return getRow[models.JournalEntry](ctx, s.db, tables[models.CategoryJournal], id)
}

func (s *Store) ListJournal(ctx context.Context, filter store.Filter) ([]models.JournalEntry, error) {
	return listRows[models.JournalEntry](ctx, s.db, tables[models.CategoryJournal], filter, byDate)
}

func (s *Store) UpdateJournal(ctx context.Context, id int64, patch models.JournalPatch, updatedAt time.Time) (models.JournalEntry, error) {
	return updateRow[models.JournalEntry](ctx, s.db, tables[models.CategoryJournal], id, patch.Changes(), updatedAt)
}

func (s *Store) DeleteJournal(ctx context.Context, id int64) error {
	return deleteRow(ctx, s.db, tables[models.CategoryJournal], id)
}
