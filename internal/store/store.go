// Package store defines the persistence contract for users and entries.
// Implementations live in store/postgres and store/memory.
package store

import (
	"context"
	"errors"
	"time"

	"progress-tracker-go/internal/models"
)

var (
	// ErrNotFound is returned for an unknown id, and for inserts whose
	// user_id references no user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Filter is a conjunction of optional list conditions. From and To bound
// the journal date and are inclusive. Limit <= 0 means no limit.
type Filter struct {
	UserID *int64
	Status string
	Tag    string
	From   *models.Date
	To     *models.Date
	Limit  int
}

type Users interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByName(ctx context.Context, name string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
}

type Readings interface {
	InsertReading(ctx context.Context, entry models.ReadingEntry) (models.ReadingEntry, error)
	GetReading(ctx context.Context, id int64) (models.ReadingEntry, error)
	ListReadings(ctx context.Context, filter Filter) ([]models.ReadingEntry, error)
	UpdateReading(ctx context.Context, id int64, patch models.ReadingPatch, updatedAt time.Time) (models.ReadingEntry, error)
	DeleteReading(ctx context.Context, id int64) error
}

type Drawings interface {
	InsertDrawing(ctx context.Context, entry models.DrawingEntry) (models.DrawingEntry, error)
	GetDrawing(ctx context.Context, id int64) (models.DrawingEntry, error)
	ListDrawings(ctx context.Context, filter Filter) ([]models.DrawingEntry, error)
	UpdateDrawing(ctx context.Context, id int64, patch models.DrawingPatch, updatedAt time.Time) (models.DrawingEntry, error)
	DeleteDrawing(ctx context.Context, id int64) error
	// DrawingByImage finds the entry that references filename.
	DrawingByImage(ctx context.Context, filename string) (models.DrawingEntry, error)
}

type Fitness interface {
	InsertFitness(ctx context.Context, entry models.FitnessEntry) (models.FitnessEntry, error)
	GetFitness(ctx context.Context, id int64) (models.FitnessEntry, error)
	ListFitness(ctx context.Context, filter Filter) ([]models.FitnessEntry, error)
	UpdateFitness(ctx context.Context, id int64, patch models.FitnessPatch, updatedAt time.Time) (models.FitnessEntry, error)
	DeleteFitness(ctx context.Context, id int64) error
}

type Journal interface {
	InsertJournal(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error)
	GetJournal(ctx context.Context, id int64) (models.JournalEntry, error)
	ListJournal(ctx context.Context, filter Filter) ([]models.JournalEntry, error)
	UpdateJournal(ctx context.Context, id int64, patch models.JournalPatch, updatedAt time.Time) (models.JournalEntry, error)
	DeleteJournal(ctx context.Context, id int64) error
}

// Stats serves the read-only dashboard aggregates.
type Stats interface {
	// CategoryStats counts one user's entries created in [from, to].
	CategoryStats(ctx context.Context, category models.Category, userID int64, from, to time.Time) (models.CategoryStats, error)
	// CompletedByMonth groups completed entries by the calendar month, in
	// loc, of their completion date. Months without completions are absent.
	CompletedByMonth(ctx context.Context, category models.Category, userID int64, since time.Time, loc *time.Location) ([]models.MonthCount, error)
}

type Store interface {
	Users
	Readings
	Drawings
	Fitness
	Journal
	Stats
	Ping(ctx context.Context) error
}

// CompletionColumn names the date that marks an entry of category as done.
func CompletionColumn(category models.Category) (string, bool) {
	switch category {
	case models.CategoryReading:
		return "completed_date", true
	case models.CategoryDrawing:
		return "end_date", true
	case models.CategoryFitness:
		return "activity_date", true
	default:
		return "", false
	}
}
