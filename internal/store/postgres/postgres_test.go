package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "pgx")), mock
}

func ptr[T any](v T) *T { return &v }

func TestInsertReading(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO reading_entries \(user_id, title, author, .*, created_at, updated_at\) VALUES \(\$1, \$2, \$3, .*\) RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "status", "reading_type", "created_at", "updated_at"}).
			AddRow(11, 1, "Dune", "in_progress", "physical_book", now, now))

	got, err := s.InsertReading(context.Background(), models.ReadingEntry{
		UserID:      1,
		Title:       "Dune",
		Status:      models.ReadingInProgress,
		ReadingType: models.PhysicalBook,
		StartedDate: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, models.ReadingInProgress, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReadingUnknownOwner(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO reading_entries`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "reading_entries_user_id_fkey"})

	_, err := s.InsertReading(context.Background(), models.ReadingEntry{UserID: 99, Title: "Dune"})

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDrawing(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantErr error
	}{
		{
			name: "found",
			rows: sqlmock.NewRows([]string{"id", "user_id", "title", "medium", "status", "image_filename"}).
				AddRow(4, 2, "Cat", "pencil", "completed", "a.png"),
		},
		{
			name:    "missing",
			rows:    sqlmock.NewRows([]string{"id"}),
			wantErr: store.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM drawing_entries WHERE id = $1")).
				WithArgs(4).
				WillReturnRows(tt.rows)

			got, err := s.GetDrawing(context.Background(), 4)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got.Medium)
				assert.Equal(t, models.Pencil, *got.Medium)
				assert.Equal(t, "a.png", *got.ImageFilename)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListFilters(t *testing.T) {
	userID := int64(7)
	from := models.NewDate(2025, time.May, 1)
	to := models.NewDate(2025, time.May, 31)
	tests := []struct {
		name  string
		call  func(s *Store) error
		query string
		args  []driver.Value
	}{
		{
			name: "reading by owner and status",
			call: func(s *Store) error {
				_, err := s.ListReadings(context.Background(), store.Filter{UserID: &userID, Status: "completed", Limit: 5})
				return err
			},
			query: "SELECT * FROM reading_entries WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC, id DESC LIMIT $3",
			args:  []driver.Value{7, "completed", 5},
		},
		{
			name: "fitness unfiltered",
			call: func(s *Store) error {
				_, err := s.ListFitness(context.Background(), store.Filter{})
				return err
			},
			query: "SELECT * FROM fitness_entries ORDER BY created_at DESC, id DESC",
		},
		{
			name: "journal by tag and range",
			call: func(s *Store) error {
				_, err := s.ListJournal(context.Background(), store.Filter{Tag: "zoo", From: &from, To: &to})
				return err
			},
			query: "SELECT * FROM journal_entries WHERE position($1 in coalesce(tags, '')) > 0 AND date >= $2 AND date <= $3 ORDER BY date DESC, id DESC",
			args:  []driver.Value{"zoo", "2025-05-01", "2025-05-31"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMock(t)
			expect := mock.ExpectQuery("^" + regexp.QuoteMeta(tt.query) + "$")
			if len(tt.args) > 0 {
				expect.WithArgs(tt.args...)
			}
			expect.WillReturnRows(sqlmock.NewRows([]string{"id"}))

			require.NoError(t, tt.call(s))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateReading(t *testing.T) {
	s, mock := newMock(t)
	status := models.ReadingCompleted
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE reading_entries SET title = $1, status = $2, updated_at = $3 WHERE id = $4 RETURNING *")).
		WithArgs("Dune Messiah", "completed", now, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "updated_at"}).
			AddRow(3, "Dune Messiah", "completed", now))

	got, err := s.UpdateReading(context.Background(), 3, models.ReadingPatch{Title: ptr("Dune Messiah"), Status: &status}, now)

	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, now, got.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE fitness_entries SET updated_at = $1 WHERE id = $2 RETURNING *")).
		WithArgs(now, 8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.UpdateFitness(context.Background(), 8, models.FitnessPatch{}, now)

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDrawing(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, wantErr: store.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMock(t)
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM drawing_entries WHERE id = $1")).
				WithArgs(5).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := s.DeleteDrawing(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "created"},
		{name: "name taken", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_name_key"}, wantErr: store.ErrDuplicate},
		{name: "other failure", err: errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMock(t)
			expect := mock.ExpectQuery(`INSERT INTO users \(name, display_name, created_at, updated_at\)`).
				WithArgs("alice", "Alice", now, now)
			if tt.err != nil {
				expect.WillReturnError(tt.err)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
			}

			user, err := s.CreateUser(context.Background(), models.User{Name: "alice", DisplayName: "Alice", CreatedAt: now, UpdatedAt: now})
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.err != nil:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, store.ErrDuplicate)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(1), user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCategoryStats(t *testing.T) {
	s, mock := newMock(t)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`coalesce\(sum\(duration_hours\), 0\) AS hours\s+FROM drawing_entries WHERE user_id = \$1 AND created_at >= \$2 AND created_at <= \$3`).
		WithArgs(2, from, now).
		WillReturnRows(sqlmock.NewRows([]string{"count", "completed", "hours"}).AddRow(4, 3, 6.5))

	stats, err := s.CategoryStats(context.Background(), models.CategoryDrawing, 2, from, now)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 3, stats.Completed)
	require.NotNil(t, stats.Hours)
	assert.Equal(t, 6.5, *stats.Hours)
	assert.Nil(t, stats.Minutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletedByMonth(t *testing.T) {
	s, mock := newMock(t)
	since := now.AddDate(0, -6, 0)
	mock.ExpectQuery(`EXTRACT\(YEAR FROM \(end_date AT TIME ZONE \$3\)\)::int AS year.*FROM drawing_entries\s+WHERE user_id = \$1 AND status = 'completed' AND end_date >= \$2`).
		WithArgs(2, since, "UTC").
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "count"}).
			AddRow(2025, 1, 2).
			AddRow(2025, 3, 1))

	got, err := s.CompletedByMonth(context.Background(), models.CategoryDrawing, 2, since, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, []models.MonthCount{{Year: 2025, Month: 1, Count: 2}, {Year: 2025, Month: 3, Count: 1}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = s.CompletedByMonth(context.Background(), models.CategoryJournal, 2, since, time.UTC)
	assert.Error(t, err)
}

func TestDrawingByImage(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM drawing_entries WHERE image_filename = $1 ORDER BY id LIMIT 1")).
		WithArgs("a.png").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "status", "image_filename"}).
			AddRow(4, 2, "Cat", "completed", "a.png"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM drawing_entries WHERE image_filename = $1 ORDER BY id LIMIT 1")).
		WithArgs("b.png").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := s.DrawingByImage(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)

	_, err = s.DrawingByImage(context.Background(), "b.png")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
