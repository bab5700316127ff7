// Package memory implements store.Store in process memory. It backs demo
// runs with STORAGE_DRIVER=memory and the HTTP tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]models.User
	readings map[int64]models.ReadingEntry
	drawings map[int64]models.DrawingEntry
	fitness  map[int64]models.FitnessEntry
	journal  map[int64]models.JournalEntry
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    map[int64]models.User{},
		readings: map[int64]models.ReadingEntry{},
		drawings: map[int64]models.DrawingEntry{},
		fitness:  map[int64]models.FitnessEntry{},
		journal:  map[int64]models.JournalEntry{},
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) ownerExists(userID int64) error {
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %d: %w", userID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return u, fmt.Errorf("user %d: %w", id, store.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByName(_ context.Context, name string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %q: %w", name, store.ErrNotFound)
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == user.Name {
			return user, fmt.Errorf("user %q: %w", user.Name, store.ErrDuplicate)
		}
	}
	user.ID = s.id()
	s.users[user.ID] = user
	return user, nil
}

// entry constrains the generic helpers below to the four entry kinds.
type entry interface {
	models.ReadingEntry | models.DrawingEntry | models.FitnessEntry | models.JournalEntry
}

func insert[T entry](s *Store, rows map[int64]T, row T, userID int64, setID func(*T, int64)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ownerExists(userID); err != nil {
		return row, err
	}
	setID(&row, s.id())
	rows[idOf(row)] = row
	return row, nil
}

func get[T entry](s *Store, rows map[int64]T, kind string, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := rows[id]
	if !ok {
		return row, fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	return row, nil
}

func update[T entry](s *Store, rows map[int64]T, kind string, id int64, apply func(*T)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := rows[id]
	if !ok {
		return row, fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	apply(&row)
	if err := s.ownerExists(ownerOf(row)); err != nil {
		return row, err
	}
	rows[id] = row
	return row, nil
}

func remove[T entry](s *Store, rows map[int64]T, kind string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := rows[id]; !ok {
		return fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	delete(rows, id)
	return nil
}

func list[T entry](s *Store, rows map[int64]T, filter store.Filter, keep func(T) bool, less func(a, b T) int) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []T{}
	for _, row := range rows {
		if filter.UserID != nil && ownerOf(row) != *filter.UserID {
			continue
		}
		if keep != nil && !keep(row) {
			continue
		}
		out = append(out, row)
	}
	slices.SortFunc(out, less)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func idOf[T entry](row T) int64 {
	switch r := any(row).(type) {
	case models.ReadingEntry:
		return r.ID
	case models.DrawingEntry:
		return r.ID
	case models.FitnessEntry:
		return r.ID
	case models.JournalEntry:
		return r.ID
	}
	return 0
}

func ownerOf[T entry](row T) int64 {
	switch r := any(row).(type) {
	case models.ReadingEntry:
		return r.UserID
	case models.DrawingEntry:
		return r.UserID
	case models.FitnessEntry:
		return r.UserID
	case models.JournalEntry:
		return r.UserID
	}
	return 0
}

func createdDesc(aCreated, bCreated time.Time, aID, bID int64) int {
	if c := bCreated.Compare(aCreated); c != 0 {
		return c
	}
	return cmp.Compare(bID, aID)
}

func statusIs[S ~string](filter store.Filter, status S) bool {
	return filter.Status == "" || string(status) == filter.Status
}

func (s *Store) InsertReading(_ context.Context, e models.ReadingEntry) (models.ReadingEntry, error) {
	return insert(s, s.readings, e, e.UserID, func(r *models.ReadingEntry, id int64) { r.ID = id })
}

func (s *Store) GetReading(_ context.Context, id int64) (models.ReadingEntry, error) {
	return get(s, s.readings, "reading entry", id)
}

func (s *Store) ListReadings(_ context.Context, f store.Filter) ([]models.ReadingEntry, error) {
	return list(s, s.readings, f,
		func(e models.ReadingEntry) bool { return statusIs(f, e.Status) },
		func(a, b models.ReadingEntry) int { return createdDesc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }), nil
}

func (s *Store) UpdateReading(_ context.Context, id int64, p models.ReadingPatch, at time.Time) (models.ReadingEntry, error) {
	return update(s, s.readings, "reading entry", id, func(e *models.ReadingEntry) {
		p.ApplyTo(e)
		e.UpdatedAt = at
	})
}

func (s *Store) DeleteReading(_ context.Context, id int64) error {
	return remove(s, s.readings, "reading entry", id)
}

func (s *Store) InsertDrawing(_ context.Context, e models.DrawingEntry) (models.DrawingEntry, error) {
	return insert(s, s.drawings, e, e.UserID, func(r *models.DrawingEntry, id int64) { r.ID = id })
}

func (s *Store) GetDrawing(_ context.Context, id int64) (models.DrawingEntry, error) {
	return get(s, s.drawings, "drawing entry", id)
}

func (s *Store) ListDrawings(_ context.Context, f store.Filter) ([]models.DrawingEntry, error) {
	return list(s, s.drawings, f,
		func(e models.DrawingEntry) bool { return statusIs(f, e.Status) },
		func(a, b models.DrawingEntry) int { return createdDesc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }), nil
}

func (s *Store) UpdateDrawing(_ context.Context, id int64, p models.DrawingPatch, at time.Time) (models.DrawingEntry, error) {
	return update(s, s.drawings, "drawing entry", id, func(e *models.DrawingEntry) {
		p.ApplyTo(e)
		e.UpdatedAt = at
	})
}

func (s *Store) DeleteDrawing(_ context.Context, id int64) error {
	return remove(s, s.drawings, "drawing entry", id)
}

func (s *Store) DrawingByImage(_ context.Context, filename string) (models.DrawingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.DrawingEntry
	for id := range s.drawings {
		e := s.drawings[id]
		if e.ImageFilename != nil && *e.ImageFilename == filename && (found == nil || e.ID < found.ID) {
			found = &e
		}
	}
	if found == nil {
		return models.DrawingEntry{}, fmt.Errorf("drawing with image %q: %w", filename, store.ErrNotFound)
	}
	return *found, nil
}

func (s *Store) InsertFitness(_ context.Context, e models.FitnessEntry) (models.FitnessEntry, error) {
	return insert(s, s.fitness, e, e.UserID, func(r *models.FitnessEntry, id int64) { r.ID = id })
}

func (s *Store) GetFitness(_ context.Context, id int64) (models.FitnessEntry, error) {
	return get(s, s.fitness, "fitness entry", id)
}

func (s *Store) ListFitness(_ context.Context, f store.Filter) ([]models.FitnessEntry, error) {
	return list(s, s.fitness, f,
		func(e models.FitnessEntry) bool { return statusIs(f, e.Status) },
		func(a, b models.FitnessEntry) int { return createdDesc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }), nil
}

func (s *Store) UpdateFitness(_ context.Context, id int64, p models.FitnessPatch, at time.Time) (models.FitnessEntry, error) {
	return update(s, s.fitness, "fitness entry", id, func(e *models.FitnessEntry) {
		p.ApplyTo(e)
		e.UpdatedAt = at
	})
}

func (s *Store) DeleteFitness(_ context.Context, id int64) error {
	return remove(s, s.fitness, "fitness entry", id)
}

func (s *Store) InsertJournal(_ context.Context, e models.JournalEntry) (models.JournalEntry, error) {
	return insert(s, s.journal, e, e.UserID, func(r *models.JournalEntry, id int64) { r.ID = id })
}

func (s *Store) GetJournal(_ context.Context, id int64) (models.JournalEntry, error) {
	return get(s, s.journal, "journal entry", id)
}

func (s *Store) ListJournal(_ context.Context, f store.Filter) ([]models.JournalEntry, error) {
	return list(s, s.journal, f,
		func(e models.JournalEntry) bool {
			if f.Tag != "" && (e.Tags == nil || !strings.Contains(*e.Tags, f.Tag)) {
				return false
			}
			if f.From != nil && e.Date.Before(*f.From) {
				return false
			}
			if f.To != nil && f.To.Before(e.Date) {
				return false
			}
			return true
		},
		func(a, b models.JournalEntry) int {
			if c := b.Date.Compare(a.Date.Time); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		}), nil
}

func (s *Store) UpdateJournal(_ context.Context, id int64, p models.JournalPatch, at time.Time) (models.JournalEntry, error) {
	return update(s, s.journal, "journal entry", id, func(e *models.JournalEntry) {
		p.ApplyTo(e)
		e.UpdatedAt = at
	})
}

func (s *Store) DeleteJournal(_ context.Context, id int64) error {
	return remove(s, s.journal, "journal entry", id)
}
