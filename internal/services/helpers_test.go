package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store/memory"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	tracker *Tracker
	store   *memory.Store
	clock   *fakeClock
	images  *ImageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	clock := &fakeClock{now: t0}
	images := NewImageStore(t.TempDir(), "/static/uploads/", 1024, 0)
	tracker := NewTracker(st, images, nil, time.UTC)
	tracker.Now = clock.Now
	return &fixture{tracker: tracker, store: st, clock: clock, images: images}
}

func (f *fixture) user(t *testing.T, name string) models.User {
	t.Helper()
	u, err := f.store.CreateUser(context.Background(), models.User{Name: name, DisplayName: name, CreatedAt: t0, UpdatedAt: t0})
	require.NoError(t, err)
	return u
}

func requireKind(t *testing.T, err error, kind ErrorKind) ServiceError {
	t.Helper()
	require.Error(t, err)
	var se ServiceError
	require.ErrorAs(t, err, &se)
	require.Equal(t, kind, se.Kind, "message: %s", se.Message)
	return se
}
