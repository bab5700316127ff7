package services

import (
	"context"
	"time"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
)

// Tracker runs the validate, infer and persist sequence for every entry
// kind. Inputs arrive as patches already coerced by the validation package.
type Tracker struct {
	Store    store.Store
	Images   *ImageStore
	Events   *EntryHub
	Location *time.Location
	// Now is the clock. Tests replace it to pin timestamps.
	Now func() time.Time
}

func NewTracker(st store.Store, images *ImageStore, events *EntryHub, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{Store: st, Images: images, Events: events, Location: loc, Now: time.Now}
}

func (t *Tracker) now() time.Time {
	return t.Now().In(t.Location)
}

func (t *Tracker) requireOwner(ctx context.Context, userID int64) error {
	if _, err := t.Store.GetUser(ctx, userID); err != nil {
		return fromStore(err, "User not found")
	}
	return nil
}

func (t *Tracker) publish(category models.Category, action string, entryID, userID int64) {
	if t.Events == nil {
		return
	}
	t.Events.Broadcast(EntryEvent{
		Category: category,
		Action:   action,
		EntryID:  entryID,
		UserID:   userID,
		At:       t.now(),
	})
}
