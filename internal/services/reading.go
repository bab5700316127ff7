package services

import (
	"context"
	"fmt"
	"strings"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

func (t *Tracker) ListReadings(ctx context.Context, filter store.Filter) ([]models.ReadingEntry, error) {
	if err := checkStatusFilter(filter.Status, models.ReadingStatuses); err != nil {
		return nil, err
	}
	return t.Store.ListReadings(ctx, filter)
}

func (t *Tracker) GetReading(ctx context.Context, id int64) (models.ReadingEntry, error) {
	entry, err := t.Store.GetReading(ctx, id)
	return entry, fromStore(err, "Reading entry not found")
}

func (t *Tracker) CreateReading(ctx context.Context, patch models.ReadingPatch) (models.ReadingEntry, error) {
	if err := validation.Required(map[string]bool{
		"user_id": patch.UserID != nil,
		"title":   patch.Title != nil,
	}); err != nil {
		return models.ReadingEntry{}, invalid(err)
	}
	if err := t.requireOwner(ctx, *patch.UserID); err != nil {
		return models.ReadingEntry{}, err
	}

	now := t.now()
	entry := models.ReadingEntry{
		ReadingType: models.PhysicalBook,
		Status:      models.ReadingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	patch.ApplyTo(&entry)
	inferReadingDates(entry, &patch, now)
	patch.ApplyTo(&entry)

	created, err := t.Store.InsertReading(ctx, entry)
	if err != nil {
		return created, fromStore(err, "User not found")
	}
	t.publish(models.CategoryReading, "created", created.ID, created.UserID)
	return created, nil
}

func (t *Tracker) UpdateReading(ctx context.Context, id int64, patch models.ReadingPatch) (models.ReadingEntry, error) {
	current, err := t.Store.GetReading(ctx, id)
	if err != nil {
		return current, fromStore(err, "Reading entry not found")
	}
	if patch.UserID != nil {
		if err := t.requireOwner(ctx, *patch.UserID); err != nil {
			return current, err
		}
	}

	now := t.now()
	if patch.Status != nil {
		merged := current
		patch.ApplyTo(&merged)
		inferReadingDates(merged, &patch, now)
	}

	updated, err := t.Store.UpdateReading(ctx, id, patch, now)
	if err != nil {
		return updated, fromStore(err, "Reading entry not found")
	}
	t.publish(models.CategoryReading, "updated", updated.ID, updated.UserID)
	return updated, nil
}

func (t *Tracker) DeleteReading(ctx context.Context, id int64) error {
	current, err := t.Store.GetReading(ctx, id)
	if err != nil {
		return fromStore(err, "Reading entry not found")
	}
	if err := t.Store.DeleteReading(ctx, id); err != nil {
		return fromStore(err, "Reading entry not found")
	}
	t.publish(models.CategoryReading, "deleted", id, current.UserID)
	return nil
}

func checkStatusFilter[T ~string](status string, allowed []T) error {
	if status == "" || models.IsMember(status, allowed) {
		return nil
	}
	return ErrInvalidInput("Validation Error", map[string]string{
		"status": fmt.Sprintf("status must be one of [%s], got %q", strings.Join(models.Values(allowed), ", "), status),
	})
}
