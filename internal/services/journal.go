package services

import (
	"context"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

func (t *Tracker) ListJournal(ctx context.Context, filter store.Filter) ([]models.JournalEntry, error) {
	filter.Status = ""
	filter.Tag = CleanSearchTerm(filter.Tag)
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, ErrInvalidInput("Validation Error", map[string]string{
			"end_date": "end_date must not be before start_date",
		})
	}
	return t.Store.ListJournal(ctx, filter)
}

func (t *Tracker) GetJournal(ctx context.Context, id int64) (models.JournalEntry, error) {
	entry, err := t.Store.GetJournal(ctx, id)
	return entry, fromStore(err, "Journal entry not found")
}

func (t *Tracker) CreateJournal(ctx context.Context, patch models.JournalPatch) (models.JournalEntry, error) {
	if err := validation.Required(map[string]bool{
		"user_id": patch.UserID != nil,
		"date":    patch.Date != nil,
		"context": patch.Context != nil,
	}); err != nil {
		return models.JournalEntry{}, invalid(err)
	}
	if err := t.requireOwner(ctx, *patch.UserID); err != nil {
		return models.JournalEntry{}, err
	}
	patch.Tags = CleanTags(patch.Tags)

	now := t.now()
	entry := models.JournalEntry{CreatedAt: now, UpdatedAt: now}
	patch.ApplyTo(&entry)

	created, err := t.Store.InsertJournal(ctx, entry)
	if err != nil {
		return created, fromStore(err, "User not found")
	}
	t.publish(models.CategoryJournal, "created", created.ID, created.UserID)
	return created, nil
}

func (t *Tracker) UpdateJournal(ctx context.Context, id int64, patch models.JournalPatch) (models.JournalEntry, error) {
	current, err := t.Store.GetJournal(ctx, id)
	if err != nil {
		return current, fromStore(err, "Journal entry not found")
	}
	if patch.UserID != nil {
		if err := t.requireOwner(ctx, *patch.UserID); err != nil {
			return current, err
		}
	}
	patch.Tags = CleanTags(patch.Tags)

	updated, err := t.Store.UpdateJournal(ctx, id, patch, t.now())
	if err != nil {
		return updated, fromStore(err, "Journal entry not found")
	}
	t.publish(models.CategoryJournal, "updated", updated.ID, updated.UserID)
	return updated, nil
}

func (t *Tracker) DeleteJournal(ctx context.Context, id int64) error {
	current, err := t.Store.GetJournal(ctx, id)
	if err != nil {
		return fromStore(err, "Journal entry not found")
	}
	if err := t.Store.DeleteJournal(ctx, id); err != nil {
		return fromStore(err, "Journal entry not found")
	}
	t.publish(models.CategoryJournal, "deleted", id, current.UserID)
	return nil
}
