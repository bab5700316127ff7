package services

import (
	"context"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

func (t *Tracker) ListFitness(ctx context.Context, filter store.Filter) ([]models.FitnessEntry, error) {
	if err := checkStatusFilter(filter.Status, models.FitnessStatuses); err != nil {
		return nil, err
	}
	return t.Store.ListFitness(ctx, filter)
}

func (t *Tracker) GetFitness(ctx context.Context, id int64) (models.FitnessEntry, error) {
	entry, err := t.Store.GetFitness(ctx, id)
	return entry, fromStore(err, "Fitness entry not found")
}

func (t *Tracker) CreateFitness(ctx context.Context, patch models.FitnessPatch) (models.FitnessEntry, error) {
	if err := validation.Required(map[string]bool{
		"user_id": patch.UserID != nil,
		"title":   patch.Title != nil,
	}); err != nil {
		return models.FitnessEntry{}, invalid(err)
	}
	if err := t.requireOwner(ctx, *patch.UserID); err != nil {
		return models.FitnessEntry{}, err
	}

	now := t.now()
	entry := models.FitnessEntry{
		Status:    models.FitnessPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.ApplyTo(&entry)
	inferFitnessDates(entry, &patch, now)
	patch.ApplyTo(&entry)

	created, err := t.Store.InsertFitness(ctx, entry)
	if err != nil {
		return created, fromStore(err, "User not found")
	}
	t.publish(models.CategoryFitness, "created", created.ID, created.UserID)
	return created, nil
}

func (t *Tracker) UpdateFitness(ctx context.Context, id int64, patch models.FitnessPatch) (models.FitnessEntry, error) {
	current, err := t.Store.GetFitness(ctx, id)
	if err != nil {
		return current, fromStore(err, "Fitness entry not found")
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
		inferFitnessDates(merged, &patch, now)
	}

	updated, err := t.Store.UpdateFitness(ctx, id, patch, now)
	if err != nil {
		return updated, fromStore(err, "Fitness entry not found")
	}
	t.publish(models.CategoryFitness, "updated", updated.ID, updated.UserID)
	return updated, nil
}

func (t *Tracker) DeleteFitness(ctx context.Context, id int64) error {
	current, err := t.Store.GetFitness(ctx, id)
	if err != nil {
		return fromStore(err, "Fitness entry not found")
	}
	if err := t.Store.DeleteFitness(ctx, id); err != nil {
		return fromStore(err, "Fitness entry not found")
	}
	t.publish(models.CategoryFitness, "deleted", id, current.UserID)
	return nil
}
