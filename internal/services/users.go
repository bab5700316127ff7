package services

import (
	"context"
	"errors"
	"fmt"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/validation"
)

func (t *Tracker) ListUsers(ctx context.Context) ([]models.User, error) {
	return t.Store.ListUsers(ctx)
}

func (t *Tracker) GetUser(ctx context.Context, id int64) (models.User, error) {
	user, err := t.Store.GetUser(ctx, id)
	return user, fromStore(err, "User not found")
}

// CreateUser registers a family member. A taken name is a Conflict.
func (t *Tracker) CreateUser(ctx context.Context, input validation.UserInput) (models.User, error) {
	conflict := fmt.Sprintf("User with name '%s' already exists", input.Name)
	if _, err := t.Store.GetUserByName(ctx, input.Name); err == nil {
		return models.User{}, ErrConflict(conflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	now := t.now()
	user, err := t.Store.CreateUser(ctx, models.User{
		Name:        input.Name,
		DisplayName: input.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return models.User{}, ErrConflict(conflict)
	}
	return user, err
}
