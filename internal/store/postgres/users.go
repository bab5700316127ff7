package postgres

import (
	"context"
	"fmt"

	"progress-tracker-go/internal/models"
)

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, "SELECT id, name, display_name, created_at, updated_at FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list users: %w", translate(err))
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	if err := s.db.GetContext(ctx, &user, "SELECT id, name, display_name, created_at, updated_at FROM users WHERE id = $1", id); err != nil {
		return user, fmt.Errorf("load user %d: %w", id, translate(err))
	}
	return user, nil
}

func (s *Store) GetUserByName(ctx context.Context, name string) (models.User, error) {
	var user models.User
	if err := s.db.GetContext(ctx, &user, "SELECT id, name, display_name, created_at, updated_at FROM users WHERE name = $1", name); err != nil {
		return user, fmt.Errorf("load user %q: %w", name, translate(err))
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO users (name, display_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		user.Name, user.DisplayName, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return user, fmt.Errorf("create user %q: %w", user.Name, translate(err))
	}
	return user, nil
}
