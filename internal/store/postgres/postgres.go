// Package postgres implements store.Store on PostgreSQL through sqlx and
// the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/store"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var tables = map[models.Category]string{
	models.CategoryReading: "reading_entries",
	models.CategoryDrawing: "drawing_entries",
	models.CategoryFitness: "fitness_entries",
	models.CategoryJournal: "journal_entries",
}

type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

// insertColumns lists the db-tagged fields of row except the serial id.
func insertColumns(row any) []string {
	t := reflect.Indirect(reflect.ValueOf(row)).Type()
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		col := t.Field(i).Tag.Get("db")
		if col == "" || col == "-" || col == "id" {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

func insertRow[T any](ctx context.Context, db *sqlx.DB, table string, row T) (T, error) {
	var out T
	cols := insertColumns(row)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s) RETURNING *",
		table, strings.Join(cols, ", "), strings.Join(cols, ", :"))
	rows, err := db.NamedQueryContext(ctx, query, row)
	if err != nil {
		return out, fmt.Errorf("insert into %s: %w", table, translate(err))
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return out, fmt.Errorf("insert into %s: %w", table, translate(err))
		}
		return out, fmt.Errorf("insert into %s: no row returned", table)
	}
	if err := rows.StructScan(&out); err != nil {
		return out, fmt.Errorf("scan inserted %s row: %w", table, err)
	}
	return out, nil
}

func getRow[T any](ctx context.Context, db *sqlx.DB, table string, id int64) (T, error) {
	var out T
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table)
	if err := db.GetContext(ctx, &out, query, id); err != nil {
		return out, fmt.Errorf("load %s %d: %w", table, id, translate(err))
	}
	return out, nil
}

type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func listRows[T any](ctx context.Context, db *sqlx.DB, table string, filter store.Filter, order string) ([]T, error) {
	cond := &conditions{}
	if filter.UserID != nil {
		cond.add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != "" {
		cond.add("status = $%d", filter.Status)
	}
	if filter.Tag != "" {
		cond.add("position($%d in coalesce(tags, '')) > 0", filter.Tag)
	}
	if filter.From != nil {
		cond.add("date >= $%d", *filter.From)
	}
	if filter.To != nil {
		cond.add("date <= $%d", *filter.To)
	}
	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s", table, cond.where(), order)
	if filter.Limit > 0 {
		cond.args = append(cond.args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(cond.args))
	}
	out := []T{}
	if err := db.SelectContext(ctx, &out, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, translate(err))
	}
	return out, nil
}

func updateRow[T any](ctx context.Context, db *sqlx.DB, table string, id int64, changes []models.Change, updatedAt time.Time) (T, error) {
	var out T
	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+2)
	for _, change := range changes {
		args = append(args, change.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", change.Column, len(args)))
	}
	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *", table, strings.Join(sets, ", "), len(args))
	if err := db.GetContext(ctx, &out, query, args...); err != nil {
		return out, fmt.Errorf("update %s %d: %w", table, id, translate(err))
	}
	return out, nil
}

func deleteRow(ctx context.Context, db *sqlx.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, translate(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %s %d: %w", table, id, store.ErrNotFound)
	}
	return nil
}
