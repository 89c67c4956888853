package store

import (
	"context"
	"errors"
	"fmt"

	pg "realtime_kanban/internal/db"
	"realtime_kanban/internal/domain"
	"realtime_kanban/internal/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ TaskStore = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool. The schema is expected to exist.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres creates the pool and applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := pg.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.Query(ctx, `SELECT id, title, status FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Status); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, title string, status domain.Status) (domain.Task, error) {
	t := domain.Task{ID: uuid.NewString(), Title: title, Status: status}
	_, err := s.db.Exec(ctx, `INSERT INTO tasks (id, title, status) VALUES ($1, $2, $3)`, t.ID, t.Title, string(t.Status))
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRow(ctx,
		`UPDATE tasks SET status = $1 WHERE id = $2 RETURNING id, title, status`,
		string(status), id,
	).Scan(&t.ID, &t.Title, &t.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tasks`)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
