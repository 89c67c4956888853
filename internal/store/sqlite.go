package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"realtime_kanban/internal/domain"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var _ TaskStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('todo', 'in-progress', 'done'))
);`

// SQLiteStore keeps tasks in a single-file database; list order is rowid order.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is allowed.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, status FROM tasks ORDER BY rowid`)
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

func (s *SQLiteStore) Create(ctx context.Context, title string, status domain.Status) (domain.Task, error) {
	t := domain.Task{ID: uuid.NewString(), Title: title, Status: status}
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks (id, title, status) VALUES (?, ?, ?)`, t.ID, t.Title, string(t.Status))
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET status = ? WHERE id = ? RETURNING id, title, status`,
		string(status), id,
	).Scan(&t.ID, &t.Title, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks`)
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
