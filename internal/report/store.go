package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/missionview/internal/db"
)

// Fixed width so that lexical order in SQL matches time order.
const timeLayout = "2006-01-02 15:04:05.000000"

type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts r, assigning an ID and creation time when unset.
func (s *Store) Create(ctx context.Context, r *Report) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, title, project_file, profile_file, markdown, provider, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.ProjectFile, r.ProfileFile, r.Markdown, r.Provider, r.Model,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Report, error) {
	var (
		r  Report
		ts string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, project_file, profile_file, markdown, provider, model, created_at
		FROM reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.Title, &r.ProjectFile, &r.ProfileFile, &r.Markdown, &r.Provider, &r.Model, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading report %s: %w", id, err)
	}
	r.CreatedAt = parseTime(ts)
	return &r, nil
}

// List returns the newest reports first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `SELECT id, title, project_file, profile_file, created_at FROM reports ORDER BY created_at DESC, id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum Summary
			ts  string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.ProjectFile, &sum.ProfileFile, &ts); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		sum.CreatedAt = parseTime(ts)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting report %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// parseTime accepts the stored layout and the forms the sqlite driver may
// hand back for DATETIME columns.
func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
