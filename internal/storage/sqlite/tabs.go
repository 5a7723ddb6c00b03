package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tabie/internal/docstore"
	"github.com/mmynk/tabie/internal/metrics"
	"github.com/mmynk/tabie/internal/models"
)

// Create persists a new tab document.
func (s *SQLiteStore) Create(ctx context.Context, tab *models.Tab) error {
	docstore.Prepare(tab, time.Now().UTC())

	doc, err := json.Marshal(tab)
	if err != nil {
		return fmt.Errorf("failed to encode tab: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO tabs (id, created_by, doc, version, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		tab.ID, tab.CreatedBy, string(doc), tab.Version, tab.CreatedAt.UnixNano(), tab.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tab: %w", err)
	}

	metrics.DocumentWrites.WithLabelValues("sqlite", "create").Inc()
	s.hub.Publish(tab.ID, tab)
	return nil
}

// Get retrieves the latest snapshot of a tab.
func (s *SQLiteStore) Get(ctx context.Context, tabID string) (*models.Tab, error) {
	return getTab(ctx, s.db, tabID)
}

// Update replaces the given fields inside a transaction and publishes the
// new snapshot.
func (s *SQLiteStore) Update(ctx context.Context, tabID string, f docstore.Fields) (*models.Tab, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tab, err := getTab(ctx, tx, tabID)
	if err != nil {
		return nil, err
	}
	f.Apply(tab, time.Now().UTC())

	doc, err := json.Marshal(tab)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tab: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE tabs SET doc = ?, version = ?, updated_at = ? WHERE id = ?",
		string(doc), tab.Version, tab.UpdatedAt.UnixNano(), tabID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update tab: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, name := range f.Names() {
		metrics.DocumentWrites.WithLabelValues("sqlite", name).Inc()
	}
	s.hub.Publish(tabID, tab)
	return tab, nil
}

// Delete removes a tab document.
func (s *SQLiteStore) Delete(ctx context.Context, tabID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tabs WHERE id = ?", tabID)
	if err != nil {
		return fmt.Errorf("failed to delete tab: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete tab: %w", err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}

	metrics.DocumentWrites.WithLabelValues("sqlite", "delete").Inc()
	s.hub.Publish(tabID, nil)
	return nil
}

// ListByCreator returns the tabs created by userID, newest first.
func (s *SQLiteStore) ListByCreator(ctx context.Context, userID string) ([]*models.Tab, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM tabs WHERE created_by = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}
	defer rows.Close()

	tabs := []*models.Tab{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan tab: %w", err)
		}
		tab, err := decodeTab(doc)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, tab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tabs: %w", err)
	}
	return tabs, nil
}

// Subscribe streams snapshots of tabID to fn until ctx is done or the
// returned func is called.
func (s *SQLiteStore) Subscribe(ctx context.Context, tabID string, fn func(*models.Tab)) (func(), error) {
	offer, cancel := s.hub.Subscribe(tabID, fn)

	current, err := s.Get(ctx, tabID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		offer(nil)
	case err != nil:
		cancel()
		return nil, err
	default:
		offer(current)
	}

	stop := context.AfterFunc(ctx, cancel)
	return func() {
		stop()
		cancel()
	}, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTab(ctx context.Context, q queryer, tabID string) (*models.Tab, error) {
	var doc string
	err := q.QueryRowContext(ctx, "SELECT doc FROM tabs WHERE id = ?", tabID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", docstore.ErrNotFound, tabID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tab: %w", err)
	}
	return decodeTab(doc)
}

func decodeTab(doc string) (*models.Tab, error) {
	tab := &models.Tab{}
	if err := json.Unmarshal([]byte(doc), tab); err != nil {
		return nil, fmt.Errorf("failed to decode tab: %w", err)
	}
	tab.Normalize()
	return tab, nil
}
