package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

// TemplateRecord is a stored inventory entry.
type TemplateRecord struct {
	ID          string    `json:"template_id"`
	Category    string    `json:"category"`
	Channels    []string  `json:"channels"`
	Variables   []string  `json:"variables"`
	Source      string    `json:"source"`
	ContentHash string    `json:"content_hash"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveTemplate inserts or replaces the inventory entry for tmpl.
func (s *SQLiteStore) SaveTemplate(ctx context.Context, tmpl *core.Template) error {
	if s.db == nil {
		return errNotOpened
	}

	channels, err := encodeList(tmpl.Channels)
	if err != nil {
		return err
	}
	variables, err := encodeList(tmpl.Variables)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, category, channels, variables, source, content_hash, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			category = excluded.category,
			channels = excluded.channels,
			variables = excluded.variables,
			source = excluded.source,
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at`,
		tmpl.ID, tmpl.Category, channels, variables, tmpl.Source, tmpl.ContentHash, formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", tmpl.ID, err)
	}

	s.logger.Debug("saved template", slog.String("id", tmpl.ID), slog.String("hash", tmpl.ContentHash))
	return nil
}

// GetContentHash returns the stored content hash for a template.
// An unknown template yields an empty hash and no error.
func (s *SQLiteStore) GetContentHash(ctx context.Context, templateID string) (string, error) {
	if s.db == nil {
		return "", errNotOpened
	}

	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM templates WHERE id = ?`, templateID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash, nil
}

// ListTemplates returns every inventory entry ordered by id.
func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]*TemplateRecord, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, channels, variables, source, content_hash, updated_at
		FROM templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*TemplateRecord
	for rows.Next() {
		var (
			rec                 TemplateRecord
			channels, variables string
			updated             string
		)
		if err := rows.Scan(&rec.ID, &rec.Category, &channels, &variables, &rec.Source, &rec.ContentHash, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		if rec.Channels, err = decodeList(channels); err != nil {
			return nil, err
		}
		if rec.Variables, err = decodeList(variables); err != nil {
			return nil, err
		}
		if rec.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return records, nil
}

// DeleteTemplate removes a template from the inventory.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, templateID string) error {
	if s.db == nil {
		return errNotOpened
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, templateID); err != nil {
		return fmt.Errorf("failed to delete template %s: %w", templateID, err)
	}
	return nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(s string) ([]string, error) {
	items := []string{}
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list %q: %w", s, err)
	}
	return items, nil
}
