package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

// ReportRecord is a stored quality report.
type ReportRecord struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	core.QualityReport
}

// RecordReport stores a quality report and its checks in one transaction.
// It returns the new run id.
func (s *SQLiteStore) RecordReport(ctx context.Context, report *core.QualityReport) (string, error) {
	if s.db == nil {
		return "", errNotOpened
	}

	id := generateID()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quality_runs (id, template_id, channel, passed, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		id, report.TemplateID, report.Channel, boolToInt(report.Passed()), formatTime(s.now()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record quality run: %w", err)
	}

	for i, c := range report.Checks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO quality_checks (run_id, position, name, passed, message, severity) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, c.Name, boolToInt(c.Passed), c.Message, c.Severity.String(),
		)
		if err != nil {
			return "", fmt.Errorf("failed to record check %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit quality run: %w", err)
	}

	s.logger.Debug("recorded quality report",
		slog.String("id", id),
		slog.String("template", report.TemplateID),
		slog.String("channel", report.Channel),
		slog.Bool("passed", report.Passed()))
	return id, nil
}

// ListReports returns the most recent reports, newest first.
// An empty templateID lists every template; limit <= 0 means no limit.
func (s *SQLiteStore) ListReports(ctx context.Context, templateID string, limit int) ([]*ReportRecord, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, template_id, channel, recorded_at
		FROM quality_runs
		WHERE ? = '' OR template_id = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`,
		templateID, templateID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quality runs: %w", err)
	}

	var records []*ReportRecord
	for rows.Next() {
		var (
			rec      ReportRecord
			recorded string
		)
		if err := rows.Scan(&rec.ID, &rec.TemplateID, &rec.Channel, &recorded); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan quality run: %w", err)
		}
		if rec.RecordedAt, err = parseTime(recorded); err != nil {
			_ = rows.Close()
			return nil, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to list quality runs: %w", err)
	}
	// in-memory stores hold a single connection; release it before loading checks
	_ = rows.Close()

	for _, rec := range records {
		if rec.Checks, err = s.loadChecks(ctx, rec.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *SQLiteStore) loadChecks(ctx context.Context, runID string) ([]core.CheckResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, passed, message, severity FROM quality_checks WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load checks for %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	checks := []core.CheckResult{}
	for rows.Next() {
		var (
			c        core.CheckResult
			passed   int
			severity string
		)
		if err := rows.Scan(&c.Name, &passed, &c.Message, &severity); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		c.Passed = passed != 0
		if err := c.Severity.UnmarshalText([]byte(severity)); err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load checks for %s: %w", runID, err)
	}
	return checks, nil
}
