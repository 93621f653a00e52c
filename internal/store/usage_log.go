package store

import (
	"context"
	"fmt"
	"time"

	"bigstep/internal/model"
)

const timeLayout = time.RFC3339Nano

// Append 사용 기록 추가. 기존 행은 수정하지 않는다.
func (s *Store) Append(ctx context.Context, entry model.UsageEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("append usage log: empty run id")
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin usage log tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO usage_log (run_id, recorded_at, platform_a_records, platform_b_records, documents, workers)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.RunID, recordedAt.UTC().Format(timeLayout),
		entry.PlatformARecords, entry.PlatformBRecords, entry.Documents, entry.Workers); err != nil {
		return fmt.Errorf("failed to append usage log: %w", err)
	}
	if err := setMeta(ctx, tx, metaLastRunAt, recordedAt.UTC().Format(timeLayout)); err != nil {
		return err
	}
	return tx.Commit()
}

// List 최근 기록부터 limit 건 (0 이하면 전체)
func (s *Store) List(ctx context.Context, limit int) ([]model.UsageEntry, error) {
	query := `
		SELECT run_id, recorded_at, platform_a_records, platform_b_records, documents, workers
		FROM usage_log ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage log: %w", err)
	}
	defer rows.Close()

	entries := []model.UsageEntry{}
	for rows.Next() {
		var e model.UsageEntry
		var recordedAt string
		if err := rows.Scan(&e.RunID, &recordedAt, &e.PlatformARecords, &e.PlatformBRecords, &e.Documents, &e.Workers); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, recordedAt); err == nil {
			e.RecordedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count 전체 기록 수
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usage_log").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count usage log: %w", err)
	}
	return n, nil
}
