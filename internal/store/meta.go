package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const metaLastRunAt = "last_run_at"

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setMeta(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta 메타 값. 없으면 "", false
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// LastRunAt 마지막 정산 실행 시각
func (s *Store) LastRunAt(ctx context.Context) (time.Time, bool, error) {
	v, ok, err := s.GetMeta(ctx, metaLastRunAt)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last run time: %w", err)
	}
	return t, true, nil
}
