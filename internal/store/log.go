package store

import (
	"context"
	"fmt"

	"protofolio/backend/internal/model"
)

func (s *Store) WriteLog(ctx context.Context, e *model.LogEntry) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to write log entry, %w", err)
	}

	return nil
}

// Logs returns a page of log entries, newest first
func (s *Store) Logs(ctx context.Context, take, skip int) ([]model.LogEntry, error) {
	out := make([]model.LogEntry, 0, take)

	err := s.db.WithContext(ctx).
		Order("timestamp desc").
		Order("id desc").
		Limit(take).
		Offset(skip).
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list logs, %w", err)
	}

	return out, nil
}
