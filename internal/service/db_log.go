package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"protofolio/backend/internal/model"

	"go.uber.org/zap/zapcore"
)

type LogWriter interface {
	WriteLog(ctx context.Context, e *model.LogEntry) error
}

// dbCore is a zapcore.Core persisting entries to the logs table so admins
// can read them without shell access
type dbCore struct {
	zapcore.LevelEnabler
	w      LogWriter
	fields []zapcore.Field
}

// NewDBCore returns a core that stores every entry at or above level. Tee it
// with the console core.
func NewDBCore(w LogWriter, level zapcore.LevelEnabler) zapcore.Core {
	return &dbCore{
		LevelEnabler: level,
		w:            w,
	}
}

func (c *dbCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *dbCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}

	return ce
}

func (c *dbCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	var logCtx string
	if len(enc.Fields) > 0 {
		b, err := json.Marshal(enc.Fields)
		if err == nil {
			logCtx = string(b)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.w.WriteLog(ctx, &model.LogEntry{
		Level:     levelOf(e.Level),
		Message:   e.Message,
		Context:   logCtx,
		Timestamp: e.Time.UTC(),
	})
	if err != nil {
		// Logging through zap here would recurse
		fmt.Fprintf(os.Stderr, "failed to persist log entry: %v\n", err)
	}

	return nil
}

func (c *dbCore) Sync() error {
	return nil
}

func levelOf(l zapcore.Level) string {
	switch {
	case l >= zapcore.ErrorLevel:
		return model.LogError
	case l == zapcore.WarnLevel:
		return model.LogWarn
	default:
		return model.LogInfo
	}
}
