package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"protofolio/backend/config"
	"protofolio/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/gomail.v2"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDispatcher() (*Dispatcher, *[]*gomail.Message) {
	var sent []*gomail.Message

	d := NewDispatcher(&config.Mail{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	d.now = func() time.Time { return now }
	d.send = func(m ...*gomail.Message) error {
		sent = append(sent, m...)
		return nil
	}

	return d, &sent
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendVerificationCode(t *testing.T) {
	d, sent := newTestDispatcher()

	require.NoError(t, d.SendVerificationCode(context.Background(), "a@x.com", "042117", now.Add(15*time.Minute)))
	require.Len(t, *sent, 1)

	m := (*sent)[0]
	assert.Equal(t, []string{"a@x.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))

	raw := render(t, m)
	assert.Contains(t, raw, "042117")
	assert.Contains(t, raw, "15 minutes")
}

func TestSendPasswordReset(t *testing.T) {
	d, sent := newTestDispatcher()

	require.NoError(t, d.SendPasswordReset(context.Background(), "a@x.com", "deadbeef", now.Add(time.Hour)))
	require.Len(t, *sent, 1)

	raw := render(t, (*sent)[0])
	assert.Contains(t, raw, "deadbeef")
	assert.Contains(t, raw, "60 minutes")
}

func TestSendToSelfRejected(t *testing.T) {
	d, sent := newTestDispatcher()

	err := d.SendVerificationCode(context.Background(), "NoReply@example.com", "000000", now)
	assert.ErrorIs(t, err, ErrSendToSelf)
	assert.Empty(t, *sent)
}

func TestSendFailure(t *testing.T) {
	d, _ := newTestDispatcher()
	boom := errors.New("connection refused")
	d.send = func(...*gomail.Message) error { return boom }

	err := d.SendVerificationCode(context.Background(), "a@x.com", "000000", now)
	assert.ErrorIs(t, err, boom)
}

func TestSendCancelled(t *testing.T) {
	d, _ := newTestDispatcher()
	release := make(chan struct{})
	defer close(release)

	d.send = func(...*gomail.Message) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.SendVerificationCode(ctx, "a@x.com", "000000", now)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingPruner struct {
	calls chan time.Time
}

func (p *countingPruner) PruneExpired(_ context.Context, at time.Time) (int64, error) {
	p.calls <- at
	return 1, nil
}

func TestTokenCleanupRunsUntilCancelled(t *testing.T) {
	p := &countingPruner{calls: make(chan time.Time, 16)}
	ctx, cancel := context.WithCancel(context.Background())

	TokenCleanup(ctx, 5*time.Millisecond, p)

	for range 2 {
		select {
		case at := <-p.calls:
			assert.Equal(t, time.UTC, at.Location())
		case <-time.After(time.Second):
			t.Fatal("cleanup did not run")
		}
	}

	cancel()
}

type stalePruner struct {
	cutoffs chan time.Time
}

func (p *stalePruner) DeleteStaleAccounts(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoffs <- cutoff
	return 0, nil
}

func TestAccountCleanupUsesTTL(t *testing.T) {
	p := &stalePruner{cutoffs: make(chan time.Time, 16)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := time.Now()
	AccountCleanup(ctx, 5*time.Millisecond, 24*time.Hour, p)

	select {
	case cutoff := <-p.cutoffs:
		assert.WithinDuration(t, before.Add(-24*time.Hour), cutoff, time.Second)
	case <-time.After(time.Second):
		t.Fatal("cleanup did not run")
	}
}

type memLogs struct {
	mu      sync.Mutex
	entries []*model.LogEntry
}

func (m *memLogs) WriteLog(_ context.Context, e *model.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func TestDBCorePersistsErrors(t *testing.T) {
	w := &memLogs{}
	log := zap.New(NewDBCore(w, zapcore.WarnLevel)).With(zap.String("requestID", "abc"))

	log.Info("ignored")
	log.Warn("slow mail")
	log.Error("Failed to create user", zap.Error(errors.New("disk full")))

	require.Len(t, w.entries, 2)

	assert.Equal(t, model.LogWarn, w.entries[0].Level)
	assert.Equal(t, "slow mail", w.entries[0].Message)

	e := w.entries[1]
	assert.Equal(t, model.LogError, e.Level)
	assert.Equal(t, "Failed to create user", e.Message)
	assert.Contains(t, e.Context, `"requestID":"abc"`)
	assert.Contains(t, e.Context, "disk full")
}
