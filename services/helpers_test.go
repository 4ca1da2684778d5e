package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentMail struct {
	Kind  string
	Email string
	Value string
}

// fakeMailer records every email instead of sending it.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) SendVerificationCode(ctx context.Context, email, playerName, code string, ttl time.Duration) error {
	return m.record("verification", email, code)
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, email, token string, ttl time.Duration) error {
	return m.record("reset", email, token)
}

func (m *fakeMailer) record(kind, email, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("mail provider down")
	}
	m.sent = append(m.sent, sentMail{Kind: kind, Email: email, Value: value})
	return nil
}

func (m *fakeMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
