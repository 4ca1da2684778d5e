package mocks

import (
	"strings"
	"sync"

	"github.com/eulark/eulark-site/utils"
)

var _ utils.Random = (*MockRandom)(nil)

// MockRandom returns queued values. When a queue is empty it falls back to
// zero-filled output of the requested size.
type MockRandom struct {
	mu     sync.Mutex
	digits []string
	tokens []string
}

func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

func (r *MockRandom) QueueDigits(values ...string) {
	r.mu.Lock()
	r.digits = append(r.digits, values...)
	r.mu.Unlock()
}

func (r *MockRandom) QueueTokens(values ...string) {
	r.mu.Lock()
	r.tokens = append(r.tokens, values...)
	r.mu.Unlock()
}

func (r *MockRandom) Digits(n int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.digits) == 0 {
		return strings.Repeat("0", n), nil
	}
	v := r.digits[0]
	r.digits = r.digits[1:]
	return v, nil
}

func (r *MockRandom) Token(nBytes int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tokens) == 0 {
		return strings.Repeat("0", nBytes*2), nil
	}
	v := r.tokens[0]
	r.tokens = r.tokens[1:]
	return v, nil
}
