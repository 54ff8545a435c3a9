package mock

import (
	"context"
	"sync"

	"github.com/poiesic/groundit/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns DefaultResponse.
	CompleteFunc func(ctx context.Context, prompt string, params ai.CompleteParams) (string, error)

	// DefaultResponse is returned when no CompleteFunc is set.
	DefaultResponse string

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewMockCompleter creates a mock completer that echoes a fixed response.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{DefaultResponse: "5"}
}

// Complete records the prompt and returns the injected or default response.
// Safe for concurrent use, reranking calls it from multiple workers.
func (m *MockCompleter) Complete(ctx context.Context, prompt string, params ai.CompleteParams) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, params)
	}
	return m.DefaultResponse, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns a copy of every prompt Complete received, in call order.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Reset clears recorded calls and any injected behavior.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.prompts = nil
	m.CompleteFunc = nil
	m.DefaultResponse = "5"
}
