package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/scenariokit/core"
)

// Request captures the normalized model input produced by participants.
type Request struct {
	Instructions string         `json:"instructions"` // System instructions for the model
	Messages     []core.Message `json:"messages"`     // Conversation history in append order
	Temperature  *float64       `json:"temperature,omitempty"`
	MaxTokens    *int64         `json:"max_tokens,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model turn.
type Response struct {
	Message      core.Message `json:"message"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive generated participants.
// A scenario run consumes whole turns, so the contract is synchronous.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples. It
// replays scripted responses in order and records every request it receives.
type MockModel struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	requests  []Request
}

// NewMockModel creates a mock replaying the given responses in order. When
// the script is exhausted the last response repeats.
func NewMockModel(responses ...string) *MockModel {
	return &MockModel{responses: responses}
}

// FailWith makes every subsequent Generate call return err.
func (m *MockModel) FailWith(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Generate returns the next scripted response as an assistant message.
func (m *MockModel) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock model has no scripted responses")
	}

	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++

	return &Response{
		Message:      core.NewAssistantMessage(m.responses[idx]),
		FinishReason: "stop",
	}, nil
}

// Calls returns how many times Generate was invoked.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns a copy of all recorded requests.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// Info returns metadata describing the mock.
func (m *MockModel) Info() Info { return Info{Name: "mock", Provider: "mock"} }
