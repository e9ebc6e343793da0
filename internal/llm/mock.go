package llm

import (
	"context"
	"sync"
)

// MockProvider replays scripted responses in order. Used when no API key is
// configured and throughout the pipeline tests.
type MockProvider struct {
	mu        sync.Mutex
	responses []CompletionResponse
	requests  []CompletionRequest
}

func NewMockProvider(responses ...CompletionResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (p *MockProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if len(p.responses) == 0 {
		return &CompletionResponse{Content: "I heard you."}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return &resp, nil
}

// Requests returns every request seen so far, in order.
func (p *MockProvider) Requests() []CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CompletionRequest, len(p.requests))
	copy(out, p.requests)
	return out
}
