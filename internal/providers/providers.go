package providers

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a provider is missing its credentials
var ErrNotConfigured = errors.New("provider not configured")

// Request is a single prompt sent to an LLM provider
type Request struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
