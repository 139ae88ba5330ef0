// Package summary asks an LLM provider for a short blurb about a book.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/gemini"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
	"github.com/lehigh-university-libraries/bookfinder/internal/ollama"
	"github.com/lehigh-university-libraries/bookfinder/internal/openai"
	"github.com/lehigh-university-libraries/bookfinder/internal/providers"
)

const temperature = 0.3

const promptTemplate = `Write a two or three sentence summary of the following book for someone deciding whether to read it.
Only use the information given. Do not invent plot details. Reply with the summary only.

Title: %s
Author: %s
Published: %s
Genre: %s
Description: %s`

// Service generates summaries with one provider
type Service struct {
	provider providers.Provider
	name     string
	model    string
}

// New creates a summary service for the named provider. Empty values fall
// back to BOOKFINDER_SUMMARY_PROVIDER and the provider's default model.
func New(providerName, model string) (*Service, error) {
	if providerName == "" {
		providerName = os.Getenv("BOOKFINDER_SUMMARY_PROVIDER")
		if providerName == "" {
			providerName = "ollama"
		}
	}

	var p providers.Provider
	switch providerName {
	case "ollama":
		p = ollama.New()
	case "openai":
		p = openai.New()
	case "gemini":
		p = gemini.New()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}

	if model == "" {
		model = DefaultModel(providerName)
	}
	return NewWithProvider(p, providerName, model), nil
}

// NewWithProvider wraps an already configured provider
func NewWithProvider(p providers.Provider, name, model string) *Service {
	return &Service{provider: p, name: name, model: model}
}

// DefaultModel returns the model used when none is given
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return envOr("OPENAI_MODEL", "gpt-4o-mini")
	case "ollama":
		return envOr("OLLAMA_MODEL", "mistral-small3.2:24b")
	case "gemini":
		return envOr("GEMINI_MODEL", "gemini-2.5-flash")
	default:
		return ""
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Summarize returns a short summary built from the book's display fields
func (s *Service) Summarize(ctx context.Context, fields discovery.Fields) (string, error) {
	text, err := s.provider.Complete(ctx, providers.Request{
		Model:       s.model,
		Temperature: temperature,
		Prompt:      Prompt(fields),
	})
	if err != nil {
		return "", fmt.Errorf("%s summary failed: %w", s.name, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s returned an empty summary", s.name)
	}
	slog.Info("Generated summary", "provider", s.name, "model", s.model, "title", fields.Title, "length", len(text))
	return text, nil
}

// Prompt builds the summary prompt
func Prompt(f discovery.Fields) string {
	description := f.Description
	if description == normalize.NoDescription {
		description = "(none)"
	}
	return fmt.Sprintf(promptTemplate, f.Title, f.Authors, f.Year, f.Genre, description)
}
