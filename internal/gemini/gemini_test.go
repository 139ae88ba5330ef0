package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/bookfinder/internal/providers"
)

func TestCompleteWithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := New().Complete(context.Background(), providers.Request{Model: "gemini-2.5-flash"})
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
