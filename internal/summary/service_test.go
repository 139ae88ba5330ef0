package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
	"github.com/lehigh-university-libraries/bookfinder/internal/providers"
)

type stubProvider struct {
	reply string
	err   error
	got   providers.Request
}

func (p *stubProvider) Complete(ctx context.Context, req providers.Request) (string, error) {
	p.got = req
	return p.reply, p.err
}

var dune = discovery.Fields{
	Title:       "Dune",
	Authors:     "Frank Herbert",
	Year:        "1965",
	Genre:       "Science fiction",
	Description: normalize.NoDescription,
}

func TestSummarize(t *testing.T) {
	p := &stubProvider{reply: "  A desert planet epic.\n"}
	svc := NewWithProvider(p, "stub", "test-model")

	got, err := svc.Summarize(context.Background(), dune)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "A desert planet epic." {
		t.Errorf("Unexpected summary %q", got)
	}
	if p.got.Model != "test-model" {
		t.Errorf("Expected model to be passed, got %q", p.got.Model)
	}
	if !strings.Contains(p.got.Prompt, "Title: Dune") || !strings.Contains(p.got.Prompt, "Description: (none)") {
		t.Errorf("Unexpected prompt:\n%s", p.got.Prompt)
	}
}

func TestSummarizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
	}{
		{"provider error", &stubProvider{err: errors.New("boom")}},
		{"empty reply", &stubProvider{reply: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewWithProvider(tt.provider, "stub", "m")
			if _, err := svc.Summarize(context.Background(), dune); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Setenv("BOOKFINDER_SUMMARY_PROVIDER", "")
	t.Setenv("OLLAMA_MODEL", "")
	t.Setenv("OPENAI_MODEL", "gpt-test")

	svc, err := New("", "")
	if err != nil {
		t.Fatal(err)
	}
	if svc.name != "ollama" || svc.model != "mistral-small3.2:24b" {
		t.Errorf("Unexpected defaults %s/%s", svc.name, svc.model)
	}

	svc, err = New("openai", "")
	if err != nil {
		t.Fatal(err)
	}
	if svc.model != "gpt-test" {
		t.Errorf("Expected model from env, got %s", svc.model)
	}

	if _, err := New("bogus", ""); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
