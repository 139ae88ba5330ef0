package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/bookfinder/internal/providers"
)

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Unexpected authorization %q", got)
		}
		w.Write([]byte(`{"choices": [{"message": {"content": "A desert planet epic."}}]}`))
	}))
	defer server.Close()

	o := &OpenAI{APIKey: "sk-test", BaseURL: server.URL + "/v1"}
	got, err := o.Complete(context.Background(), providers.Request{Model: "gpt-4o-mini", Prompt: "Dune"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "A desert planet epic." {
		t.Errorf("Unexpected response %q", got)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	o := &OpenAI{APIKey: "sk-test", BaseURL: server.URL}
	if _, err := o.Complete(context.Background(), providers.Request{}); err == nil {
		t.Error("Expected error when no choices are returned")
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	o := &OpenAI{BaseURL: "http://127.0.0.1:0"}
	_, err := o.Complete(context.Background(), providers.Request{})
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
