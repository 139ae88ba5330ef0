package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/bookfinder/internal/providers"
)

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model   string `json:"model"`
			Prompt  string `json:"prompt"`
			Stream  bool   `json:"stream"`
			Options struct {
				Temperature float64 `json:"temperature"`
			} `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if body.Model != "llama3" || body.Prompt != "hello" || body.Stream || body.Options.Temperature != 0.3 {
			t.Errorf("Unexpected request %+v", body)
		}
		w.Write([]byte(`{"response": "  hi there \n"}`))
	}))
	defer server.Close()

	o := &Ollama{BaseURL: server.URL}
	got, err := o.Complete(context.Background(), providers.Request{Model: "llama3", Prompt: "hello", Temperature: 0.3})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "hi there" {
		t.Errorf("Unexpected response %q", got)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	o := &Ollama{BaseURL: server.URL}
	if _, err := o.Complete(context.Background(), providers.Request{Model: "missing"}); err == nil {
		t.Error("Expected error for non-200 status")
	}
}

func TestNewUsesEnv(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://ollama.internal:11434/")
	if got := New().BaseURL; got != "http://ollama.internal:11434" {
		t.Errorf("Unexpected base URL %q", got)
	}

	t.Setenv("OLLAMA_URL", "")
	if got := New().BaseURL; got != DefaultURL {
		t.Errorf("Expected default URL, got %q", got)
	}
}
