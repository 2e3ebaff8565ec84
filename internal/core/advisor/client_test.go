package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "How do I improve my rating?" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		chatReply(t, w, "Pay on time and keep utilization low.")
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	reply, err := c.Generate(context.Background(), "How do I improve my rating?")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if reply != "Pay on time and keep utilization low." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestGenerateRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error": {"message": "try again"}}`, http.StatusInternalServerError)
			return
		}
		chatReply(t, w, "second time lucky")
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	reply, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if reply != "second time lucky" {
		t.Errorf("unexpected reply: %q", reply)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestGenerateDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error": {"message": "model not found", "type": "invalid_request_error"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected upstream message in error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("client errors must not be retried, got %d calls", got)
	}
}

func TestGenerateMissingAPIKey(t *testing.T) {
	c := NewClient("")
	if _, err := c.Generate(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when API key is unset")
	}
}
