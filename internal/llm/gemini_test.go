package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGemini(t *testing.T) {
	client := NewGemini("test-api-key", "gemini-2.5-flash")

	if client == nil {
		t.Fatal("Expected non-nil client")
	}
	if client.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", client.apiKey)
	}
	if !strings.Contains(client.baseURL, "generativelanguage.googleapis.com") {
		t.Errorf("Expected base URL to contain Google API domain, got '%s'", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected non-nil HTTP client")
	}
}

func TestGeminiComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "test-model:generateContent") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Contents) == 0 || req.Contents[0].Parts[0].Text != "list the facts" {
			t.Errorf("Prompt not forwarded, got %+v", req.Contents)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "be terse" {
			t.Error("System instruction not forwarded")
		}
		if req.GenerationConfig == nil || req.GenerationConfig.Temperature != 0.3 {
			t.Errorf("Generation config not forwarded, got %+v", req.GenerationConfig)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: `{"ok": true}`}}}},
			},
		})
	}))
	defer server.Close()

	client := NewGemini("test-key", "test-model")
	client.baseURL = server.URL

	text, err := client.Complete(context.Background(), Request{
		System:      "be terse",
		Prompt:      "list the facts",
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("Expected response text, got %q", text)
	}
}

func TestGeminiCompleteServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	client := NewGemini("test-key", "test-model")
	client.baseURL = server.URL

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error for 503 status")
	}
	if !IsTransient(err) {
		t.Errorf("Expected 503 to be transient, got %v", err)
	}
}

func TestGeminiCompleteBadRequestIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client := NewGemini("test-key", "test-model")
	client.baseURL = server.URL

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error for 400 status")
	}
	if IsTransient(err) {
		t.Errorf("Expected 400 to be permanent, got %v", err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("Expected error to mention status code, got: %v", err)
	}
}

func TestGeminiCompleteEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := NewGemini("test-key", "test-model")
	client.baseURL = server.URL

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error for empty candidates")
	}
}
