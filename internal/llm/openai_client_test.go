package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/langfuse"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"logprobs":      nil,
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
				"refusal": nil,
			},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 10, "total_tokens": 20},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) (*OpenAIClient, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
		Timeout: timeout,
	})
	return client, &hits
}

var testProfile = &domain.Profile{
	AthleteID:    "ath-123",
	GivenName:    "Lucia",
	FamilyName:   "Martinez",
	PrimarySport: "Rowing",
}

func TestNewOpenAIClient_EmptyKey(t *testing.T) {
	if c := NewOpenAIClient(Config{}); c != nil {
		t.Error("expected nil client without API key")
	}
}

func TestOpenAIClient_NilFailsWithConfigurationError(t *testing.T) {
	var c *OpenAIClient

	_, err := c.AnalyzeReadiness(context.Background(), testProfile, domain.DefaultMetricVector())
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("AnalyzeReadiness() error = %v, want ErrConfiguration", err)
	}

	_, err = c.SummarizeProfile(context.Background(), &domain.CreateProfileRequest{GivenName: "a"})
	if kind, _ := KindOf(err); kind != KindConfiguration {
		t.Errorf("SummarizeProfile() kind = %s, want %s", kind, KindConfiguration)
	}
}

func TestOpenAIClient_AnalyzeReadiness(t *testing.T) {
	var captured map[string]any
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletionBody(validAnalysis))
	}, time.Second)

	metrics := domain.DefaultMetricVector()
	metrics.Energy = 8
	out, err := client.AnalyzeReadiness(context.Background(), testProfile, metrics)
	if err != nil {
		t.Fatalf("AnalyzeReadiness() error = %v", err)
	}
	if out.GlobalScore != 0.85 {
		t.Errorf("GlobalScore = %v, want 0.85", out.GlobalScore)
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Errorf("server hits = %d, want 1", *hits)
	}

	format, _ := captured["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("response_format = %v, want json_schema", captured["response_format"])
	}
	schema, _ := format["json_schema"].(map[string]any)
	if schema["strict"] != true || schema["name"] != "readiness_report" {
		t.Errorf("json_schema = %v", schema)
	}

	messages, _ := captured["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	content, _ := user["content"].(string)
	if !strings.Contains(content, "ath-123") || !strings.Contains(content, `"energy": 8`) {
		t.Errorf("user message does not embed profile and metrics: %s", content)
	}
}

func TestOpenAIClient_ServerErrorIsTransport(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}, time.Second)

	_, err := client.AnalyzeReadiness(context.Background(), testProfile, domain.DefaultMetricVector())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("AnalyzeReadiness() error = %v, want ErrTransport", err)
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Errorf("server hits = %d, want exactly 1 (no automatic retry)", *hits)
	}
}

func TestOpenAIClient_TimeoutIsTransport(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}, 50*time.Millisecond)

	start := time.Now()
	_, err := client.AnalyzeReadiness(context.Background(), testProfile, domain.DefaultMetricVector())
	if kind, _ := KindOf(err); kind != KindTransport {
		t.Fatalf("AnalyzeReadiness() error = %v, want TransportError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("AnalyzeReadiness() error = %v, want cause context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestOpenAIClient_NoChoicesIsTransport(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"chatcmpl-test","object":"chat.completion","created":1700000000,"model":"gpt-4o-mini","choices":[]}`)
	}, time.Second)

	_, err := client.AnalyzeReadiness(context.Background(), testProfile, domain.DefaultMetricVector())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("AnalyzeReadiness() error = %v, want ErrTransport", err)
	}
	if kind, _ := KindOf(err); !kind.Retryable() {
		t.Errorf("kind %s should be retryable", kind)
	}
}

// systemMessageSent runs one analysis and returns the system message the server received.
func systemMessageSent(t *testing.T, persona string) string {
	t.Helper()
	var system string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, m := range body.Messages {
			if m.Role == "system" {
				system = m.Content
			}
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletionBody(validAnalysis))
	}))
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/", Timeout: time.Second, Persona: persona})
	if _, err := client.AnalyzeReadiness(context.Background(), testProfile, domain.DefaultMetricVector()); err != nil {
		t.Fatalf("AnalyzeReadiness() error = %v", err)
	}
	return system
}

func TestOpenAIClient_SystemMessageKeepsContract(t *testing.T) {
	tests := []struct {
		name        string
		persona     string
		wantPersona string
	}{
		{name: "default persona", persona: "", wantPersona: DefaultPersona},
		{name: "managed persona", persona: "You are a friendly coach.", wantPersona: "You are a friendly coach."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system := systemMessageSent(t, tt.persona)

			if !strings.HasPrefix(system, tt.wantPersona) {
				t.Errorf("system message does not start with persona: %q", system)
			}
			for _, want := range []string{
				"ONLY JSON",
				"global_score > 0.7",
				"0.5 <= global_score <= 0.7",
				"global_score < 0.5",
				"at most 200 characters",
			} {
				if !strings.Contains(system, want) {
					t.Errorf("system message missing %q:\n%s", want, system)
				}
			}
		})
	}
}

func TestOpenAIClient_ManagedPersonaKeepsContract(t *testing.T) {
	prompts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"type":"text","prompt":"You are a friendly coach."}`)
	}))
	t.Cleanup(prompts.Close)

	persona := langfuse.ResolvePersona(context.Background(), langfuse.PersonaSource{
		BaseURL: prompts.URL, PublicKey: "pk", SecretKey: "sk", Name: "coach-persona",
	}, DefaultPersona)
	if persona != "You are a friendly coach." {
		t.Fatalf("ResolvePersona() = %q", persona)
	}

	system := systemMessageSent(t, persona)
	for _, want := range []string{"You are a friendly coach.", "ONLY JSON", "0.7", "0.5", "200"} {
		if !strings.Contains(system, want) {
			t.Errorf("system message missing %q:\n%s", want, system)
		}
	}
}

func TestOpenAIClient_InvalidContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKind ErrorKind
	}{
		{name: "prose", content: "Sorry, I cannot help.", wantKind: KindMalformedResponse},
		{name: "score out of range", content: strings.Replace(validAnalysis, "0.85", "1.4", 1), wantKind: KindSchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, chatCompletionBody(tt.content))
			}, time.Second)

			_, err := client.AnalyzeReadiness(context.Background(), testProfile, domain.DefaultMetricVector())
			if kind, _ := KindOf(err); kind != tt.wantKind {
				t.Errorf("AnalyzeReadiness() error = %v, want %s", err, tt.wantKind)
			}
		})
	}
}

func TestOpenAIClient_SummarizeProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletionBody(`{"profile_summary":"Lightweight rower chasing consistency."}`))
	}, time.Second)

	summary, err := client.SummarizeProfile(context.Background(), &domain.CreateProfileRequest{
		GivenName: "Lucia", FamilyName: "Martinez", PrimarySport: "Rowing",
	})
	if err != nil {
		t.Fatalf("SummarizeProfile() error = %v", err)
	}
	if summary != "Lightweight rower chasing consistency." {
		t.Errorf("summary = %q", summary)
	}
}
