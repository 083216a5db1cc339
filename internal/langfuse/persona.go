package langfuse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	personaFetchTimeout = 5 * time.Second
	// MaxPersonaLength bounds a managed persona, in runes.
	MaxPersonaLength = 2000
)

var (
	errPersonaNotConfigured = errors.New("no managed persona configured")
	errUnsupportedPrompt    = errors.New("only text prompts can be used as a persona")
)

// PersonaSource names the managed coach persona in Langfuse prompt management
// and the local file that keeps the last copy fetched.
type PersonaSource struct {
	BaseURL   string
	PublicKey string
	SecretKey string

	Name      string
	Label     string
	CachePath string
}

func (s PersonaSource) remote() bool {
	return s.Name != "" && s.BaseURL != "" && s.PublicKey != "" && s.SecretKey != ""
}

// ResolvePersona returns the managed persona, or fallback when none can be
// loaded. The persona only sets the coach's voice; callers append the output
// rules themselves.
func ResolvePersona(ctx context.Context, src PersonaSource, fallback string) string {
	logger := slog.Default().With("component", "langfuse")

	persona, err := LoadPersona(ctx, src)
	if err != nil {
		if !errors.Is(err, errPersonaNotConfigured) {
			logger.Info("using built-in persona", "reason", err)
		}
		return fallback
	}

	logger.Info("using managed persona", "name", src.Name, "label", src.Label, "runes", utf8.RuneCountInString(persona))
	return persona
}

// LoadPersona fetches the persona and refreshes the local copy. When the
// fetch fails, the local copy is used.
func LoadPersona(ctx context.Context, src PersonaSource) (string, error) {
	if !src.remote() {
		if src.CachePath == "" {
			return "", errPersonaNotConfigured
		}
		return readCachedPersona(src.CachePath)
	}

	persona, err := fetchPersona(ctx, src)
	if err != nil {
		slog.Warn("persona fetch failed", "component", "langfuse", "name", src.Name, "error", err)
		if src.CachePath == "" {
			return "", err
		}
		return readCachedPersona(src.CachePath)
	}

	if src.CachePath != "" {
		if err := writeCachedPersona(src.CachePath, persona); err != nil {
			slog.Warn("failed to cache persona locally", "component", "langfuse", "error", err)
		}
	}
	return persona, nil
}

func fetchPersona(ctx context.Context, src PersonaSource) (string, error) {
	endpoint, err := url.Parse(strings.TrimSuffix(src.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid LANGFUSE_BASE_URL: %w", err)
	}
	endpoint.Path += "/api/public/v2/prompts/" + url.PathEscape(src.Name)
	if src.Label != "" {
		endpoint.RawQuery = url.Values{"label": {src.Label}}.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, personaFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create prompt request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(src.PublicKey, src.SecretKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call prompt API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("prompt API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Type   string          `json:"type"`
		Prompt json.RawMessage `json:"prompt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode prompt response: %w", err)
	}
	if payload.Type != "" && payload.Type != "text" {
		return "", fmt.Errorf("%w: got %q", errUnsupportedPrompt, payload.Type)
	}

	var text string
	if err := json.Unmarshal(payload.Prompt, &text); err != nil {
		return "", fmt.Errorf("parse text prompt: %w", err)
	}
	return checkPersona(text)
}

// checkPersona trims the text and rejects empty or oversized personas.
func checkPersona(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("persona is empty")
	}
	if n := utf8.RuneCountInString(text); n > MaxPersonaLength {
		return "", fmt.Errorf("persona has %d runes, limit is %d", n, MaxPersonaLength)
	}
	return text, nil
}

func readCachedPersona(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read cached persona: %w", err)
	}
	return checkPersona(string(data))
}

// writeCachedPersona replaces the cached copy atomically.
func writeCachedPersona(path, persona string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".persona-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(persona); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
