package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
)

// Analyzer is the contract with the external inference service.
type Analyzer interface {
	// AnalyzeReadiness sends the profile and today's metrics and returns validated report content.
	AnalyzeReadiness(ctx context.Context, profile *domain.Profile, metrics domain.MetricVector) (*domain.AnalysisOutput, error)
	// SummarizeProfile asks for a one-line profile summary used to enrich onboarding.
	SummarizeProfile(ctx context.Context, req *domain.CreateProfileRequest) (string, error)
}

// Config holds the inference client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// Persona replaces DefaultPersona when set. The readiness output rules
	// are always appended after it.
	Persona string
}

// OpenAIClient implements Analyzer against any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client       openai.Client
	model        string
	timeout      time.Duration
	systemPrompt string
}

// NewOpenAIClient creates a new inference client.
// Returns nil if the API key is empty; a nil client fails every call with
// ConfigurationError before touching the network.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.APIKey == "" {
		return nil
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retry policy belongs to the caller
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		timeout:      cfg.Timeout,
		systemPrompt: readinessSystemMessage(cfg.Persona),
	}
}

// AnalyzeReadiness calls the inference service for a daily readiness analysis.
func (c *OpenAIClient) AnalyzeReadiness(ctx context.Context, profile *domain.Profile, metrics domain.MetricVector) (*domain.AnalysisOutput, error) {
	if c == nil {
		return nil, newError(KindConfiguration, "%w", ErrConfiguration)
	}

	payload, err := json.MarshalIndent(map[string]any{
		"profile": profile,
		"metrics": metrics,
	}, "", "  ")
	if err != nil {
		return nil, newError(KindTransport, "serialize request: %w", err)
	}

	content, err := c.complete(ctx, c.systemPrompt, fmt.Sprintf(readinessPromptTemplate, payload), "readiness_report", readinessSchema)
	if err != nil {
		return nil, err
	}
	return ParseAnalysis(content)
}

// SummarizeProfile calls the inference service for a short profile summary.
func (c *OpenAIClient) SummarizeProfile(ctx context.Context, req *domain.CreateProfileRequest) (string, error) {
	if c == nil {
		return "", newError(KindConfiguration, "%w", ErrConfiguration)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", newError(KindTransport, "serialize request: %w", err)
	}

	content, err := c.complete(ctx, profileSystemPrompt, fmt.Sprintf(profilePromptTemplate, domain.MaxTextLength, payload), "athlete_profile", profileSummarySchema)
	if err != nil {
		return "", err
	}
	return ParseProfileSummary(content)
}

// complete runs one bounded chat completion with a strict JSON schema response format.
func (c *OpenAIClient) complete(ctx context.Context, system, user, schemaName string, schema map[string]any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return nil, newError(KindTransport, "%w: %w", ctxErr, err)
		}
		return nil, newError(KindTransport, "%w", err)
	}

	// An empty completion is a failed call, not untrusted content.
	if len(resp.Choices) == 0 {
		return nil, newError(KindTransport, "no choices in response")
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, newError(KindMalformedResponse, "refused: %s", msg.Refusal)
	}
	return []byte(msg.Content), nil
}
