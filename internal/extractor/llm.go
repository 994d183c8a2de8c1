package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
)

// Config configures the LLM extractor.
type Config struct {
	APIKey     string
	BaseURL    string // Default: https://api.openai.com/v1
	Model      string // e.g., "gpt-4o-mini"
	Timeout    time.Duration
	MaxRetries int
	Logger     *zap.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:     apiKey,
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-4o-mini",
		Timeout:    20 * time.Second,
		MaxRetries: 2,
	}
}

// LLMExtractor implements Extractor over an OpenAI-compatible
// chat-completions endpoint.
type LLMExtractor struct {
	cfg    *Config
	client *http.Client
	logger *zap.Logger
}

// NewLLM creates an LLM-backed extractor.
func NewLLM(cfg *Config) *LLMExtractor {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ProductIntent extracts a product reference and requested fields.
func (e *LLMExtractor) ProductIntent(ctx context.Context, text string) (*ProductQuery, error) {
	raw, err := e.Complete(ctx, productIntentPrompt(text), true)
	if err != nil {
		return nil, err
	}

	var q ProductQuery
	if err := decodeStrict(raw, &q); err != nil {
		return nil, err
	}
	if strings.TrimSpace(q.Entity) == "" {
		return nil, nil
	}
	return &q, nil
}

// ComparisonIntent determines whether the text compares two products.
func (e *LLMExtractor) ComparisonIntent(ctx context.Context, text string) (*ComparisonQuery, error) {
	raw, err := e.Complete(ctx, comparisonIntentPrompt(text), true)
	if err != nil {
		return nil, err
	}

	var q ComparisonQuery
	if err := decodeStrict(raw, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// StatusCategoryFallback extracts status/category values from a query
// the regex layer recognized but could not fully parse.
func (e *LLMExtractor) StatusCategoryFallback(ctx context.Context, text string) (*StatusCategoryQuery, error) {
	raw, err := e.Complete(ctx, statusCategoryPrompt(text), true)
	if err != nil {
		return nil, err
	}

	var q StatusCategoryQuery
	if err := decodeStrict(raw, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// DateFilter extracts a creation-date condition.
func (e *LLMExtractor) DateFilter(ctx context.Context, text string) (*DateQuery, error) {
	raw, err := e.Complete(ctx, dateFilterPrompt(text), true)
	if err != nil {
		return nil, err
	}

	var q DateQuery
	if err := decodeStrict(raw, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// MatchCandidate picks which candidate title the text refers to. A
// matched title that is not in the candidate set is treated as no match
// rather than trusted.
func (e *LLMExtractor) MatchCandidate(ctx context.Context, text string, candidates []string) (*CandidateMatch, error) {
	raw, err := e.Complete(ctx, matchCandidatePrompt(text, candidates), true)
	if err != nil {
		return nil, err
	}

	var m CandidateMatch
	if err := decodeStrict(raw, &m); err != nil {
		return nil, err
	}
	if m.Title == "" {
		return nil, nil
	}

	for _, c := range candidates {
		if c == m.Title {
			return &m, nil
		}
	}
	e.logger.Warn("extractor named a title outside the candidate set",
		zap.String("title", m.Title))
	return nil, nil
}

// Complete sends one prompt and returns the raw model reply. Retries
// with exponential backoff; failure after all attempts surfaces as
// EXTRACTOR_UNAVAILABLE. jsonMode constrains the reply to a JSON
// object; the response renderer reuses this client with prose replies.
func (e *LLMExtractor) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	body := map[string]any{
		"model": e.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0,
	}
	if jsonMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", apperrors.ExtractorUnavailable(err)
	}

	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", apperrors.ExtractorUnavailable(ctx.Err())
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
		if err != nil {
			return "", apperrors.ExtractorUnavailable(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

		resp, err := e.client.Do(httpReq)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
			continue
		}

		var cr completionResponse
		if err := json.Unmarshal(respBody, &cr); err != nil {
			lastErr = err
			continue
		}
		if len(cr.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in response")
			continue
		}

		return cr.Choices[0].Message.Content, nil
	}

	e.logger.Warn("extractor request failed after retries", zap.Error(lastErr))
	return "", apperrors.ExtractorUnavailable(lastErr)
}

// ============================================================
// Chat Completions API Types
// ============================================================

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
