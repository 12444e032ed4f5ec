package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddingWithRetry(ctx context.Context, text string, maxRetries int) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client       *genai.Client
	modelName    string
	embedModel   string
	initialDelay time.Duration
	audit        *AuditLogger
}

func NewGeminiService(apiKey string, initialDelay time.Duration, audit *AuditLogger) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if initialDelay <= 0 {
		initialDelay = 2 * time.Second
	}

	return &geminiService{
		client:       client,
		modelName:    "gemini-2.5-flash",
		embedModel:   "text-embedding-004",
		initialDelay: initialDelay,
		audit:        audit,
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	start := time.Now()
	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	g.audit.ExternalCall("embed_content", g.embedModel, text, "", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateEmbeddingWithRetry implements GeminiService.
func (g *geminiService) GenerateEmbeddingWithRetry(ctx context.Context, text string, maxRetries int) ([]float32, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateEmbedding(ctx, text)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < maxRetries {
			if err := sleepBackoff(ctx, g.initialDelay, attempt); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		g.audit.ExternalCall("generate_text", g.modelName, prompt, "", time.Since(start), err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	g.audit.ExternalCall("generate_text", g.modelName, prompt, text, time.Since(start), nil)
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < maxRetries {
			if err := sleepBackoff(ctx, g.initialDelay, attempt); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// BackoffDelay returns the exponential delay applied before retrying a failed
// external call: initial * 2^(attempt-1).
func BackoffDelay(initial time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

func sleepBackoff(ctx context.Context, initial time.Duration, attempt int) error {
	timer := time.NewTimer(BackoffDelay(initial, attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
