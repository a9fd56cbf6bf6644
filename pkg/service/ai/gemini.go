// Package ai holds the completion gateway: a thin wrapper around the
// Gemini API that turns one prompt into one opaque text response.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/praachilabs/studypack/pkg/common/errors"
)

// GatewayError wraps any failure of the underlying completion service:
// transport, auth, quota, or a malformed response. Callers receive it
// unchanged — the core never retries and never substitutes default text.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gemini %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is matches the ErrUpstream sentinel so HTTP status mapping works.
func (e *GatewayError) Is(target error) bool {
	return target == apperrors.ErrUpstream
}

// GeminiService is the production Completer backed by Google Gemini.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiService creates the gateway. An empty apiKey falls back to the
// GEMINI_API_KEY environment variable; an empty modelName falls back to
// GEMINI_MODEL, then to a sensible default.
func NewGeminiService(ctx context.Context, apiKey, modelName string, temperature float32) (*GeminiService, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		modelName = env
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	model := client.GenerativeModel(modelName)
	if temperature > 0 {
		// Low temperature keeps the section structure consistent.
		model.SetTemperature(temperature)
	}

	return &GeminiService{
		client: client,
		model:  model,
	}, nil
}

// Complete sends one prompt and returns the model's single text response.
func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Gemini GenerateContent failed: %v", err)
		return "", &GatewayError{Op: "generate", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &GatewayError{Op: "generate", Err: errors.New("empty response")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (s *GeminiService) Close() error {
	return s.client.Close()
}
