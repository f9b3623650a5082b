package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sunpeak/solar-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/sunpeak/solar-advisor/pkg/errors"
)

// Service generates solar panel management instructions from weather data.
type Service interface {
	Generate(ctx context.Context, weatherPayload []byte) (Advisory, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewService wires up the advisor domain.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "advisor.service"),
	}
}

func (s *service) Generate(ctx context.Context, weatherPayload []byte) (Advisory, error) {
	payload := strings.TrimSpace(string(weatherPayload))
	if payload == "" {
		return Advisory{}, apperrors.Wrap(apperrors.CodeInvalidInput, "no weather data provided", nil)
	}
	if !json.Valid([]byte(payload)) {
		return Advisory{}, apperrors.Wrap(apperrors.CodeInvalidInput, "weather data must be valid JSON", nil)
	}

	content, err := s.complete(ctx, s.buildPrompt(payload, false))
	if err != nil {
		return Advisory{}, apperrors.Wrap(apperrors.CodeUpstreamError, "advisory request failed", err)
	}

	advisory, parseErr := s.parseAdvisory(content)
	if parseErr == nil {
		return advisory, nil
	}
	if !s.cfg.RetryOnBadParse {
		return Advisory{}, apperrors.Wrap(apperrors.CodeMalformedResponse, "advisory response malformed", parseErr)
	}

	// The model only usually returns well-formed JSON. One bounded retry with
	// a stricter prompt before surfacing the parse failure.
	s.logger.Warn("advisory parse failed, retrying with strict prompt", "error", parseErr)
	content, err = s.complete(ctx, s.buildPrompt(payload, true))
	if err != nil {
		return Advisory{}, apperrors.Wrap(apperrors.CodeUpstreamError, "advisory retry request failed", err)
	}
	advisory, parseErr = s.parseAdvisory(content)
	if parseErr != nil {
		return Advisory{}, apperrors.Wrap(apperrors.CodeMalformedResponse, "advisory response malformed", parseErr)
	}
	return advisory, nil
}

func (s *service) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *service) buildPrompt(payload string, strict bool) string {
	var builder strings.Builder
	builder.WriteString(strings.TrimSpace(s.cfg.Prompt))
	builder.WriteString(" The response must be in the following json structure with the same keys and data types as shown below:\n\n")
	builder.WriteString(`{
 "alert": {
   "isActive": Boolean,
   "description": "text description of the alert"
 },
 "instructions": [
   "instruction 1",
   "instruction 2"
 ]
}`)
	if strict {
		builder.WriteString("\n\nRespond ONLY with a single minified JSON object in exactly that shape. Do not wrap it in code fences or add any other text.")
	}
	builder.WriteString("\n\nUse the following weather data:\n\n")
	builder.WriteString(payload)
	return builder.String()
}

func (s *service) parseAdvisory(raw string) (Advisory, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	var wire struct {
		Alert *struct {
			IsActive    *bool  `json:"isActive"`
			Description string `json:"description"`
		} `json:"alert"`
		Instructions json.RawMessage `json:"instructions"`
	}
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return Advisory{}, fmt.Errorf("decode advisory: %w", err)
	}
	if wire.Alert == nil || wire.Alert.IsActive == nil {
		return Advisory{}, errors.New("alert missing")
	}

	if len(wire.Instructions) == 0 || string(wire.Instructions) == "null" {
		return Advisory{}, errors.New("instructions missing")
	}
	var instructions []string
	if err := json.Unmarshal(wire.Instructions, &instructions); err != nil {
		return Advisory{}, errors.New("instructions is not a list of strings")
	}

	cleaned := make([]string, 0, len(instructions))
	for _, item := range instructions {
		if clean := strings.TrimSpace(item); clean != "" {
			cleaned = append(cleaned, clean)
		}
	}
	if len(cleaned) == 0 {
		return Advisory{}, errors.New("instructions empty")
	}
	if limit := s.cfg.MaxInstructions; limit > 0 && len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}

	return Advisory{
		Alert: Alert{
			IsActive:    *wire.Alert.IsActive,
			Description: wire.Alert.Description,
		},
		Instructions: cleaned,
	}, nil
}
