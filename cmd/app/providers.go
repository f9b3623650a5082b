package main

import (
	"fmt"
	"log/slog"

	"github.com/sunpeak/solar-advisor/internal/domain/advisor"
	"github.com/sunpeak/solar-advisor/internal/domain/chat"
	"github.com/sunpeak/solar-advisor/internal/infra/config"
	"github.com/sunpeak/solar-advisor/internal/infra/llm/chatgpt"
	"github.com/sunpeak/solar-advisor/internal/infra/llm/gemini"
	"github.com/sunpeak/solar-advisor/internal/infra/weatherapi"
)

func provideChatStore(cfg *config.Config) *chat.Store {
	return chat.NewStore(cfg.Chat.SessionTTL, cfg.Chat.MaxSessions)
}

func provideConversationalist(cfg *config.Config, logger *slog.Logger) (chat.Conversationalist, error) {
	switch cfg.LLM.Provider {
	case "openai":
		client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		return chatgpt.NewConversation(client, chatgpt.ConversationConfig{
			Model:            cfg.LLM.Model,
			Temperature:      cfg.LLM.Temperature,
			MaxTokens:        cfg.LLM.MaxTokens,
			TopP:             cfg.LLM.TopP,
			FrequencyPenalty: cfg.LLM.FrequencyPenalty,
			PresencePenalty:  cfg.LLM.PresencePenalty,
			ContextBudget:    cfg.LLM.ContextBudget,
		}, logger), nil
	case "gemini":
		return gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, gemini.GenerationConfig{
			Model:           cfg.LLM.Model,
			Temperature:     cfg.LLM.Temperature,
			MaxOutputTokens: cfg.LLM.MaxTokens,
			TopP:            cfg.LLM.TopP,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}

// provideAdvisorChatClient builds the OpenAI client the advisor completes
// against. It never reuses llm.apiKey on a gemini deployment: that key belongs
// to a different API, so the advisor carries its own.
func provideAdvisorChatClient(cfg *config.Config) (advisor.ChatClient, error) {
	apiKey := cfg.Advisor.APIKey
	baseURL := cfg.Advisor.BaseURL
	if cfg.LLM.Provider == "openai" {
		if apiKey == "" {
			apiKey = cfg.LLM.APIKey
		}
		if baseURL == "" {
			baseURL = cfg.LLM.BaseURL
		}
	}
	return chatgpt.NewClient(apiKey, baseURL)
}

func provideAdvisorConfig(cfg *config.Config) advisor.Config {
	return advisor.Config{
		Model:           cfg.Advisor.Model,
		Temperature:     cfg.LLM.Temperature,
		Prompt:          cfg.Advisor.Prompt,
		MaxInstructions: cfg.Advisor.MaxInstructions,
		RetryOnBadParse: cfg.Advisor.RetryOnBadParse,
	}
}

func provideWeatherClient(cfg *config.Config) (*weatherapi.Client, error) {
	return weatherapi.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.ForecastDays)
}
