package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Weather WeatherConfig `yaml:"weather"`
	Advisor AdvisorConfig `yaml:"advisor"`
	Chat    ChatConfig    `yaml:"chat"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string        `yaml:"address"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// LLMConfig contains language model provider settings. Sampling parameters
// are fixed per deployment, not per request.
type LLMConfig struct {
	Provider         string  `yaml:"provider"`
	APIKey           string  `yaml:"apiKey"`
	BaseURL          string  `yaml:"baseUrl"`
	Model            string  `yaml:"model"`
	Temperature      float32 `yaml:"temperature"`
	MaxTokens        int     `yaml:"maxTokens"`
	TopP             float32 `yaml:"topP"`
	FrequencyPenalty float32 `yaml:"frequencyPenalty"`
	PresencePenalty  float32 `yaml:"presencePenalty"`
	ContextBudget    int     `yaml:"contextBudget"`
}

// WeatherConfig controls the upstream forecast API.
type WeatherConfig struct {
	APIKey       string `yaml:"apiKey"`
	BaseURL      string `yaml:"baseUrl"`
	ForecastDays int    `yaml:"forecastDays"`
}

// AdvisorConfig controls the solar panel advisory domain. The advisory
// completion always goes to the OpenAI API, so a deployment whose chat
// provider is gemini must supply a dedicated advisor key.
type AdvisorConfig struct {
	APIKey          string `yaml:"apiKey"`
	BaseURL         string `yaml:"baseUrl"`
	Model           string `yaml:"model"`
	Prompt          string `yaml:"prompt"`
	MaxInstructions int    `yaml:"maxInstructions"`
	RetryOnBadParse bool   `yaml:"retryOnBadParse"`
}

// ChatConfig controls session lifecycle limits.
type ChatConfig struct {
	SessionTTL  time.Duration `yaml:"sessionTtl"`
	MaxSessions int           `yaml:"maxSessions"`
}

// Load reads configuration from an optional .env file, a YAML file and
// environment variables, in that order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	// Accepted for parity with the node deployments this service replaced.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("LLM_CONTEXT_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.ContextBudget = parsed
		}
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	// The node deployments exported the weather key as API_KEY.
	if v := os.Getenv("API_KEY"); v != "" && cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_FORECAST_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Weather.ForecastDays = parsed
		}
	}
	if v := os.Getenv("ADVISOR_API_KEY"); v != "" {
		cfg.Advisor.APIKey = v
	}
	// OPENAI_API_KEY is literally an OpenAI key, which is what the advisor
	// completion needs regardless of the chat provider.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Advisor.APIKey == "" {
		cfg.Advisor.APIKey = v
	}
	if v := os.Getenv("ADVISOR_BASE_URL"); v != "" {
		cfg.Advisor.BaseURL = v
	}
	if v := os.Getenv("ADVISOR_MODEL"); v != "" {
		cfg.Advisor.Model = v
	}
	if v := os.Getenv("ADVISOR_PROMPT"); v != "" {
		cfg.Advisor.Prompt = v
	}
	if v := os.Getenv("ADVISOR_RETRY_ON_BAD_PARSE"); v != "" {
		cfg.Advisor.RetryOnBadParse = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CHAT_SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Chat.SessionTTL = parsed
		}
	}
	if v := os.Getenv("CHAT_MAX_SESSIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.MaxSessions = parsed
		}
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
		},
		LLM: LLMConfig{
			Provider:         "openai",
			Model:            "gpt-4o-mini",
			Temperature:      1,
			MaxTokens:        256,
			TopP:             1,
			FrequencyPenalty: 0,
			PresencePenalty:  0,
			ContextBudget:    6000,
		},
		Weather: WeatherConfig{
			BaseURL:      "https://api.weatherapi.com/v1",
			ForecastDays: 11,
		},
		Advisor: AdvisorConfig{
			Model:           "gpt-4-turbo",
			Prompt:          defaultAdvisorPrompt,
			MaxInstructions: 7,
			RetryOnBadParse: true,
		},
		Chat: ChatConfig{
			SessionTTL:  2 * time.Hour,
			MaxSessions: 10000,
		},
	}
}

const defaultAdvisorPrompt = "You are to generate daily instructions for managing solar panels based on the following weather data (temperature is in Celsius, and wind speed is in Kph). The response should be short, concise, and in JSON object format and not JSON string. Provide an alert indicating if the weather will affect the solar panels and a list of instructions to ensure the panels are not damaged and produce optimal output, try to give as many instructions as possible but keep it under 7 instructions."

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("llm.provider must be openai or gemini, got %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.ContextBudget <= 0 {
		return errors.New("llm.contextBudget must be positive")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Weather.ForecastDays <= 0 {
		return errors.New("weather.forecastDays must be positive")
	}
	if c.LLM.Provider == "gemini" && strings.TrimSpace(c.Advisor.APIKey) == "" {
		return errors.New("advisor.apiKey is required when llm.provider is gemini: the advisory completion uses the OpenAI API and cannot reuse the gemini key")
	}
	if strings.TrimSpace(c.Advisor.Model) == "" {
		return errors.New("advisor.model cannot be empty")
	}
	if strings.TrimSpace(c.Advisor.Prompt) == "" {
		return errors.New("advisor.prompt cannot be empty")
	}
	if c.Advisor.MaxInstructions <= 0 {
		return errors.New("advisor.maxInstructions must be positive")
	}
	if c.Chat.SessionTTL <= 0 {
		return errors.New("chat.sessionTtl must be positive")
	}
	if c.Chat.MaxSessions <= 0 {
		return errors.New("chat.maxSessions must be positive")
	}
	return nil
}
