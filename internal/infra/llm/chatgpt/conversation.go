package chatgpt

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sunpeak/solar-advisor/internal/domain/chat"
	"github.com/sunpeak/solar-advisor/pkg/metrics"
)

// ConversationConfig fixes sampling parameters per deployment.
type ConversationConfig struct {
	Model            string
	Temperature      float32
	MaxTokens        int
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	ContextBudget    int
}

// Conversation adapts the ChatGPT client to the chat domain by replaying the
// full transcript as a flat role/content list on every turn.
type Conversation struct {
	client  *Client
	cfg     ConversationConfig
	encoder *tiktoken.Tiktoken
	logger  *slog.Logger
}

// NewConversation builds the stateless replay adapter.
func NewConversation(client *Client, cfg ConversationConfig, logger *slog.Logger) *Conversation {
	encoder, err := tiktoken.EncodingForModel(cfg.Model)
	if err != nil {
		// Fine-tuned model names are not in the tiktoken registry.
		encoder, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			encoder = nil
		}
	}
	return &Conversation{
		client:  client,
		cfg:     cfg,
		encoder: encoder,
		logger:  logger.With("component", "chatgpt.conversation"),
	}
}

// Converse implements chat.Conversationalist.
func (c *Conversation) Converse(ctx context.Context, history []chat.Turn, message string) (chat.Reply, error) {
	messages := c.buildMessages(history, message)

	resp, err := c.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:            c.cfg.Model,
		Messages:         messages,
		Temperature:      c.cfg.Temperature,
		MaxTokens:        c.cfg.MaxTokens,
		TopP:             c.cfg.TopP,
		FrequencyPenalty: c.cfg.FrequencyPenalty,
		PresencePenalty:  c.cfg.PresencePenalty,
	})
	if err != nil {
		return chat.Reply{}, err
	}
	if len(resp.Choices) == 0 {
		return chat.Reply{}, errors.New("chatgpt returned no choices")
	}

	return chat.Reply{
		Text: resp.Choices[0].Message.Content,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (c *Conversation) buildMessages(history []chat.Turn, message string) []Message {
	trimmed := c.trimToBudget(history, message)
	messages := make([]Message, 0, len(trimmed)+1)
	for _, turn := range trimmed {
		messages = append(messages, Message{Role: string(turn.Role), Content: turn.Content})
	}
	return append(messages, Message{Role: string(chat.RoleUser), Content: message})
}

// trimToBudget drops the oldest user/assistant pairs until the replayed
// transcript fits the context budget. Dropping in pairs keeps the transcript
// alternating.
func (c *Conversation) trimToBudget(history []chat.Turn, message string) []chat.Turn {
	if c.encoder == nil || c.cfg.ContextBudget <= 0 {
		return history
	}

	total := c.countTokens(message)
	for _, turn := range history {
		total += c.countTokens(turn.Content)
	}

	trimmed := history
	for total > c.cfg.ContextBudget && len(trimmed) >= 2 {
		total -= c.countTokens(trimmed[0].Content)
		total -= c.countTokens(trimmed[1].Content)
		trimmed = trimmed[2:]
	}
	if len(trimmed) < len(history) {
		c.logger.Debug("transcript trimmed to context budget", "dropped", len(history)-len(trimmed))
	}
	return trimmed
}

func (c *Conversation) countTokens(text string) int {
	return len(c.encoder.Encode(text, nil, nil))
}
