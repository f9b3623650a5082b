package chat

import "github.com/sunpeak/solar-advisor/pkg/metrics"

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message exchange unit within a session transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Reply is what a provider adapter returns for one conversational exchange.
type Reply struct {
	Text  string
	Usage metrics.TokenUsage
}

// Request represents the incoming chat payload.
type Request struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// Response is serialized back to API consumers.
type Response struct {
	SessionID  string              `json:"sessionId"`
	Response   string              `json:"response"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}
