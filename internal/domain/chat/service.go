package chat

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/sunpeak/solar-advisor/pkg/errors"
)

// Service exposes session-scoped conversation capabilities.
type Service interface {
	CreateSession(ctx context.Context) string
	SubmitTurn(ctx context.Context, req Request) (Response, error)
}

// Conversationalist abstracts a language model backend. Adapters translate
// the transcript into whatever shape the provider requires; provider identity
// never reaches the session store.
type Conversationalist interface {
	Converse(ctx context.Context, history []Turn, message string) (Reply, error)
}

type service struct {
	store    *Store
	provider Conversationalist
	logger   *slog.Logger
}

// NewService wires up the chat domain.
func NewService(store *Store, provider Conversationalist, logger *slog.Logger) Service {
	return &service{
		store:    store,
		provider: provider,
		logger:   logger.With("component", "chat.service"),
	}
}

func (s *service) CreateSession(_ context.Context) string {
	id := s.store.Create("")
	s.logger.Info("session created", "sessionId", id)
	return id
}

func (s *service) SubmitTurn(ctx context.Context, req Request) (Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
	}

	id, sess := s.store.checkout(req.SessionID)
	defer s.store.release(sess)

	// Snapshot before appending: the provider receives prior history plus
	// the new message and is responsible for placing the message itself.
	history := append([]Turn(nil), sess.turns...)
	sess.turns = append(sess.turns, Turn{Role: RoleUser, Content: message})

	reply, err := s.provider.Converse(ctx, history, message)
	if err != nil {
		// The user turn stays appended: at-least-once transcript semantics,
		// the session is left awaiting a reply.
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, "language model request failed", err)
	}

	sess.turns = append(sess.turns, Turn{Role: RoleAssistant, Content: reply.Text})
	s.logger.Info("turn completed", "sessionId", id, "turns", len(sess.turns))

	resp := Response{SessionID: id, Response: reply.Text}
	if !reply.Usage.IsZero() {
		usage := reply.Usage
		resp.TokenUsage = &usage
	}
	return resp, nil
}
