package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"renthub/internal/chatbot"
	"renthub/internal/domain"
	"renthub/internal/models"
)

const maxChatMessageLength = 2000

// ChatService fronts the hosted assistant. It picks the system prompt for
// the caller's role and forwards a single turn.
type ChatService struct {
	client domain.ChatClient
	logger *zerolog.Logger
}

func NewChatService(client domain.ChatClient, logger *zerolog.Logger) *ChatService {
	return &ChatService{client: client, logger: logger}
}

func (s *ChatService) Message(ctx context.Context, actor *models.User, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}
	if len(message) > maxChatMessageLength {
		return "", fmt.Errorf("%w: message is too long", ErrValidation)
	}

	reply, err := s.client.Complete(ctx, chatbot.PromptForRole(actor.Role), message)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", actor.ID).Msg("Chat completion failed")
		return "", err
	}
	s.logger.Debug().Int64("user_id", actor.ID).Int("reply_len", len(reply)).Msg("Chat completion served")
	return reply, nil
}
