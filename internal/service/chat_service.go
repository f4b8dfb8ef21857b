package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrChatUnavailable indicates the assistant could not produce a reply.
var ErrChatUnavailable = errors.New("chat assistant is unavailable")

// ChatService answers free-form coding questions with a fixed persona.
type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

type chatService struct {
	generator TextGenerator
	logger    zerolog.Logger
}

// NewChatService builds the chat assistant on top of the shared generator.
func NewChatService(generator TextGenerator, logger zerolog.Logger) ChatService {
	return &chatService{
		generator: generator,
		logger:    logger.With().Str("component", "chat_service").Logger(),
	}
}

func (s *chatService) Reply(ctx context.Context, message string) (string, error) {
	if s.generator == nil {
		return "", ErrChatUnavailable
	}

	reply, err := s.generator.Generate(ctx, buildChatPrompt(message))
	if err != nil {
		s.logger.Error().Err(err).Msg("chat generation failed")
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrChatUnavailable
	}
	return reply, nil
}
