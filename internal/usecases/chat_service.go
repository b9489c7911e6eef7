package usecases

import (
	"context"
	"errors"
	"fmt"

	"widgetbot/internal/interfaces"
)

// ErrBotNotFound reports a chat or lookup against an unknown bot id.
var ErrBotNotFound = errors.New("bot not found")

const chatPromptTemplate = `You are %s, a customer support assistant for this business.

BUSINESS INFORMATION:
%s

Instructions:
- Answer ONLY using the business information above
- Keep responses brief and friendly
- If the question falls outside the business information, politely say you cannot help with that and suggest contacting the business directly`

const noKnowledgeFallback = "No business information has been provided yet. Greet the visitor and let them know you have no details to share at the moment."

// ChatService answers widget messages from a bot's stored knowledge base.
type ChatService struct {
	bots interfaces.BotStore
	ai   interfaces.AIClient
}

func NewChatService(bots interfaces.BotStore, ai interfaces.AIClient) *ChatService {
	return &ChatService{bots: bots, ai: ai}
}

// Reply loads the bot, builds its context prompt and asks the completion API.
func (s *ChatService) Reply(ctx context.Context, botID, message string) (string, error) {
	bot, err := s.bots.GetByID(ctx, botID)
	if err != nil {
		return "", fmt.Errorf("load bot: %w", err)
	}
	if bot == nil {
		return "", ErrBotNotFound
	}

	knowledge := bot.Context
	if knowledge == "" {
		knowledge = noKnowledgeFallback
	}

	prompt := fmt.Sprintf(chatPromptTemplate, bot.Name, knowledge)
	return s.ai.GenerateReply(ctx, prompt, message)
}
