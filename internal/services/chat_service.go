package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/mindharbor/internal/assistant"
	"go.uber.org/zap"
)

var ErrChatMessageEmpty = errors.New("chat message is empty")

const (
	maxChatMessageRunes = 2000
	chatSourceCanned    = "canned"
	chatSourceCrisis    = "crisis"
	chatSystemPrompt    = "You are the MindHarbor assistant, a warm and supportive guide on a mental health resource site. " +
		"Keep answers short, kind and practical. You are not a therapist and never diagnose. " +
		"Point people to the site's blog, community directory and navigators when useful. " +
		"If someone mentions self-harm or suicide, urge them to contact emergency services or a crisis line."
)

type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, system string, message string) (string, error)
}

type ChatReply struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

// ChatService answers widget messages with the first provider that replies and
// falls back to fixed replies when none does.
type ChatService struct {
	providers []ChatProvider
	timeout   time.Duration
	logger    *zap.Logger
}

func NewChatService(providers []ChatProvider, timeout time.Duration, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{providers: providers, timeout: timeout, logger: logger}
}

func (service *ChatService) Reply(ctx context.Context, message string) (ChatReply, error) {
	message = normalizeChatMessage(message)
	if message == "" {
		return ChatReply{}, ErrChatMessageEmpty
	}
	if assistant.IsCrisis(message) {
		return ChatReply{Reply: assistant.CrisisReply, Source: chatSourceCrisis}, nil
	}

	for _, provider := range service.providers {
		reply, err := service.complete(ctx, provider, message)
		if err != nil {
			service.logger.Debug("chat provider failed", zap.String("provider", provider.Name()), zap.Error(err))
			continue
		}
		if reply != "" {
			return ChatReply{Reply: reply, Source: provider.Name()}, nil
		}
	}

	return ChatReply{Reply: assistant.Canned(message), Source: chatSourceCanned}, nil
}

func (service *ChatService) complete(ctx context.Context, provider ChatProvider, message string) (string, error) {
	if service.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, service.timeout)
		defer cancel()
	}
	reply, err := provider.Complete(ctx, chatSystemPrompt, message)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func normalizeChatMessage(raw string) string {
	message := strings.TrimSpace(raw)
	runes := []rune(message)
	if len(runes) > maxChatMessageRunes {
		message = strings.TrimSpace(string(runes[:maxChatMessageRunes]))
	}
	return message
}
