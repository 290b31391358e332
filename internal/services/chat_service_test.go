package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/mindharbor/internal/assistant"
)

type stubChatProvider struct {
	name  string
	reply string
	err   error
	calls int
	last  string
}

func (stub *stubChatProvider) Name() string {
	return stub.name
}

func (stub *stubChatProvider) Complete(_ context.Context, _ string, message string) (string, error) {
	stub.calls++
	stub.last = message
	return stub.reply, stub.err
}

func TestChatReplyRejectsEmptyMessage(t *testing.T) {
	service := NewChatService(nil, 0, nil)
	if _, err := service.Reply(context.Background(), "   "); !errors.Is(err, ErrChatMessageEmpty) {
		t.Fatalf("expected ErrChatMessageEmpty, got %v", err)
	}
}

func TestChatReplyUsesFirstWorkingProvider(t *testing.T) {
	failing := &stubChatProvider{name: "gemini", err: errors.New("quota")}
	empty := &stubChatProvider{name: "blank"}
	working := &stubChatProvider{name: "ollama", reply: "  Take a slow breath.  "}
	service := NewChatService([]ChatProvider{failing, empty, working}, 0, nil)

	reply, err := service.Reply(context.Background(), "I feel tense")
	if err != nil {
		t.Fatalf("Reply() unexpected error: %v", err)
	}
	if reply.Source != "ollama" || reply.Reply != "Take a slow breath." {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if failing.calls != 1 || empty.calls != 1 || working.calls != 1 {
		t.Fatalf("expected each provider to be tried once, got %d %d %d", failing.calls, empty.calls, working.calls)
	}
}

func TestChatReplyFallsBackToCanned(t *testing.T) {
	provider := &stubChatProvider{name: "gemini", err: errors.New("offline")}
	service := NewChatService([]ChatProvider{provider}, 0, nil)

	reply, err := service.Reply(context.Background(), "I can't sleep at night")
	if err != nil {
		t.Fatalf("Reply() unexpected error: %v", err)
	}
	if reply.Source != chatSourceCanned || reply.Reply != assistant.Canned("I can't sleep at night") {
		t.Fatalf("unexpected canned reply %+v", reply)
	}
}

func TestChatReplyCrisisShortCircuitsProviders(t *testing.T) {
	provider := &stubChatProvider{name: "gemini", reply: "model reply"}
	service := NewChatService([]ChatProvider{provider}, 0, nil)

	reply, err := service.Reply(context.Background(), "Sometimes I want to die")
	if err != nil {
		t.Fatalf("Reply() unexpected error: %v", err)
	}
	if reply.Reply != assistant.CrisisReply || reply.Source != chatSourceCrisis {
		t.Fatalf("expected crisis reply, got %+v", reply)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider call, got %d", provider.calls)
	}
}

func TestChatReplyCapsMessageLength(t *testing.T) {
	provider := &stubChatProvider{name: "gemini", reply: "ok"}
	service := NewChatService([]ChatProvider{provider}, 0, nil)

	if _, err := service.Reply(context.Background(), strings.Repeat("a", maxChatMessageRunes+50)); err != nil {
		t.Fatalf("Reply() unexpected error: %v", err)
	}
	if got := len([]rune(provider.last)); got != maxChatMessageRunes {
		t.Fatalf("expected message capped at %d runes, got %d", maxChatMessageRunes, got)
	}
}
