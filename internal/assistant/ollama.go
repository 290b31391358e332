package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const defaultOllamaModel = "llama3.2"

type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Ollama answers chat messages with a locally hosted model.
type Ollama struct {
	api   *api.Client
	model string
}

func NewOllama(cfg OllamaConfig, httpClient *http.Client) (*Ollama, error) {
	base, err := url.ParseRequestURI(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("ollama url must use http or https")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{api: api.NewClient(base, httpClient), model: model}, nil
}

func (ollama *Ollama) Name() string {
	return "ollama"
}

func (ollama *Ollama) Complete(ctx context.Context, system string, message string) (string, error) {
	stream := false
	request := &api.GenerateRequest{
		Model:  ollama.model,
		Prompt: message,
		System: system,
		Stream: &stream,
	}

	var reply strings.Builder
	err := ollama.api.Generate(ctx, request, func(response api.GenerateResponse) error {
		reply.WriteString(response.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
