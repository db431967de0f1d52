// Package deepseek implements the text-generation collaborator on top of
// DeepSeek's OpenAI-compatible chat completions API.
package deepseek

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// systemPrompt frames the game for the agent: guess the hidden phrase and
// say it, without reusing the player's roots.
const systemPrompt = "Ты участвуешь в игре «Объясни фразу». " +
	"Пользователь пытается объяснить тебе загаданную фразу на русском языке, " +
	"не используя однокоренные слова по отношению к словам, входящим в эту фразу. " +
	"Твоя задача — угадать загаданную фразу и написать её в ответе. " +
	"Важно: в своём ответе ты также не должен использовать однокоренные слова " +
	"к словам, которые пользователь употребил в своём запросе. " +
	"Отвечай на русском языке."

// Client calls the DeepSeek chat API and implements
// service.TextGenerationClient.
type Client struct {
	api     openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds DeepSeek connection settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient creates a DeepSeek client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
		),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Ask sends the player's prompt and returns the agent's reply. The call is
// bounded by the configured timeout; there is no unbounded wait. All
// failures come back as *RemoteError so callers can classify them.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Temperature: openai.Float(1),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		rerr := classify(err)
		c.logger.Warn("DeepSeek request failed",
			zap.String("kind", string(rerr.Kind)),
			zap.Error(err),
		)
		return "", rerr
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &RemoteError{Kind: KindMalformed, Err: errors.New("empty completion")}
	}
	return resp.Choices[0].Message.Content, nil
}
