package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// UsageRecorder receives token counts after each successful completion.
type UsageRecorder func(model string, promptTokens, completionTokens int)

// Options configure the completion client. BaseURL is optional and exists
// for OpenAI-compatible gateways and test servers.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client completes document analysis prompts through the chat completions
// API. Each task makes exactly one attempt; failed calls surface as errors
// rather than retries.
type Client struct {
	api         *goopenai.Client
	model       string
	recordUsage UsageRecorder
}

func New(opts Options, record UsageRecorder) *Client {
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:         goopenai.NewClientWithConfig(cfg),
		model:       opts.Model,
		recordUsage: record,
	}
}

func (c *Client) CompleteTask(ctx context.Context, prompt domain.Prompt) (domain.TaskResult, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt.Instruction},
		},
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	}
	if prompt.JSONMode {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.TaskResult{}, domain.WrapError(domain.ErrAIUnavailable, "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return domain.TaskResult{}, domain.WrapError(domain.ErrAIMalformedResponse, "chat completion",
			errors.New("response contains no choices"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := decodeTaskResult(prompt, content)
	if err != nil {
		return domain.TaskResult{}, err
	}

	if c.recordUsage != nil {
		c.recordUsage(c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	return result, nil
}
