// Package agents adapts go-agents chat completion to the workflow's
// classifier and generator ports.
package agents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Client implements the workflow Classifier and Generator ports over a
// single agent configuration. Agents are created per call, matching
// go-agents' cheap-construction model, so the client is safe for
// concurrent use.
type Client struct {
	cfg     gaconfig.AgentConfig
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a client from the given agent configuration. A
// non-zero timeout bounds each model call independently of the request
// context.
func NewClient(cfg gaconfig.AgentConfig, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		timeout: timeout,
		logger:  logger.With("system", "agents"),
	}
}

// Classify sends a routing prompt and returns the raw model output.
func (c *Client) Classify(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, "classify", prompt)
}

// Generate sends a content prompt and returns the raw model output.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, "generate", prompt)
}

func (c *Client) chat(ctx context.Context, op, prompt string) (string, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return "", fmt.Errorf("%s: create agent: %w", op, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: chat call: %w", op, err)
	}

	c.logger.DebugContext(
		ctx, "model call complete",
		"op", op,
		"duration", time.Since(started),
	)

	return resp.Content(), nil
}
