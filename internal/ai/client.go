// Package ai wraps the OpenAI API surface used by the pipeline: chat
// completions for enrichment and summarization, shared with the
// embedding layer.
package ai

import (
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
)

// DefaultTimeout bounds a single chat completion call.
const DefaultTimeout = 30 * time.Second

// Client wraps the OpenAI client for chat completions.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates an OpenAI-backed chat client. It reads
// OPENAI_API_KEY from the environment and returns an error if not set.
// A zero timeout uses DefaultTimeout.
func NewClient(model string, timeout time.Duration) (*Client, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// openai-go reads OPENAI_API_KEY from the environment
	client := openai.NewClient()

	return &Client{
		client:  &client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Client returns the underlying OpenAI client for use by the embedding
// layer, which shares one API connection with chat.
func (c *Client) Client() *openai.Client {
	return c.client
}
