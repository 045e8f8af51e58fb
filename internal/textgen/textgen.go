// Package textgen is the client for the text-generation backend used for
// profile summaries and chat preference extraction.
package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/httpclient"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrEmptyResponse = errors.New("text generation returned no text")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type request struct {
	Prompt string `json:"prompt"`
	Format string `json:"format"`
}

type response struct {
	Text string `json:"text"`
}

type Client struct {
	endpoint string
	http     *httpclient.Client
	limiter  *ratelimit.BackendLimiter
}

func NewClient(endpoint string, client *httpclient.Client, limiter *ratelimit.BackendLimiter) *Client {
	return &Client{endpoint: endpoint, http: client, limiter: limiter}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.do(ctx, prompt, FormatText)
}

// GenerateJSON asks for a JSON answer and decodes it into out. Models often
// wrap JSON in a fenced block; the fence is stripped before decoding.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out any) error {
	text, err := c.do(ctx, prompt, FormatJSON)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFence(text)), out); err != nil {
		return fmt.Errorf("decode generated json: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, prompt, format string) (string, error) {
	if err := c.limiter.Wait(ctx, ratelimit.BackendTextGen); err != nil {
		return "", err
	}

	var resp response
	if err := c.http.DoJSON(ctx, http.MethodPost, c.endpoint, request{Prompt: prompt, Format: format}, &resp); err != nil {
		return "", fmt.Errorf("text generation: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
