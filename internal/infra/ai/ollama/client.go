package ollama

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"

	domai "github.com/amrgaberm/codesense/internal/domain/ai"
	"github.com/amrgaberm/codesense/internal/infra/ai/prompt"
)

const defaultModel = "llama3"

// Client runs reviews against a local Ollama server. No credential needed.
type Client struct {
	api   *ollama.Ollama
	model string
}

func New(host, model string) (*Client, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = defaultModel
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	return &Client{api: ollama.New(*u), model: model}, nil
}

func (c *Client) Name() string { return "ollama" }

func (c *Client) Analyze(ctx context.Context, req domai.Request) (string, error) {
	user := prompt.GetUserPrompt(req.Code, req.Language, req.Filename, req.ReviewType)
	return c.generate(ctx, user)
}

func (c *Client) AnalyzeDiff(ctx context.Context, req domai.DiffRequest) (string, error) {
	user := prompt.GetDiffPrompt(req.Filename, req.Patch, req.ReviewType)
	return c.generate(ctx, user)
}

func (c *Client) generate(ctx context.Context, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := c.api.Generate(
		c.api.Generate.WithModel(c.model),
		c.api.Generate.WithSystem(prompt.GetSystemPrompt()),
		c.api.Generate.WithPrompt(user),
	)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if !res.Done {
		return "", fmt.Errorf("ollama: response not done (unexpected streaming behavior)")
	}
	if res.Response == "" {
		return "", fmt.Errorf("ollama: empty response")
	}
	return strings.TrimSpace(res.Response), nil
}
