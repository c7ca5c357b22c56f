package ai

import (
	"fmt"

	"github.com/amrgaberm/codesense/internal/config"
	domai "github.com/amrgaberm/codesense/internal/domain/ai"
	"github.com/amrgaberm/codesense/internal/infra/ai/ollama"
	"github.com/amrgaberm/codesense/internal/infra/ai/openai"
)

// New selects a client implementation at construction time.
// Missing credentials surface here as a wrapped ErrNoCredentials.
func New(cfg config.AI) (domai.Client, error) {
	switch cfg.Provider {
	case "", "groq":
		return openai.NewGroq(cfg.APIKey, cfg.Model, cfg.Timeout())
	case "openai":
		return openai.NewOpenAI(cfg.APIKey, cfg.Model, cfg.Timeout())
	case "ollama":
		return ollama.New(cfg.OllamaHost, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown ai provider: %s (allowed: groq, openai, ollama)", cfg.Provider)
	}
}
