package ai

import (
	"errors"
	"testing"

	"github.com/amrgaberm/codesense/internal/config"
	domai "github.com/amrgaberm/codesense/internal/domain/ai"
)

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(config.AI{Provider: "bard"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNew_GroqWithoutCredentials(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	_, err := New(config.AI{Provider: "groq"})
	if !errors.Is(err, domai.ErrNoCredentials) {
		t.Fatalf("err = %v, want ErrNoCredentials", err)
	}
}

func TestNew_DefaultsToGroq(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")
	client, err := New(config.AI{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.Name() != "groq" {
		t.Errorf("Name = %q, want groq", client.Name())
	}
}

func TestNew_Ollama(t *testing.T) {
	client, err := New(config.AI{Provider: "ollama", OllamaHost: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.Name() != "ollama" {
		t.Errorf("Name = %q, want ollama", client.Name())
	}
}
