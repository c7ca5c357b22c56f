package cli

import (
	"time"

	"github.com/spf13/viper"

	"github.com/amrgaberm/codesense/internal/config"
)

// Settings is the user-facing CLI configuration, merged from
// ~/.codesense.yaml, CODESENSE_* environment variables and flags
// (flags win).
type Settings struct {
	Provider   string
	Model      string
	APIKey     string
	OllamaHost string
	Timeout    time.Duration
}

func loadSettings() (Settings, error) {
	v := viper.New()
	v.SetConfigName(".codesense")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CODESENSE")
	v.AutomaticEnv()

	v.SetDefault("provider", "groq")
	v.SetDefault("timeout", "60s")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, err
		}
	}

	s := Settings{
		Provider:   v.GetString("provider"),
		Model:      v.GetString("model"),
		APIKey:     v.GetString("api_key"),
		OllamaHost: v.GetString("ollama_host"),
		Timeout:    v.GetDuration("timeout"),
	}
	if flagProvider != "" {
		s.Provider = flagProvider
	}
	if flagModel != "" {
		s.Model = flagModel
	}
	return s, nil
}

func (s Settings) aiConfig() config.AI {
	return config.AI{
		Provider:       s.Provider,
		Model:          s.Model,
		APIKey:         s.APIKey,
		OllamaHost:     s.OllamaHost,
		TimeoutSeconds: int(s.Timeout.Seconds()),
	}
}
