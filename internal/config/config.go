package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AI holds provider selection and credentials for the LLM client.
type AI struct {
	Provider       string `yaml:"provider"` // groq | openai | ollama
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	OllamaHost     string `yaml:"ollamaHost"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout returns the outbound call timeout, defaulting to 60s.
func (a AI) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		APIKeys     []string `yaml:"apiKeys"`
		CORSOrigins []string `yaml:"corsOrigins"`
		RateLimit   struct {
			Enabled    bool `yaml:"enabled"`
			Capacity   int  `yaml:"capacity"`
			RefillRate int  `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	AI AI `yaml:"ai"`

	// Database is the optional review history store.
	// Driver none (or empty) disables history endpoints.
	Database struct {
		Driver   string `yaml:"driver"` // none | mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	// Minio is the optional rendered-report archive.
	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	// GitHub enables the webhook when a secret is configured.
	GitHub struct {
		Token         string `yaml:"token"`
		WebhookSecret string `yaml:"webhookSecret"`
	} `yaml:"github"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
}

// Load reads the YAML config file and applies env overrides for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv lets deployment secrets override file values.
// Provider API keys fall back again inside the client constructors.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("GITHUB_WEBHOOK_SECRET"); v != "" {
		c.GitHub.WebhookSecret = v
	}
}

// MySQLDSN builds the MySQL connection string.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the Postgres connection string.
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
