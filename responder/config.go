package responder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rmay1er/ai-responder/cache"
)

// Strategy names accepted by Config.
const (
	StrategyTranscript = "transcript"
	StrategyToken      = "token"
)

const (
	defaultRetentionBudget = 10
	defaultTTLSeconds      = 3600
)

// Config holds initialization parameters for a Responder and its cache.
type Config struct {
	SystemPrompt string `json:"system_prompt,omitempty"`
	// Strategy selects how prior context is represented across turns:
	// "transcript" replays the stored message history, "token" replays an
	// opaque provider-issued continuation token.
	Strategy string `json:"strategy,omitempty"`
	// RetentionBudget is the target maximum message count kept per session
	// after trimming (transcript strategy only).
	RetentionBudget int `json:"retention_budget,omitempty"`
	// TTLSeconds is the sliding inactivity window after which a session
	// entry expires.
	TTLSeconds  int          `json:"ttl_seconds,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	MaxSteps    int          `json:"max_steps,omitempty"`
	Temperature float32      `json:"temperature,omitempty"`
	Cache       cache.Config `json:"cache"`
}

// DefaultConfig returns a Config with sensible defaults: transcript
// strategy, budget 10, one-hour sliding expiry, in-memory cache.
func DefaultConfig() Config {
	return Config{
		Strategy:        StrategyTranscript,
		RetentionBudget: defaultRetentionBudget,
		TTLSeconds:      defaultTTLSeconds,
		Cache:           cache.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
	if source.Strategy != "" {
		c.Strategy = source.Strategy
	}
	if source.RetentionBudget > 0 {
		c.RetentionBudget = source.RetentionBudget
	}
	if source.TTLSeconds > 0 {
		c.TTLSeconds = source.TTLSeconds
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
	if source.MaxSteps > 0 {
		c.MaxSteps = source.MaxSteps
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
	c.Cache.Merge(&source.Cache)
}

// LoadConfig reads a JSON config file and merges it over the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
