package domain

import (
	"fmt"
	"strings"
	"time"
)

// EffectiveAPIBase picks the endpoint base: environment first, then config, then default.
func (c *Config) EffectiveAPIBase(env Environment) string {
	base := env.APIBase
	if base == "" {
		base = c.APIBase
	}
	if base == "" {
		base = DefaultAPIBase
	}
	return strings.TrimRight(base, "/")
}

// GetModel returns the configured model identifier or the default.
func (c *Config) GetModel() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// GetMaxTokens returns the token budget for one completion.
func (c *Config) GetMaxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.MaxTokens
}

// GetTimeout returns the completion timeout; zero means no timeout.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// GetInterpreter returns the shell used to run generated code.
func (c *Config) GetInterpreter() string {
	if c.Interpreter == "" {
		return DefaultInterpreter
	}
	return c.Interpreter
}

// IsJournalEnabled reports whether runs are written to the journal. Defaults to true.
func (c *Config) IsJournalEnabled() bool {
	if c.Journal.Enabled == nil {
		return true
	}
	return *c.Journal.Enabled
}

// Validate checks values that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", c.MaxTokens)
	}
	d, err := c.GetTimeout()
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if strings.ContainsAny(c.Interpreter, " \t") {
		return fmt.Errorf("interpreter must be a single executable, got %q", c.Interpreter)
	}
	return nil
}
