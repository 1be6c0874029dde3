package library

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadConfig reads and validates config.json. A missing or unparsable
// config is fatal to the operation that needed it: every mutation and
// every build resolves shelves through it.
func (l Library) LoadConfig() (*Config, error) {
	data, err := os.ReadFile(l.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("reading site config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing site config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the full config document. Callers merge partial
// changes into a freshly loaded Config before saving; there is no
// partial-update protocol.
func (l Library) SaveConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid site config: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding site config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(l.ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("writing site config: %w", err)
	}
	return nil
}
