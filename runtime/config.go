/*
File    : yqlang/runtime/config.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the host-tunable execution parameters named in spec.md §5:
// the soft/hard run budgets, the output-drain quantum, and the per-program
// instance cap.
type Config struct {
	Execution struct {
		SoftBudgetMS   int64 `toml:"soft_budget_ms"`
		HardCapMinutes int64 `toml:"hard_cap_minutes"`
		QuantumMS      int64 `toml:"quantum_ms"`
		InstanceCap    int   `toml:"instance_cap"`
	} `toml:"execution"`
}

// DefaultConfig returns the spec.md §5 defaults: 800ms soft budget, 60min
// hard cap, 100ms drain quantum, 10 concurrent instances per program.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Execution.SoftBudgetMS = 800
	cfg.Execution.HardCapMinutes = 60
	cfg.Execution.QuantumMS = 100
	cfg.Execution.InstanceCap = 10
	return cfg
}

// SoftBudget returns the soft wall-clock budget as a time.Duration.
func (c *Config) SoftBudget() time.Duration {
	return time.Duration(c.Execution.SoftBudgetMS) * time.Millisecond
}

// HardCap returns the hard wall-clock cap as a time.Duration.
func (c *Config) HardCap() time.Duration {
	return time.Duration(c.Execution.HardCapMinutes) * time.Minute
}

// Quantum returns the host's output-drain interval as a time.Duration.
func (c *Config) Quantum() time.Duration {
	return time.Duration(c.Execution.QuantumMS) * time.Millisecond
}

// Load reads Config from the default path, falling back to DefaultConfig
// when no file exists there.
func Load() (*Config, error) {
	return LoadFrom(defaultConfigPath())
}

// LoadFrom decodes Config from the TOML file at path, starting from
// DefaultConfig so a partial file only overrides what it names.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveTo writes Config as TOML to path, creating its directory if needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "yqlang.toml"
	}
	return filepath.Join(dir, "yqlang", "config.toml")
}
