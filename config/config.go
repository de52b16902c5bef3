// Package config loads the JSON experiment configuration that drives a
// ldavb run, the same encoding/json LoadConfig/Validate/DefaultConfig
// idiom used by the example pack's ModelConfig.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bobonovski/ldavb/ldamath"
	"github.com/bobonovski/ldavb/ldamodel"
)

// ExperimentConfig is the on-disk shape of a run: learner hyperparameters
// plus the input/output paths main.go needs that don't belong on
// ldamodel.Config itself.
type ExperimentConfig struct {
	Topics    uint32  `json:"topics"`
	Rows      uint32  `json:"rows"`
	Alpha     float32 `json:"alpha"`
	Rho       float32 `json:"rho"`
	D         float32 `json:"d"`
	Epsilon   float32 `json:"epsilon"`
	Minibatch uint32  `json:"minibatch"`
	Mode      string  `json:"mode"`
	Eta0      float32 `json:"eta0"`
	PowerT    float32 `json:"power_t"`
	InitialT  float32 `json:"initial_t"`
	Seed      int64   `json:"seed"`

	Input     string `json:"input"`
	ModelOut  string `json:"model_out"`
	AuditOut  string `json:"audit_out,omitempty"`
	DumpEvery uint32 `json:"dump_every"`
}

// DefaultExperimentConfig mirrors ldamodel.DefaultConfig, expressed as the
// JSON-shaped experiment config with topics left for the caller to set.
func DefaultExperimentConfig(topics uint32) ExperimentConfig {
	d := ldamodel.DefaultConfig(topics)
	return ExperimentConfig{
		Topics:    d.K,
		Rows:      d.W,
		Alpha:     d.Alpha,
		Rho:       d.Rho,
		D:         d.D,
		Epsilon:   d.Epsilon,
		Minibatch: d.Minibatch,
		Mode:      d.Mode.String(),
		Eta0:      d.Eta0,
		PowerT:    d.PowerT,
		InitialT:  d.InitialT,
		Seed:      d.Seed,
		DumpEvery: 1000,
	}
}

// Validate checks the experiment config and, like the example pack's
// ModelConfig.Validate, fills in a couple of harmless defaults rather
// than failing on them.
func (c *ExperimentConfig) Validate() error {
	if c.Topics == 0 {
		return fmt.Errorf("config: topics must be positive, got %d", c.Topics)
	}
	if c.Input == "" {
		return fmt.Errorf("config: input path is required")
	}
	if c.Rows == 0 {
		c.Rows = 1 << 18
	}
	if c.Minibatch == 0 {
		c.Minibatch = 1
	}
	if c.DumpEvery == 0 {
		c.DumpEvery = 1000
	}
	if _, err := ldamath.ParseMode(c.Mode); err != nil {
		return &ldamodel.ConfigError{Field: "mode", Msg: err.Error()}
	}
	return nil
}

// LoadConfig reads and validates an ExperimentConfig from a JSON file.
func LoadConfig(filename string) (*ExperimentConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", filename, err)
	}

	var cfg ExperimentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LearnerConfig converts the experiment config to an ldamodel.Config.
func (c *ExperimentConfig) LearnerConfig() (ldamodel.Config, error) {
	mode, err := ldamath.ParseMode(c.Mode)
	if err != nil {
		return ldamodel.Config{}, fmt.Errorf("config: %w", err)
	}
	return ldamodel.Config{
		K:         c.Topics,
		W:         c.Rows,
		Alpha:     c.Alpha,
		Rho:       c.Rho,
		D:         c.D,
		Epsilon:   c.Epsilon,
		Minibatch: c.Minibatch,
		Mode:      mode,
		Eta0:      c.Eta0,
		PowerT:    c.PowerT,
		InitialT:  c.InitialT,
		Seed:      c.Seed,
	}, nil
}
