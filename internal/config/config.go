// Package config loads comparison sweeps from yaml files and resolves
// named problems and schemes through a registry.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/geonum/gni/internal/compose"
)

const (
	DefaultHorizon   = 100.0
	DefaultSubsteps  = 16
	DefaultMinDt     = 1e-10
	DefaultTolerance = 1e-8
)

// Config describes one comparison sweep.
type Config struct {
	Problem   string    `yaml:"problem"`
	InitState []float64 `yaml:"init_state"`
	T0        float64   `yaml:"t0"`
	Horizon   float64   `yaml:"horizon"`

	Dts        []float64 `yaml:"dts"`
	Adaptive   bool      `yaml:"adaptive"`
	Tolerances []float64 `yaml:"tolerances"`
	MinDt      float64   `yaml:"min_dt"`
	MaxDt      float64   `yaml:"max_dt"`

	// FallbackSubsteps sizes the generic flow fallback for parts without
	// a closed-form flow.
	FallbackSubsteps int `yaml:"fallback_substeps"`

	Candidates []CandidateSpec `yaml:"candidates"`

	Workers int `yaml:"workers"`
}

// CandidateSpec names one integrator construction.
type CandidateSpec struct {
	Label  string `yaml:"label"`
	Scheme string `yaml:"scheme"` // euler | midpoint | lie-trotter | strang | triple-jump | custom

	// Levels applies the triple jump repeatedly on a Strang base:
	// 1 gives order 4, 2 gives order 6, and so on.
	Levels int `yaml:"levels"`

	// Custom scheme entries, honored verbatim.
	Entries   []compose.Entry `yaml:"entries"`
	Order     int             `yaml:"order"`
	Symmetric bool            `yaml:"symmetric"`
}

func Default() *Config {
	return &Config{
		Problem:          "oscillator",
		Horizon:          DefaultHorizon,
		Dts:              []float64{0.1, 0.05, 0.025, 0.0125},
		MinDt:            DefaultMinDt,
		FallbackSubsteps: DefaultSubsteps,
		Candidates: []CandidateSpec{
			{Label: "euler", Scheme: "euler"},
			{Label: "strang", Scheme: "strang"},
			{Label: "triple-jump", Scheme: "triple-jump", Levels: 1},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
