// Package config loads and saves run configuration in YAML.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStepSize    = 0.002
	DefaultSteps       = 5000
	DefaultTemperature = 300.0
	DefaultFriction    = 1.0
	DefaultErrorTol    = 1e-3
	DefaultCopies      = 8
	DefaultParticles   = 27
	DefaultSampleEvery = 10
	DefaultDataDir     = "data"
)

type Config struct {
	Preset      string  `yaml:"preset"`
	Integrator  string  `yaml:"integrator"`
	Backend     string  `yaml:"backend"`
	Steps       int     `yaml:"steps"`
	StepSize    float64 `yaml:"step_size"`
	Temperature float64 `yaml:"temperature"`
	Friction    float64 `yaml:"friction"`
	ErrorTol    float64 `yaml:"error_tol"`
	Seed        int64   `yaml:"seed"`
	Copies      int     `yaml:"copies"`
	Particles   int     `yaml:"particles"`
	SampleEvery int     `yaml:"sample_every"`
	DataDir     string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:      "argon",
		Integrator:  "langevin",
		Steps:       DefaultSteps,
		StepSize:    DefaultStepSize,
		Temperature: DefaultTemperature,
		Friction:    DefaultFriction,
		ErrorTol:    DefaultErrorTol,
		Copies:      DefaultCopies,
		Particles:   DefaultParticles,
		SampleEvery: DefaultSampleEvery,
		DataDir:     DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
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
