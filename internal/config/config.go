// Package config loads spamcheck settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hickeroar/spamcheck/bayes"
	"github.com/hickeroar/spamcheck/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config is the full spamcheck configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Model   ModelConfig   `yaml:"model"`
	Corpus  CorpusConfig  `yaml:"corpus"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port      string `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// LoggingConfig controls the leveled logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ModelConfig holds the classifier constants.
type ModelConfig struct {
	Smoothing float64      `yaml:"smoothing"`
	Priors    bayes.Priors `yaml:"priors"`
}

// CorpusConfig optionally replaces the built-in example sentences. Both
// lists must be set for the override to apply.
type CorpusConfig struct {
	Spam []string `yaml:"spam"`
	Ham  []string `yaml:"ham"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Model: ModelConfig{
			Smoothing: bayes.DefaultSmoothing,
			Priors:    bayes.DefaultPriors,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Model.Smoothing <= 0 {
		return fmt.Errorf("smoothing must be positive, got %g", c.Model.Smoothing)
	}
	if err := c.Model.Priors.Validate(); err != nil {
		return err
	}
	if (len(c.Corpus.Spam) == 0) != (len(c.Corpus.Ham) == 0) {
		return errors.New("corpus override needs both spam and ham examples")
	}
	return nil
}

// Entries returns the configured corpus, or the built-in one when no
// override is set.
func (c *Config) Entries() []bayes.Entry {
	if len(c.Corpus.Spam) == 0 || len(c.Corpus.Ham) == 0 {
		return bayes.DefaultCorpus()
	}
	return bayes.NewCorpus(c.Corpus.Spam, c.Corpus.Ham)
}

// NewClassifier builds the model once from the configured corpus.
func (c *Config) NewClassifier() *bayes.Classifier {
	model := bayes.Build(c.Entries())
	logger.Debug("model built: spam=%d tokens ham=%d tokens", model.Total(bayes.Spam), model.Total(bayes.Ham))
	return bayes.NewClassifier(model,
		bayes.WithPriors(c.Model.Priors),
		bayes.WithSmoothing(c.Model.Smoothing),
	)
}
