package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by DOJO_CONFIG, if set
//  3. environment variables with prefix DOJO_
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("DOJO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// DOJO_ADDR -> addr, DOJO_REQUIRED_REVIEWS -> required_reviews, ...
	envProvider := env.Provider("DOJO_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOJO_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RequiredReviews < 1:
		return fmt.Errorf("%w: required_reviews must be positive", ErrInvalidConfig)
	case c.QualityFeedbackLength < 1:
		return fmt.Errorf("%w: quality_feedback_length must be positive", ErrInvalidConfig)
	case c.BasicReviewPoints < 1 || c.QualityReviewPoints < c.BasicReviewPoints:
		return fmt.Errorf("%w: review points must be positive and quality at least basic", ErrInvalidConfig)
	case c.XPPerRatingPoint < 1 || c.XPPerLevel < 1:
		return fmt.Errorf("%w: xp settings must be positive", ErrInvalidConfig)
	}
	return nil
}
