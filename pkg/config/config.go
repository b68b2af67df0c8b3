package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks range constraints and the region shape.
func (c *GenerationConfig) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}

	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if !c.Region.Valid() {
		return fmt.Errorf("Region: min %v must be strictly below max %v on every axis", c.Region.Min, c.Region.Max)
	}

	return nil
}

// Load reads a YAML preset, layered over the defaults so presets only
// need to name the knobs they change.
func Load(path string) (*GenerationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return cfg, nil
}

// formatValidationError returns the first violation in a readable form.
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, e.Param())
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "lt":
			return fmt.Errorf("%s: must be below %s", field, e.Param())
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		default:
			return fmt.Errorf("%s: failed %s validation", field, e.Tag())
		}
	}
	return err
}
