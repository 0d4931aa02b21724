package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

var configValidator = validator.MustNewDefaultValidator()

// New parses environment variables into a T and checks the result against
// the validate tags of its fields.
func New[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := configValidator.Validate(&cfg); err != nil {
		if fe, ok := validator.FirstFieldError(err); ok {
			return cfg, fmt.Errorf("invalid config %s: %s", fe.Namespace(), validator.ValidationErrorMessage(fe))
		}
		return cfg, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
