package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return wlerrors.NewValidationError(wlerrors.InvalidConfigValue, "config", "", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(cfg.Cities))
	for i, city := range cfg.Cities {
		if strings.TrimSpace(city) != city {
			return wlerrors.NewValidationError(wlerrors.InvalidConfigValue, fmt.Sprintf("cities[%d]", i), city, "city names must not have surrounding whitespace", nil)
		}
		if _, dup := seen[city]; dup {
			return wlerrors.NewValidationError(wlerrors.InvalidConfigValue, fmt.Sprintf("cities[%d]", i), city, fmt.Sprintf("duplicate city %q", city), nil)
		}
		seen[city] = struct{}{}
	}

	if cfg.DefaultCity != "" && !cfg.HasCity(cfg.DefaultCity) {
		return wlerrors.NewValidationError(wlerrors.InvalidConfigValue, "default_city", cfg.DefaultCity, fmt.Sprintf("default city %q is not in cities", cfg.DefaultCity), nil)
	}

	return nil
}
