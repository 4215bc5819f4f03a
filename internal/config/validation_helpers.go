package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

// convertValidationError normalizes validator errors into typed validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return wlerrors.NewValidationError(wlerrors.InvalidConfigValue, field, fmt.Sprint(ve.Value()), msg, err)
	}

	return wlerrors.NewValidationError(wlerrors.InvalidConfigValue, "config", "", err.Error(), err)
}

// yamlishFieldName turns Config.API.BaseURL into api.baseurl, dropping the root type.
func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
