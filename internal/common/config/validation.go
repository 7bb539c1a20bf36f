package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	log "github.com/armadaproject/searchbench/internal/common/logging"
)

// LogValidationErrors logs every field that failed validation in a form suitable for humans.
func LogValidationErrors(err error) {
	if err == nil {
		return
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		log.Errorf("ConfigError: %s", err)
		return
	}
	for _, err := range validationErrors {
		log.Error(describe(err))
	}
}

func describe(err validator.FieldError) string {
	fieldName := stripPrefix(err.Namespace())
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("ConfigError: Field %s is required but was not found", fieldName)
	default:
		return fmt.Sprintf("ConfigError: Field %s has invalid value %v: %s", fieldName, err.Value(), err.Tag())
	}
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}
