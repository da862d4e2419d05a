package config

import (
	"fmt"
	"strings"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// ValidationError reports one invalid configuration field
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s=%v: %s", e.Field, e.Value, e.Message)
}

// Validate rejects unknown log levels and formats and a negative step budget.
func (c *Config) Validate() error {
	if !contains(validLevels, strings.ToLower(c.Log.Level)) {
		return &ValidationError{Field: "log.level", Value: c.Log.Level, Message: "must be one of " + strings.Join(validLevels, ", ")}
	}
	if !contains(validFormats, strings.ToLower(c.Log.Format)) {
		return &ValidationError{Field: "log.format", Value: c.Log.Format, Message: "must be one of " + strings.Join(validFormats, ", ")}
	}
	if c.Interpreter.MaxSteps < 0 {
		return &ValidationError{Field: "interpreter.max_steps", Value: c.Interpreter.MaxSteps, Message: "must not be negative"}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
