package ldamodel

import "fmt"

// ConfigError reports a problem with learner configuration (spec.md §7
// "Invalid math-mode token during configuration: fails with
// InvalidConfig"). It is a structured, recoverable error, distinct from
// the panics used for internal invariant violations.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ldamodel: invalid config field %s: %s", e.Field, e.Msg)
}

func configError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
