package cli

import (
	"errors"
	"fmt"

	"github.com/CubeSugarZhang/webpack/pkg/config"
	"github.com/CubeSugarZhang/webpack/pkg/schema/parser"
	"github.com/CubeSugarZhang/webpack/pkg/validation"
)

// Process exit codes.
const (
	ExitOK                   = 0
	ExitFailure              = 1
	ExitInvalidConfiguration = 2
	ExitConfigError          = 3
)

// ConfigError represents an error in the tool's own configuration or flags.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config error: " + e.Message
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to the process exit code:
//
//	0  no error
//	2  a configuration did not match the schema
//	3  the tool configuration, a flag or the schema document is invalid
//	1  anything else
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if validation.IsValidationError(err) {
		return ExitInvalidConfiguration
	}

	var (
		configErr  *ConfigError
		fieldErr   config.ValidationError
		schemaErrs *parser.ErrorList
		schemaErr  *parser.Error
	)
	if errors.As(err, &configErr) || errors.As(err, &fieldErr) ||
		errors.As(err, &schemaErrs) || errors.As(err, &schemaErr) {
		return ExitConfigError
	}
	return ExitFailure
}
