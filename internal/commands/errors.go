package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command failures. HTTP and CLI callers surface them
// verbatim.
const (
	CodeValidationFailed = "COMMAND_VALIDATION_FAILED"
	CodeCanceled         = "COMMAND_CONTEXT_CANCELED"
	CodeTimeout          = "COMMAND_CONTEXT_TIMEOUT"
	CodeContextError     = "COMMAND_CONTEXT_ERROR"
	CodeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
)

// alreadyClassified reports whether err needs no further wrapping.
func alreadyClassified(err error) bool {
	return err == nil || goerrors.IsWrapped(err)
}

func wrapValidationError(err error) error {
	if alreadyClassified(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeValidationFailed)
}

func contextFailure(err error) (code, message string) {
	switch {
	case errors.Is(err, context.Canceled):
		return CodeCanceled, "command cancelled before completion"
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout, "command exceeded its deadline"
	default:
		return CodeContextError, "command context failed"
	}
}

func wrapContextError(err error) error {
	if alreadyClassified(err) {
		return err
	}
	code, message := contextFailure(err)
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if alreadyClassified(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command handler failed").
		WithTextCode(CodeExecutionFailed)
}
