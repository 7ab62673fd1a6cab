package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures the way the session surfaces them.
type ErrorKind string

const (
	KindUserInput     ErrorKind = "user_input"
	KindConfiguration ErrorKind = "configuration"
	KindExtraction    ErrorKind = "extraction"
)

// DomainError carries a kind, a human readable message and an optional cause.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func UserInputError(message string) *DomainError {
	return &DomainError{Kind: KindUserInput, Message: message}
}

func ConfigurationError(message string) *DomainError {
	return &DomainError{Kind: KindConfiguration, Message: message}
}

func ExtractionError(message string, err error) *DomainError {
	return &DomainError{Kind: KindExtraction, Message: message, Err: err}
}

// KindOf returns the kind of the first DomainError in err's chain.
// Anything else counts as an extraction failure.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindExtraction
}
