package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrUnknownRoundType is matched by UnknownRoundTypeError.
	ErrUnknownRoundType = errors.New("unknown round type")
	// ErrInvalidAction is returned when an operator action is rejected. State is left unchanged.
	ErrInvalidAction = errors.New("invalid operator action")
	// ErrMediaUnavailable indicates a blind-test cue could not be loaded. It is never fatal to a round.
	ErrMediaUnavailable = errors.New("media unavailable")
	// ErrInvalidDefinition indicates a round definition cannot be played as written.
	ErrInvalidDefinition = errors.New("invalid round definition")
)

// UnknownRoundTypeError carries the unresolved tag and the tags the factory knows about.
type UnknownRoundTypeError struct {
	Type  string
	Known []string
}

func (e *UnknownRoundTypeError) Error() string {
	return fmt.Sprintf("unknown round type %q (available: %s)", e.Type, strings.Join(e.Known, ", "))
}

func (e *UnknownRoundTypeError) Is(target error) bool {
	return target == ErrUnknownRoundType
}

// InvalidAction wraps ErrInvalidAction with a human-readable reason.
func InvalidAction(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}
