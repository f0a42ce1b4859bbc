package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrMissingField is returned when a submit is attempted with an empty required field
	ErrMissingField = goerr.New("required field is empty")

	// ErrUnknownField is returned when editing a field the form does not have
	ErrUnknownField = goerr.New("unknown form field")

	// ErrSubmitInProgress is returned while a previous submission is still in flight
	ErrSubmitInProgress = goerr.New("submission already in progress")

	// ErrControllerClosed is returned after the owning session has been torn down
	ErrControllerClosed = goerr.New("submission controller is closed")

	// ErrSessionNotFound is returned for unknown or expired contact sessions
	ErrSessionNotFound = goerr.New("contact session not found")
)
