package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these are business logic errors that should be translated
// to appropriate HTTP status codes by the handler layer

var (
	// Remote source errors
	ErrUserNotFound    = errors.New("user not found")
	ErrAuthentication  = errors.New("leetcode session is missing, invalid or expired")
	ErrNoSubmissions   = errors.New("no submissions returned for user")
	ErrSourceMalformed = errors.New("unexpected response from leetcode")

	// Corpus errors
	ErrQuestionNotFound = errors.New("question not found in corpus")
	ErrCorpusLoad       = errors.New("question corpus could not be loaded")

	// Coaching errors
	ErrCoachUnavailable = errors.New("coaching plan generator is not configured")
	ErrNothingToCoach   = errors.New("no analysis data available to build a coaching plan")

	// Admin auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// FetchError reports a failure talking to the remote submission/profile source.
// Source names the facet being fetched, e.g. "submissions" or "profile".
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not fetch %s", e.Source)
	}
	return fmt.Sprintf("could not fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a fetch failure for the given source
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// IsFetchFailure reports whether err is a remote fetch failure of any kind
func IsFetchFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// GenerationError reports that a coaching plan could not be produced
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("error generating coaching plan: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
