package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveSession = errors.New("no active practice session")
	ErrSessionActive   = errors.New("a practice session is already active")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrLimitReached    = errors.New("question limit reached")
	ErrClarifyInFlight = errors.New("a clarification request is already in flight")
	ErrStaleResponse   = errors.New("response is for a previous question")
)
