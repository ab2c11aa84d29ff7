package domain

import "errors"

var (
	// ErrDuplicateSession is returned when a participant ID already has an
	// active session. Reconnects must evict the old session first.
	ErrDuplicateSession = errors.New("participant already has an active session")
	// ErrSessionNotFound is returned for operations on an unknown participant.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session was already finalized or
	// removed (for example a late answer racing a disconnect).
	ErrSessionExpired = errors.New("session expired")
	// ErrUnknownQuestion indicates a submitted question ID is not in the catalog.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrEmptyCatalog indicates a loaded catalog contains no usable questions.
	ErrEmptyCatalog = errors.New("catalog has no questions")
	// ErrProtocolViolation indicates a malformed or out-of-sequence wire
	// message; fatal to the offending connection only.
	ErrProtocolViolation = errors.New("protocol violation")
)
