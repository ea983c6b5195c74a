package domain

import "errors"

// Kind classifies domain errors so the delivery layer can map them
// to a response without knowing every sentinel.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindInvalidCode
	KindInvalidInput
	KindInvalidCredentials
	KindConflict
	KindPartialWrite
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidCode:
		return "invalid_code"
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindConflict:
		return "conflict"
	case KindPartialWrite:
		return "partial_write"
	default:
		return "unknown"
	}
}

// Error is a domain error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

var (
	ErrParticipantNotFound = newError(KindNotFound, "participant not found")
	ErrPartnerNotFound     = newError(KindNotFound, "partner not found")
	ErrMatchNotFound       = newError(KindNotFound, "match not found")
	ErrQuestionNotFound    = newError(KindNotFound, "question not found")

	ErrAlreadyVerified = newError(KindInvalidState, "match already verified")
	ErrNoPartner       = newError(KindInvalidState, "no match found yet")
	ErrAlreadyPaired   = newError(KindInvalidState, "participant already has a partner")
	ErrEmailTaken      = newError(KindInvalidState, "user with this email already exists")
	ErrUsernameTaken   = newError(KindInvalidState, "username already taken")
	ErrCannotMatchSelf = newError(KindInvalidState, "cannot match a participant with themselves")

	ErrInvalidCode = newError(KindInvalidCode, "invalid verification code")

	ErrInvalidInput  = newError(KindInvalidInput, "invalid input")
	ErrHintsRequired = newError(KindInvalidInput, "please provide at least one hint")

	ErrInvalidCredentials = newError(KindInvalidCredentials, "invalid email or password")
	ErrInvalidToken       = newError(KindInvalidCredentials, "invalid token")
	ErrSessionNotFound    = newError(KindInvalidCredentials, "session not found")

	ErrVersionConflict  = newError(KindConflict, "record was modified concurrently")
	ErrRetriesExhausted = newError(KindConflict, "too many concurrent updates, try again")

	ErrAsymmetricPair = newError(KindPartialWrite, "partner link is not symmetric")
)
