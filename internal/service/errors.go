package service

import "errors"

// Sentinel errors surfaced to the handler layer. Handlers map these onto
// response codes; none of them is retried internally.
var (
	// Not-found conditions.
	ErrAttemptNotFound  = errors.New("exam attempt not found")
	ErrSessionNotFound  = errors.New("practice session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrUserNotFound     = errors.New("user not found")

	// Invalid-state conditions. The caller must change the request before
	// retrying.
	ErrAttemptComplete  = errors.New("attempt has no unlocked sections left")
	ErrDuplicateAnswer  = errors.New("question already answered in this section")
	ErrWrongSection     = errors.New("question type does not match the current section")
	ErrSessionFinished  = errors.New("practice session already finished")
	ErrTypeMismatch     = errors.New("question type does not match the session type")

	// Authorization conditions.
	ErrNotOwner = errors.New("resource belongs to another identity")

	// Auth flow conditions.
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
