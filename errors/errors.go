// Package errors defines the error taxonomy shared by every layer of the messenger.
// Each error carries a Kind (how a caller should react) and a short message that is
// safe to show to end users. Causes are kept for logs only.
package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindPersistence     Kind = "persistence"
	KindInternal        Kind = "internal"
)

// Code identifies one error precisely, two errors with the same Code are equal for errors.Is.
type Code string

type Error struct {
	Kind    Kind
	Code    Code
	Message string
	cause   error
}

func newError(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of e carrying cause. The user-facing message is unchanged.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, cause: cause}
}

var (
	ErrInvalidInput      = newError(KindValidation, "INVALID_INPUT", "Username and password are required")
	ErrUsernameTooShort  = newError(KindValidation, "USERNAME_TOO_SHORT", "Username must have at least 3 characters")
	ErrPasswordTooShort  = newError(KindValidation, "PASSWORD_TOO_SHORT", "Password must have at least 4 characters")
	ErrEmptyMessage      = newError(KindValidation, "EMPTY_MESSAGE", "Message body or attachment required")
	ErrInvalidAttachment = newError(KindValidation, "INVALID_ATTACHMENT", "Attachment could not be stored")
	ErrInvalidPicture    = newError(KindValidation, "INVALID_PICTURE", "Profile picture must be an image")
	ErrFileTooLarge      = newError(KindValidation, "FILE_TOO_LARGE", "File is too large")
	ErrInvalidOffset     = newError(KindValidation, "INVALID_OFFSET", "Offset must be a non-negative number")

	ErrUsernameTaken = newError(KindConflict, "USERNAME_TAKEN", "Username already taken")
	ErrSelfFriend    = newError(KindConflict, "SELF_FRIEND", "Cannot add yourself")

	ErrUserNotFound         = newError(KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrConversationNotFound = newError(KindNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
	// ErrNotParticipant shares the message of ErrConversationNotFound so callers cannot
	// tell a foreign conversation from a missing one.
	ErrNotParticipant = newError(KindNotFound, "NOT_PARTICIPANT", "Conversation not found")

	ErrInvalidCredential = newError(KindUnauthenticated, "INVALID_CREDENTIAL", "Invalid username or password")
	ErrNotAuthenticated  = newError(KindUnauthenticated, "NOT_AUTHENTICATED", "Not authenticated")
	ErrSessionExpired    = newError(KindUnauthenticated, "SESSION_EXPIRED", "Session expired")

	ErrPersistence = newError(KindPersistence, "PERSISTENCE", "Could not save changes")
	ErrInternal    = newError(KindInternal, "INTERNAL", "Internal error")

	ErrWorkerPanic = stderrors.New("worker panic")
)

// KindOf reports the Kind of err, KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Public returns the taxonomy error to expose across the service boundary.
// Foreign errors collapse into ErrInternal and NotParticipant into ConversationNotFound.
func Public(err error) *Error {
	var e *Error
	if !stderrors.As(err, &e) {
		return ErrInternal
	}
	if e.Code == ErrNotParticipant.Code {
		return ErrConversationNotFound
	}
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message}
}
