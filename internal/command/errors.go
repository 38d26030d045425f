package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joestump/tallybot/internal/store"
)

// ErrNotCommand is returned for messages that do not start with the
// command prefix. They are ignored, not answered.
var ErrNotCommand = errors.New("not a command")

// Code classifies an Error for transports.
type Code string

const (
	// CodeRejected covers bad input and failed checks: the user can fix it.
	CodeRejected Code = "command_failed"
	// CodeRateLimited means the user must wait before trying again.
	CodeRateLimited Code = "rate_limited"
	// CodeInternal means the bot failed, not the user.
	CodeInternal Code = "internal"
)

const internalMessage = "Internal error, please report this."

// Error is a command failure. Message is shown to the user verbatim.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error returns the user-facing message.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

func rejected(format string, args ...any) *Error {
	return &Error{Code: CodeRejected, Message: fmt.Sprintf(format, args...)}
}

// storeError turns a collection error into the message for kind.
func storeError(kind string, err error) *Error {
	title := strings.ToUpper(kind[:1]) + kind[1:]
	msg := ""
	switch {
	case errors.Is(err, store.ErrNotFound):
		msg = title + " not found."
	case errors.Is(err, store.ErrDuplicate):
		msg = title + " already exists."
	case errors.Is(err, store.ErrNameEmpty):
		msg = fmt.Sprintf("Please specify a name for the %s.", kind)
	case errors.Is(err, store.ErrNameBlocked):
		msg = title + " contains blocked words."
	case errors.Is(err, store.ErrNameTooLong):
		msg = fmt.Sprintf("%s name limit is %d characters.", title, store.MaxNameLength)
	case errors.Is(err, store.ErrForbidden):
		msg = "You do not have permission to do that."
	case errors.Is(err, store.ErrPoisoned):
		return &Error{Code: CodeInternal, Message: internalMessage, Err: err}
	default:
		// Anything else is a failed save; the change was not kept.
		return &Error{Code: CodeInternal, Message: fmt.Sprintf("Failed to save the %s, please report this.", kind), Err: err}
	}
	return &Error{Code: CodeRejected, Message: msg, Err: err}
}
