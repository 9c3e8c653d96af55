package errcode

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a command-level failure, either reported by the remote end or
// synthesized from a transport failure.
type Error struct {
	Kind       Kind
	Message    string
	Screen     string   // Base64 screenshot some servers attach
	Stacktrace []string // Remote stack, one frame per entry
	AlertText  string   // Only set for UnexpectedAlertOpen
	Cause      error
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.AlertText != "" {
		fmt.Fprintf(&b, " (alert text: %s)", e.AlertText)
	}
	// Transport failures already carry the cause text as the message.
	if e.Cause != nil && !strings.Contains(e.Message, e.Cause.Error()) {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so the predefined values below work
// as sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithCause returns a copy of the error with the given cause
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Predefined errors, one per kind
var (
	// Session errors
	ErrNoSuchSession     = New(NoSuchSession, "")
	ErrInvalidSessionID  = New(InvalidSessionID, "")
	ErrSessionNotCreated = New(SessionNotCreated, "")

	// Element errors
	ErrNoSuchElement           = New(NoSuchElement, "")
	ErrStaleElementReference   = New(StaleElementReference, "")
	ErrElementNotVisible       = New(ElementNotVisible, "")
	ErrElementNotInteractable  = New(ElementNotInteractable, "")
	ErrElementClickIntercepted = New(ElementClickIntercepted, "")
	ErrElementNotSelectable    = New(ElementNotSelectable, "")
	ErrInvalidElementState     = New(InvalidElementState, "")

	// Navigation errors
	ErrNoSuchFrame           = New(NoSuchFrame, "")
	ErrNoSuchWindow          = New(NoSuchWindow, "")
	ErrMoveTargetOutOfBounds = New(MoveTargetOutOfBounds, "")

	// Alert errors
	ErrNoAlertPresent      = New(NoAlertPresent, "")
	ErrUnexpectedAlertOpen = New(UnexpectedAlertOpen, "")

	// Script and timeout errors
	ErrJavascript    = New(JavascriptError, "")
	ErrScriptTimeout = New(ScriptTimeout, "")
	ErrTimeout       = New(Timeout, "")

	ErrInvalidSelector     = New(InvalidSelector, "")
	ErrNoSuchCookie        = New(NoSuchCookie, "")
	ErrUnableToSetCookie   = New(UnableToSetCookie, "")
	ErrInvalidCookieDomain = New(InvalidCookieDomain, "")
	ErrInvalidArgument     = New(InvalidArgument, "")
	ErrInvalidCoordinates  = New(InvalidCoordinates, "")
	ErrInsecureCertificate = New(InsecureCertificate, "")

	ErrUnsupportedCommand    = New(UnsupportedCommand, "")
	ErrUnableToCaptureScreen = New(UnableToCaptureScreen, "")
	ErrImeNotAvailable       = New(ImeNotAvailable, "")
	ErrImeActivationFailed   = New(ImeActivationFailed, "")

	// ErrUnknown also covers transport failures.
	ErrUnknown = New(Unknown, "")
)
