package errormgr

import (
	"errors"
	"strings"
	"sync"

	"github.com/aws/smithy-go"
)

// ErrorMgr collects the non-fatal errors raised during one invocation.
type ErrorMgr interface {
	// store error
	StoreError(err error)
	// get errors
	GetErrors() []error
	// join stored error messages
	Summary(separator string) string
}

type _ErrorMgr struct {
	mu     sync.Mutex
	errors []error
}

type Kind string

const (
	UnresolvedAccount Kind = "UnresolvedAccount"
	CreationFailed    Kind = "CreationFailed"
	Timeout           Kind = "Timeout"
	RelocationFailed  Kind = "RelocationFailed"
	LookupFailed      Kind = "LookupFailed"
	DirectSendFailed  Kind = "DirectSendFailed"
	PublishFailed     Kind = "PublishFailed"
	MalformedEvent    Kind = "MalformedEvent"
)

// Error is the error type returned by the handlers.
type Error struct {
	Kind        Kind
	AccountId   string
	ResourceArn string
	Message     string
	Err         error
}

func (e Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	if e.Kind != "" {
		return "[" + string(e.Kind) + "] " + msg
	}
	return msg
}

func (e Error) Unwrap() error {
	return e.Err
}

// New returns an Error of the given kind.
func New(kind Kind, message string) Error {
	return Error{Kind: kind, Message: message}
}

// Wrap returns an Error of the given kind caused by err.
func Wrap(kind Kind, message string, err error) Error {
	return Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether any error in err's chain is an Error of kind.
func IsKind(err error, kind Kind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// APIErrorCode returns the AWS error code carried by err, if any.
func APIErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func NewErrorMgr() ErrorMgr {
	return &_ErrorMgr{
		errors: make([]error, 0),
	}
}

// store error
func (em *_ErrorMgr) StoreError(err error) {
	if err == nil {
		return
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	em.errors = append(em.errors, err)
}

// get errors
func (em *_ErrorMgr) GetErrors() []error {
	em.mu.Lock()
	defer em.mu.Unlock()
	errs := make([]error, len(em.errors))
	copy(errs, em.errors)
	return errs
}

func (em *_ErrorMgr) Summary(separator string) string {
	var msgs []string
	for _, err := range em.GetErrors() {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, separator)
}
