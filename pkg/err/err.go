package errprocess

import (
	"errors"

	"chatterbox_service/pkg/logger"
)

// Kind classify what went wrong so the HTTP layer can pick a status code
type Kind int

const (
	// KindUnknown uncategorized failure
	KindUnknown Kind = iota
	// KindValidation missing or malformed required field
	KindValidation
	// KindNotFound referenced user or conversation does not exist
	KindNotFound
	// KindConflict duplicate unique field
	KindConflict
	// KindPersistence underlying storage operation failed
	KindPersistence
)

// Error carries a kind alongside the message
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind return the error kind
func (e *Error) Kind() Kind {
	return e.kind
}

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Validation log and return a KindValidation error
func Validation(errMsg string) error {
	logger.Log.Error(errMsg)
	return &Error{kind: KindValidation, msg: errMsg}
}

// NotFound log and return a KindNotFound error
func NotFound(errMsg string) error {
	logger.Log.Error(errMsg)
	return &Error{kind: KindNotFound, msg: errMsg}
}

// Conflict log and return a KindConflict error
func Conflict(errMsg string) error {
	logger.Log.Error(errMsg)
	return &Error{kind: KindConflict, msg: errMsg}
}

// Persistence log and return a KindPersistence error
func Persistence(errMsg string) error {
	logger.Log.Error(errMsg)
	return &Error{kind: KindPersistence, msg: errMsg}
}

// KindOf report the kind of err, KindUnknown when err is not ours
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}
