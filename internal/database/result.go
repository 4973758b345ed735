package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrorType categorizes database failures so callers can distinguish a dead
// connection from a bad request without parsing error strings.
type ErrorType string

const (
	ErrTypeConnection   ErrorType = "connection"
	ErrTypeTimeout      ErrorType = "timeout"
	ErrTypeNotConnected ErrorType = "not_connected"
	ErrTypeInvalidOp    ErrorType = "invalid_operation"
	ErrTypeUnknown      ErrorType = "unknown"
)

// Result is the uniform return value of every facade operation. Success must
// be checked before any payload field is trusted. A nil Document with
// Success=true means "no match", which is not a failure: expected conditions
// like not-found never travel as errors.
type Result struct {
	Success bool

	// Payload fields. Each operation populates at most one of these.
	InsertedID string
	Document   bson.M
	Documents  []bson.M
	Modified   bool
	Count      int64

	Err     string
	ErrType ErrorType
}

func okResult() *Result {
	return &Result{Success: true}
}

func okInserted(id string) *Result {
	return &Result{Success: true, InsertedID: id}
}

func okDocument(doc bson.M) *Result {
	return &Result{Success: true, Document: doc}
}

func okDocuments(docs []bson.M) *Result {
	return &Result{Success: true, Documents: docs}
}

func okModified(modified bool) *Result {
	return &Result{Success: true, Modified: modified}
}

func okCount(n int64) *Result {
	return &Result{Success: true, Count: n}
}

func errResult(errType ErrorType, format string, args ...interface{}) *Result {
	return &Result{
		Success: false,
		Err:     fmt.Sprintf(format, args...),
		ErrType: errType,
	}
}

func (r *Result) String() string {
	if r.Success {
		return "success"
	}
	return fmt.Sprintf("error (%s): %s", r.ErrType, r.Err)
}
