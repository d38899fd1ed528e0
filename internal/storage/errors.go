package storage

import (
	"fmt"
	"strings"
)

// Code identifies the kind of a known request failure.
type Code string

const (
	CodeUniqueConstraint Code = "unique_constraint"
	CodeRecordNotFound   Code = "record_not_found"
	CodeForeignKey       Code = "foreign_key_constraint"
	CodeRequiredRelation Code = "required_relation"
)

// KnownRequestError is a request the store understood but refused.
type KnownRequestError struct {
	Code   Code
	Model  string
	Fields []string
	Err    error
}

func (e *KnownRequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %s", e.Code, e.Model)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *KnownRequestError) Unwrap() error {
	return e.Err
}

// ValidationError reports a record rejected before it reached the store.
type ValidationError struct {
	Model  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Model, e.Field, e.Reason)
}

// InitializationError reports a store that could not be opened.
type InitializationError struct {
	URL string
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initializing database %s: %v", e.URL, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

func uniqueViolation(model string, err error, fields ...string) error {
	return &KnownRequestError{Code: CodeUniqueConstraint, Model: model, Fields: fields, Err: err}
}

func notFound(model string, err error) error {
	return &KnownRequestError{Code: CodeRecordNotFound, Model: model, Err: err}
}

func foreignKeyViolation(model, field string) error {
	return &KnownRequestError{Code: CodeForeignKey, Model: model, Fields: []string{field}}
}

func requiredRelationViolation(model string, relations ...string) error {
	return &KnownRequestError{Code: CodeRequiredRelation, Model: model, Fields: relations}
}
