// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package isdserr defines the error kinds returned by the ISDS client.
//
// Every error surfaced by the client is one of:
//
//   - [SchemaError]: a request or response payload does not match its declared shape
//   - [RemoteFault]: the remote system reported a failure status or a SOAP fault
//   - [ResourceError]: a local resource referenced by a request could not be read
//   - [ConfigError]: a service group could not be initialized
//
// or a network failure wrapping [ErrTransport]. Use errors.Is with the
// sentinel values or errors.As with the typed errors to tell them apart.
package isdserr

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below
var (
	ErrSchema    = errors.New("schema validation failed")
	ErrRemote    = errors.New("remote operation fault")
	ErrResource  = errors.New("resource access failed")
	ErrConfig    = errors.New("configuration error")
	ErrTransport = errors.New("transport error")
)

// SchemaError reports a payload that does not match its schema.
type SchemaError struct {
	// Path is the dotted wire path of the offending value (e.g. "dmRecords._value_1[0].dmRecord.dmID")
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema: %s", e.Reason)
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

func (e *SchemaError) Unwrap() error { return e.Err }

// Missing returns a SchemaError for an absent mandatory field.
func Missing(path string) *SchemaError {
	return &SchemaError{Path: path, Reason: "missing required field"}
}

// Invalid returns a SchemaError for a value that could not be coerced.
func Invalid(path string, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// RemoteFault carries the status reported by the remote system verbatim.
type RemoteFault struct {
	Operation string
	Code      string
	Message   string
	RefNumber string
}

func (e *RemoteFault) Error() string {
	msg := fmt.Sprintf("%s failed: [%s] %s", e.Operation, e.Code, e.Message)
	if e.RefNumber != "" {
		msg += " (ref " + e.RefNumber + ")"
	}
	return msg
}

func (e *RemoteFault) Is(target error) bool { return target == ErrRemote }

// ResourceError reports a local resource that could not be read.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Path, e.Err)
}

func (e *ResourceError) Is(target error) bool { return target == ErrResource }

func (e *ResourceError) Unwrap() error { return e.Err }

// ConfigError reports a service group that could not be initialized.
type ConfigError struct {
	Service string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("initializing service %s: %v", e.Service, e.Err)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func (e *ConfigError) Unwrap() error { return e.Err }

// Transport wraps a network or HTTP failure so it matches ErrTransport.
func Transport(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, operation, err)
}
