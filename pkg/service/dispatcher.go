// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sirosfoundation/go-isds/pkg/isdserr"
	"github.com/sirosfoundation/go-isds/pkg/schema"
	"github.com/sirosfoundation/go-isds/pkg/transport"
)

// Operation describes one remote operation: its name and the argument
// names it accepts.
type Operation struct {
	Name     string
	Required []string
	Optional []string
}

// check rejects arguments the operation does not declare and required
// arguments that are absent or empty.
func (op Operation) check(args transport.Args) error {
	for _, a := range args {
		if !op.declares(a.Name) {
			return isdserr.Invalid(a.Name, "not an argument of %s", op.Name)
		}
	}
	for _, name := range op.Required {
		v, ok := args.Get(name)
		if !ok || isEmpty(v) {
			return isdserr.Missing(name)
		}
	}
	return nil
}

func (op Operation) declares(name string) bool {
	for _, n := range op.Required {
		if n == name {
			return true
		}
	}
	for _, n := range op.Optional {
		if n == name {
			return true
		}
	}
	return false
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []byte:
		return len(val) == 0
	case transport.Args:
		return len(val) == 0
	case []transport.Args:
		return len(val) == 0
	}
	return isNil(v)
}

// compact drops top-level arguments whose value is nil or a nil pointer.
func compact(args transport.Args) transport.Args {
	out := make(transport.Args, 0, len(args))
	for _, a := range args {
		if isNil(a.Value) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Group is a remote service: a set of operations sharing one endpoint and
// one WSDL document.
type Group struct {
	Name       string
	Path       string
	WSDL       string
	Operations []Operation
}

// OperationNames returns the names of the group's operations.
func (g Group) OperationNames() []string {
	names := make([]string, len(g.Operations))
	for i, op := range g.Operations {
		names[i] = op.Name
	}
	return names
}

// Groups returns every service group, in the order the client builds them.
func Groups() []Group {
	return []Group{
		MessageOperationsGroup,
		MessageInfoGroup,
		DataBoxSearchGroup,
		DataBoxAccessGroup,
		DataBoxManipulationsGroup,
	}
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithClock replaces time.Now for default time windows.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// Dispatcher invokes the operations of one group through a transport and
// validates their responses. Service groups embed it.
type Dispatcher struct {
	group  Group
	caller transport.Caller
	logger *slog.Logger
	now    func() time.Time
}

func newDispatcher(group Group, caller transport.Caller, opts []Option) Dispatcher {
	d := Dispatcher{
		group:  group,
		caller: caller,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&d)
	}
	d.logger = d.logger.With(slog.String("service", group.Name))
	return d
}

// Group returns the dispatched group.
func (d *Dispatcher) Group() Group { return d.group }

// invoke checks args against op, calls the remote operation and decodes
// its response into T.
func invoke[T any](ctx context.Context, d *Dispatcher, op Operation, args transport.Args) (*T, error) {
	args = compact(args)
	if err := op.check(args); err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := d.caller.Call(ctx, op.Name, args)
	if err != nil {
		d.logger.Debug("operation failed",
			slog.String("operation", op.Name),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, err
	}

	resp, err := schema.DecodeResponse[T](op.Name, raw)
	if err != nil {
		d.logger.Debug("operation rejected",
			slog.String("operation", op.Name),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, err
	}

	d.logger.Debug("operation completed",
		slog.String("operation", op.Name),
		slog.Duration("duration", time.Since(start)))
	return resp, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest applies the validate struct tags of req.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &isdserr.SchemaError{
			Path:   fe.Namespace(),
			Reason: fmt.Sprintf("failed %q validation", fe.Tag()),
			Err:    err,
		}
	}
	return &isdserr.SchemaError{Reason: "invalid request", Err: err}
}

func arg(name string, value any) transport.Arg {
	return transport.Arg{Name: name, Value: value}
}

func attr(name string, value any) transport.Arg {
	return transport.Arg{Name: name, Value: value, Attr: true}
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// recordArgs converts an encoded record to nested arguments, keeping the
// record's field order.
func recordArgs(fields []schema.Field) transport.Args {
	args := make(transport.Args, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case []schema.Field:
			args = append(args, arg(f.Wire, recordArgs(v)))
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					items = append(items, s)
				}
			}
			args = append(args, arg(f.Wire, items))
		default:
			args = append(args, arg(f.Wire, v))
		}
	}
	return args
}
