// Package errors provides error wrapping with slog.Attr annotations and
// source locations so that failures can be logged with full context.
//
// It re-exports the stdlib helpers so that callers only need one errors
// import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// annotatedError carries a message, an optional wrapped error, slog
// annotations, and the program counter of the call site that created it.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callerPC returns the program counter skip frames above the caller of
// callerPC. It is used to point SlogError source locations at the code that
// created the error instead of this package.
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	// +2 skips runtime.Callers and callerPC itself.
	runtime.Callers(skip+2, pcs[:])
	return pcs[0]
}

// NewSentinel creates a sentinel error suitable for package-level error
// variables compared with Is.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg, pc: callerPC(1)}
}

// Wrap annotates err with a message and optional slog attributes. A nil err
// is tolerated and produces an error with just the message.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: err, attrs: attrs, pc: callerPC(1)}
}

// DecoratePanic converts a recovered panic value into an error pointing at
// the recovery site. Returns nil when recovered is nil.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &annotatedError{
		msg: fmt.Sprintf("panic: %v", recovered),
		pc:  callerPC(1),
	}
}

// SlogError renders err as a structured attribute containing the error
// message, the source location of the outermost annotated error, and all
// annotations collected from the error chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}

	if source := sourceLocation(err); source != "" {
		attrs = append(attrs, slog.String("source", source))
	}

	if annotations := collectAnnotations(err); len(annotations) > 0 {
		args := make([]any, len(annotations))
		for i, a := range annotations {
			args[i] = a
		}
		attrs = append(attrs, slog.Group("annotations", args...))
	}

	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return slog.Group("error", args...)
}

// sourceLocation finds the file:line of the outermost annotated error in the
// chain.
func sourceLocation(err error) string {
	for err != nil {
		var annotated *annotatedError
		if !errors.As(err, &annotated) {
			return ""
		}
		if annotated.pc != 0 {
			frames := runtime.CallersFrames([]uintptr{annotated.pc})
			frame, _ := frames.Next()
			if frame.File != "" {
				return fmt.Sprintf("%s:%d", frame.File, frame.Line)
			}
		}
		err = annotated.err
	}
	return ""
}

// collectAnnotations gathers the attributes of every annotated error in the
// chain from the outside in.
func collectAnnotations(err error) []slog.Attr {
	var attrs []slog.Attr
	for err != nil {
		var annotated *annotatedError
		if !errors.As(err, &annotated) {
			break
		}
		attrs = append(attrs, annotated.attrs...)
		err = annotated.err
	}
	return attrs
}

// New delegates to the stdlib errors.New.
func New(text string) error {
	//nolint:err113 // delegation keeps a single errors import for callers.
	return errors.New(text)
}

// Is delegates to the stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As delegates to the stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap delegates to the stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join delegates to the stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
