package logging

import (
	"go.uber.org/zap/zapcore"
)

// OpError tags err with the step that failed. Ref carries the request or
// job id when one is known.
type OpError struct {
	Op  string
	Ref string
	Err error
}

// Wrap returns nil for a nil err.
func Wrap(op string, err error) error {
	return WrapRef(op, "", err)
}

func WrapRef(op, ref string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Ref: ref, Err: err}
}

func (e *OpError) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Ref != "" {
		msg += " [" + e.Ref + "]"
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

// MarshalLogObject lets an OpError be logged with zap.Object.
func (e *OpError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("op", e.Op)
	if e.Ref != "" {
		enc.AddString("ref", e.Ref)
	}
	enc.AddString("cause", e.Err.Error())
	return nil
}
