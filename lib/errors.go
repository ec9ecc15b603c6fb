package ipcbench

import (
	"errors"
	"fmt"
)

var (
	ErrBind     = errors.New("bind endpoint")
	ErrConnect  = errors.New("connect endpoint")
	ErrSend     = errors.New("send envelope")
	ErrReceive  = errors.New("receive envelope")
	ErrProtocol = errors.New("protocol violation")
)

type EncodeError struct {
	Kind       Kind
	SequenceID uint32
	Err        error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s envelope %d: %v", e.Kind, e.SequenceID, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports bytes that could not be parsed as an envelope. The
// subscriber cannot classify such a message, so it ends the run.
type DecodeError struct {
	Size int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode envelope (%d bytes): %v", e.Size, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
