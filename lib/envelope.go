package ipcbench

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind tags an envelope with its place in a run.
type Kind string

const (
	KindStartup Kind = "startup"
	KindFirst   Kind = "first"
	KindRegular Kind = "regular"
	KindLast    Kind = "last"
)

// Recognized reports whether k is one of the four known tags. Decoding never
// fails on an unknown tag so newer publishers can talk to older subscribers.
func (k Kind) Recognized() bool {
	switch k {
	case KindStartup, KindFirst, KindRegular, KindLast:
		return true
	}
	return false
}

// Classify returns the kind of the measured-run envelope at position seq of a
// run of total envelopes. A run of one is a single Last envelope.
func Classify(seq, total uint32) Kind {
	switch {
	case seq == total-1:
		return KindLast
	case seq == 0:
		return KindFirst
	default:
		return KindRegular
	}
}

// Envelope is one transport message.
type Envelope struct {
	Kind                Kind
	SendTimestampMicros int64
	DeclaredTotal       uint32
	SequenceID          uint32
	Payload             string
}

type wireMessage struct {
	MessageType      string `json:"message_type"`
	TimestampMicros  int64  `json:"timestamp_micros"`
	NumberOfMessages uint32 `json:"number_of_messages"`
	ID               uint32 `json:"id"`
	Content          string `json:"content"`
}

func Encode(e Envelope) ([]byte, error) {
	b, err := json.Marshal(wireMessage{
		MessageType:      string(e.Kind),
		TimestampMicros:  e.SendTimestampMicros,
		NumberOfMessages: e.DeclaredTotal,
		ID:               e.SequenceID,
		Content:          e.Payload,
	})
	if err != nil {
		return nil, &EncodeError{Kind: e.Kind, SequenceID: e.SequenceID, Err: err}
	}
	return b, nil
}

// Decode parses one wire record. Keys match exactly and all five fields are
// required; anything else is a DecodeError.
func Decode(b []byte) (Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return Envelope{}, &DecodeError{Size: len(b), Err: err}
	}
	if fields == nil {
		return Envelope{}, &DecodeError{Size: len(b), Err: errors.New("null record")}
	}

	var m wireMessage
	targets := []struct {
		key string
		dst any
	}{
		{"message_type", &m.MessageType},
		{"timestamp_micros", &m.TimestampMicros},
		{"number_of_messages", &m.NumberOfMessages},
		{"id", &m.ID},
		{"content", &m.Content},
	}
	for _, f := range targets {
		raw, ok := fields[f.key]
		if !ok || string(raw) == "null" {
			return Envelope{}, &DecodeError{Size: len(b), Err: fmt.Errorf("missing field %q", f.key)}
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return Envelope{}, &DecodeError{Size: len(b), Err: fmt.Errorf("field %q: %w", f.key, err)}
		}
	}

	return Envelope{
		Kind:                Kind(m.MessageType),
		SendTimestampMicros: m.TimestampMicros,
		DeclaredTotal:       m.NumberOfMessages,
		SequenceID:          m.ID,
		Payload:             m.Content,
	}, nil
}

// Filler returns the deterministic payload of the given size.
func Filler(size int) string {
	if size <= 0 {
		return ""
	}
	return strings.Repeat("0", size)
}
