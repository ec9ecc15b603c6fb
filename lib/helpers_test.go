package ipcbench

import (
	"context"
	"io"
	"log/slog"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSender struct {
	sent   [][]byte
	failAt int
	closed bool
}

func (s *recordingSender) Send(b []byte) error {
	if s.failAt > 0 && len(s.sent)+1 == s.failAt {
		return ErrSend
	}
	s.sent = append(s.sent, append([]byte(nil), b...))
	return nil
}

func (s *recordingSender) Close() error {
	s.closed = true
	return nil
}

type sliceReceiver struct {
	msgs [][]byte
}

func (r *sliceReceiver) Receive() ([]byte, error) {
	if len(r.msgs) == 0 {
		return nil, ErrReceive
	}
	b := r.msgs[0]
	r.msgs = r.msgs[1:]
	return b, nil
}

func (r *sliceReceiver) Close() error { return nil }

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func noSleep(sleeps *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		if sleeps != nil {
			*sleeps = append(*sleeps, d)
		}
		return ctx.Err()
	}
}

func mustEncode(e Envelope) []byte {
	b, err := Encode(e)
	if err != nil {
		panic(err)
	}
	return b
}
