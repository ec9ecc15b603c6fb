package ipcbench

import (
	"fmt"
	"log/slog"
	"time"
)

type State int

const (
	StateAwaitingFirst State = iota
	StateMeasuring
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingFirst:
		return "awaiting_first"
	case StateMeasuring:
		return "measuring"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Automaton classifies envelopes in receive order and accumulates the run's
// statistics. Once Done, further envelopes leave the statistics untouched.
type Automaton struct {
	state  State
	stats  RunStatistics
	logger *slog.Logger
}

func NewAutomaton(measureLatency bool, logger *slog.Logger) *Automaton {
	return &Automaton{
		state:  StateAwaitingFirst,
		stats:  RunStatistics{LatencyEnabled: measureLatency},
		logger: logger,
	}
}

func (a *Automaton) State() State { return a.state }

// Statistics returns a copy of the accumulated statistics.
func (a *Automaton) Statistics() RunStatistics {
	s := a.stats
	s.LatencySamples = append([]int64(nil), a.stats.LatencySamples...)
	return s
}

// Handle applies one envelope received at receivedAt. It returns ErrProtocol
// when the run can no longer be measured.
func (a *Automaton) Handle(e Envelope, receivedAt time.Time) error {
	if a.state == StateDone {
		a.logger.Debug("ignoring envelope after run completed", "kind", e.Kind, "id", e.SequenceID)
		return nil
	}

	switch e.Kind {
	case KindStartup:
		a.logger.Info("received startup message", "id", e.SequenceID)

	case KindFirst:
		if a.state != StateAwaitingFirst {
			a.logger.Warn("ignoring unexpected first message", "id", e.SequenceID, "state", a.state)
			return nil
		}
		a.logger.Info("received first message", "id", e.SequenceID)
		a.stats.Received++
		a.stats.AnalysisBeginMicros = receivedAt.UnixMicro()
		a.state = StateMeasuring

	case KindRegular:
		if a.state != StateMeasuring {
			a.logger.Warn("ignoring regular message before first", "id", e.SequenceID)
			return nil
		}
		a.stats.Received++
		if a.stats.LatencyEnabled {
			a.stats.LatencySamples = append(a.stats.LatencySamples, receivedAt.UnixMicro()-e.SendTimestampMicros)
		}
		a.logger.Debug("received regular message", "id", e.SequenceID)

	case KindLast:
		if a.state == StateAwaitingFirst {
			if e.DeclaredTotal != 1 {
				return fmt.Errorf("%w: last message %d of %d arrived before first", ErrProtocol, e.SequenceID, e.DeclaredTotal)
			}
			// single-envelope run: the window opens and closes together
			a.stats.AnalysisBeginMicros = receivedAt.UnixMicro()
		}
		a.logger.Info("received last message", "id", e.SequenceID)
		a.stats.Received++
		a.stats.AnalysisEndMicros = receivedAt.UnixMicro()
		a.stats.DeclaredTotal = e.DeclaredTotal
		a.stats.PayloadSize = len(e.Payload)
		a.state = StateDone

	default:
		a.logger.Warn("received unknown message type", "message_type", string(e.Kind), "id", e.SequenceID)
	}
	return nil
}

// Subscriber drives an Automaton from a Receiver until the run completes.
type Subscriber struct {
	receiver       Receiver
	measureLatency bool
	logger         *slog.Logger
	now            func() time.Time
}

func NewSubscriber(receiver Receiver, measureLatency bool, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		receiver:       receiver,
		measureLatency: measureLatency,
		logger:         logger,
		now:            time.Now,
	}
}

// Run blocks until the Last envelope is observed, then returns the finalized
// summary. Receive, decode and protocol errors end the run.
func (s *Subscriber) Run() (Summary, error) {
	a := NewAutomaton(s.measureLatency, s.logger)
	s.logger.Info("waiting for messages")
	for a.State() != StateDone {
		b, err := s.receiver.Receive()
		if err != nil {
			return Summary{}, err
		}
		receivedAt := s.now()
		e, err := Decode(b)
		if err != nil {
			return Summary{}, err
		}
		if err := a.Handle(e, receivedAt); err != nil {
			return Summary{}, err
		}
	}
	return Finalize(a.Statistics()), nil
}
