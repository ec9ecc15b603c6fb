package ipcbench

import (
	"context"
	"log/slog"
	"time"
)

const (
	// NumStartup is the size of the warm-up burst that gives a subscriber time
	// to finish connecting before the measured run begins.
	NumStartup     = 5
	StartupSpacing = 100 * time.Millisecond
)

// RunConfig is fixed for the lifetime of a run.
type RunConfig struct {
	Endpoint    string
	Period      time.Duration
	PayloadSize int
	Count       uint32
}

type Publisher struct {
	sender Sender
	logger *slog.Logger
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

func NewPublisher(sender Sender, logger *slog.Logger) *Publisher {
	return &Publisher{
		sender: sender,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Run emits the warm-up burst followed by the measured run. The first send or
// encode failure aborts the run; nothing is resumed.
func (p *Publisher) Run(ctx context.Context, cfg RunConfig) error {
	content := Filler(cfg.PayloadSize)

	for i := uint32(0); i < NumStartup; i++ {
		if err := p.sleep(ctx, StartupSpacing); err != nil {
			return err
		}
		p.logger.Info("sending startup message", "id", i)
		if err := p.send(Envelope{
			Kind:          KindStartup,
			DeclaredTotal: NumStartup,
			SequenceID:    i,
			Payload:       content,
		}); err != nil {
			return err
		}
	}

	p.logger.Info("sending measured run", "count", cfg.Count, "period", cfg.Period, "message_size", cfg.PayloadSize)
	for i := uint32(0); i < cfg.Count; i++ {
		// coarse pacing, drift is not compensated
		if err := p.sleep(ctx, cfg.Period); err != nil {
			return err
		}
		if err := p.send(Envelope{
			Kind:                Classify(i, cfg.Count),
			SendTimestampMicros: p.now().UnixMicro(),
			DeclaredTotal:       cfg.Count,
			SequenceID:          i,
			Payload:             content,
		}); err != nil {
			return err
		}
	}
	p.logger.Info("measured run sent", "count", cfg.Count)
	return nil
}

func (p *Publisher) send(e Envelope) error {
	b, err := Encode(e)
	if err != nil {
		return err
	}
	return p.sender.Send(b)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
