package ipcbench

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestBindPublisherFailure(t *testing.T) {
	endpoint := filepath.Join(t.TempDir(), "missing", "dir", "pub.sock")
	_, err := BindPublisher(context.Background(), endpoint, testLogger())
	if !errors.Is(err, ErrBind) {
		t.Fatalf("expected ErrBind, got %v", err)
	}
}

func TestZMQRun(t *testing.T) {
	if testing.Short() {
		t.Skip("uses real ipc sockets and the warm-up burst")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	endpoint := filepath.Join(t.TempDir(), "zmqpub0.sock")
	pub, err := BindPublisher(ctx, endpoint, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	sub, err := ConnectSubscriber(ctx, endpoint, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	cfg := RunConfig{Endpoint: endpoint, Period: 500 * time.Microsecond, PayloadSize: 256, Count: 20}
	var sum Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return NewPublisher(pub, testLogger()).Run(gctx, cfg)
	})
	g.Go(func() error {
		var err error
		sum, err = NewSubscriber(sub, true, testLogger()).Run()
		return err
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if sum.DeclaredTotal != 20 || sum.PayloadSize != 256 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Received != 20 {
		t.Fatalf("received %d of 20 over ipc", sum.Received)
	}
	if sum.Latency == nil || sum.Latency.Samples != 18 {
		t.Fatalf("expected 18 latency samples, got %+v", sum.Latency)
	}
}

func TestZMQSubscriberStartsBeforePublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a late publisher bind")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	endpoint := filepath.Join(t.TempDir(), "late.sock")
	connected := make(chan error, 1)
	var sub *ZMQSubscriber
	go func() {
		var err error
		sub, err = ConnectSubscriber(ctx, endpoint, testLogger())
		connected <- err
	}()

	time.Sleep(3500 * time.Millisecond)
	pub, err := BindPublisher(ctx, endpoint, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	if err := <-connected; err != nil {
		t.Fatalf("subscriber gave up before the publisher bound: %v", err)
	}
	defer sub.Close()

	cfg := RunConfig{Endpoint: endpoint, Period: 500 * time.Microsecond, PayloadSize: 32, Count: 10}
	var sum Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return NewPublisher(pub, testLogger()).Run(gctx, cfg)
	})
	g.Go(func() error {
		var err error
		sum, err = NewSubscriber(sub, false, testLogger()).Run()
		return err
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if sum.Received != 10 || sum.DeclaredTotal != 10 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}
