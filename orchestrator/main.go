package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ipcbench "github.com/achyuta116/big-data-projects/ipcbench/lib"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

func consumeReports(ctx context.Context, cfg ipcbench.OrchestratorConfig, store *ipcbench.ReportStore, logger *slog.Logger) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.ReportTopic,
	})
	defer r.Close()

	return ipcbench.ConsumeReports(ctx, r, store, logger)
}

func main() {
	cfg, err := ipcbench.LoadOrchestratorConfig(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := ipcbench.BuildLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := ipcbench.NewReportStore()
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           ipcbench.NewReportRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumeReports(gctx, cfg, store, logger)
	})
	g.Go(func() error {
		logger.Info("orchestrator listening", "addr", cfg.ListenAddr, "topic", cfg.ReportTopic)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("orchestrator failed", "error", err)
		os.Exit(1)
	}
	logger.Info("exited gracefully")
}
