package main

import (
	"context"
	"fmt"
	"os"
	"time"

	ipcbench "github.com/achyuta116/big-data-projects/ipcbench/lib"
)

func main() {
	cfg, err := ipcbench.LoadSubscriberConfig(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := ipcbench.BuildLogger(cfg.Log)

	fmt.Println("Socket location:", cfg.Endpoint)
	fmt.Println("Enable latency measurement:", cfg.MeasureLatency)

	ctx := context.Background()
	sub, err := ipcbench.ConnectSubscriber(ctx, cfg.Endpoint, logger)
	if err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}

	summary, err := ipcbench.NewSubscriber(sub, cfg.MeasureLatency, logger).Run()
	sub.Close()
	if err != nil {
		logger.Error("benchmark run failed", "error", err)
		os.Exit(1)
	}
	ipcbench.WriteAnalysis(os.Stdout, summary)

	if cfg.Broker == "" {
		return
	}
	report := ipcbench.NewReport(cfg.Endpoint, summary, time.Now())
	sink := ipcbench.NewKafkaReportSink(cfg.Broker, cfg.ReportTopic)
	defer sink.Close()
	if err := sink.Publish(ctx, report); err != nil {
		logger.Error("report publish failed", "error", err, "run_id", report.RunID)
		return
	}
	logger.Info("report published", "run_id", report.RunID, "topic", cfg.ReportTopic)
}
