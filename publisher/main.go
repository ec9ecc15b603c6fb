package main

import (
	"context"
	"fmt"
	"os"

	ipcbench "github.com/achyuta116/big-data-projects/ipcbench/lib"
)

func main() {
	cfg, err := ipcbench.LoadPublisherConfig(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := ipcbench.BuildLogger(cfg.Log)

	fmt.Println("Socket location:", cfg.Run.Endpoint)
	fmt.Println("Period:", cfg.Run.Period.Microseconds(), "microseconds")
	fmt.Println("Message size:", cfg.Run.PayloadSize, "bytes")
	fmt.Println("Number of messages:", cfg.Run.Count)

	ctx := context.Background()
	pub, err := ipcbench.BindPublisher(ctx, cfg.Run.Endpoint, logger)
	if err != nil {
		logger.Error("bind failed", "error", err)
		os.Exit(1)
	}
	defer pub.Close()

	if err := ipcbench.NewPublisher(pub, logger).Run(ctx, cfg.Run); err != nil {
		logger.Error("benchmark run failed", "error", err)
		pub.Close()
		os.Exit(1)
	}
	fmt.Println("Sent", cfg.Run.Count, "messages")
}
