package ipcbench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Report is the record shipped to the report topic after a run completes.
type Report struct {
	RunID      string    `json:"run_id"`
	Host       string    `json:"host"`
	Endpoint   string    `json:"endpoint"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
}

func NewReport(endpoint string, summary Summary, finishedAt time.Time) Report {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}
	return Report{
		RunID:      uuid.NewString(),
		Host:       hostname,
		Endpoint:   NormalizeEndpoint(endpoint),
		FinishedAt: finishedAt.UTC(),
		Summary:    summary,
	}
}

// WriteAnalysis prints the human-readable summary of a run.
func WriteAnalysis(w io.Writer, s Summary) {
	fmt.Fprintln(w, "Analysis: ")
	fmt.Fprintf(w, "  Number of Messages Sent: %d\n", s.DeclaredTotal)
	fmt.Fprintf(w, "  Number of Messages Received: %d\n", s.Received)
	if s.Lost > 0 {
		fmt.Fprintf(w, "  Number of Messages Lost: %d\n", s.Lost)
	}
	fmt.Fprintf(w, "  Time from first to last message received: %d microseconds\n", s.DurationMicros)
	fmt.Fprintf(w, "  Message Size: %d bytes\n", s.PayloadSize)
	fmt.Fprintf(w, "  Total Data Bytes: %d bytes\n", s.TotalBytes)
	if s.ThroughputDefined {
		fmt.Fprintf(w, "  Throughput: %f bytes/second\n", s.ThroughputBytesPerSec)
		fmt.Fprintf(w, "  Throughput: %f messages/second\n", s.ThroughputMsgsPerSec)
	} else {
		fmt.Fprintln(w, "  Throughput: undefined (zero measurement window)")
	}

	if !s.LatencyEnabled || s.Latency == nil {
		fmt.Fprintln(w, "  Latency Measurement is disabled.")
		return
	}
	if s.Latency.Samples == 0 {
		fmt.Fprintln(w, "  Latency: no regular messages sampled")
		return
	}
	fmt.Fprintf(w, "  Total Latency: %d microseconds\n", s.Latency.Total)
	fmt.Fprintf(w, "  Average Latency: %f microseconds\n", s.Latency.Mean)
	fmt.Fprintf(w, "  Median Latency: %f microseconds\n", s.Latency.Median)
	fmt.Fprintf(w, "  Min Latency: %d microseconds\n", s.Latency.Min)
	fmt.Fprintf(w, "  Max Latency: %d microseconds\n", s.Latency.Max)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaReportSink publishes reports to a Kafka topic.
type KafkaReportSink struct {
	w messageWriter
}

func NewKafkaReportSink(broker, topic string) *KafkaReportSink {
	return &KafkaReportSink{w: &kafka.Writer{
		Addr:        kafka.TCP(broker),
		Topic:       topic,
		Balancer:    &kafka.LeastBytes{},
		Compression: kafka.Lz4,
	}}
}

func (s *KafkaReportSink) Publish(ctx context.Context, r Report) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", r.RunID, err)
	}
	if err := s.w.WriteMessages(ctx, kafka.Message{Key: []byte(r.RunID), Value: value}); err != nil {
		return fmt.Errorf("write report %s: %w", r.RunID, err)
	}
	return nil
}

func (s *KafkaReportSink) Close() error {
	return s.w.Close()
}

// DecodeReport parses a report read from the report topic.
func DecodeReport(b []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	if r.RunID == "" {
		return Report{}, fmt.Errorf("decode report: missing run_id")
	}
	return r, nil
}
