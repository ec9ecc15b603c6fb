package ipcbench

import (
	"testing"
	"time"
)

func TestLoadPublisherConfigDefaults(t *testing.T) {
	cfg, err := LoadPublisherConfig("publisher", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := RunConfig{
		Endpoint:    DefaultSocketLocation,
		Period:      16667 * time.Microsecond,
		PayloadSize: 5000,
		Count:       100,
	}
	if cfg.Run != want {
		t.Fatalf("got %+v want %+v", cfg.Run, want)
	}
	if cfg.Log.Level != "info" || cfg.Log.JSON {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadPublisherConfigEnvAndFlags(t *testing.T) {
	t.Setenv("IPCBENCH_PERIOD_MICROS", "1000")
	t.Setenv("IPCBENCH_MESSAGE_SIZE", "not-a-number")
	cfg, err := LoadPublisherConfig("publisher", []string{"-number-of-messages", "7", "-socket-location", "tcp://127.0.0.1:5555"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Period != time.Millisecond {
		t.Fatalf("period = %s", cfg.Run.Period)
	}
	if cfg.Run.PayloadSize != DefaultMessageSize {
		t.Fatalf("invalid env value should fall back, got %d", cfg.Run.PayloadSize)
	}
	if cfg.Run.Count != 7 || cfg.Run.Endpoint != "tcp://127.0.0.1:5555" {
		t.Fatalf("unexpected run config %+v", cfg.Run)
	}
}

func TestLoadPublisherConfigRejects(t *testing.T) {
	for _, args := range [][]string{
		{"-number-of-messages", "0"},
		{"-message-size", "-1"},
		{"-period", "-5"},
		{"-socket-location", " "},
		{"-number-of-messages", "4294967296"},
		{"-unknown"},
	} {
		if _, err := LoadPublisherConfig("publisher", args); err == nil {
			t.Errorf("args %v: expected error", args)
		}
	}
}

func TestLoadSubscriberConfig(t *testing.T) {
	t.Setenv("IPCBENCH_ENABLE_LATENCY", "yes")
	t.Setenv("BROKER_IP", "kafka:9092")
	cfg, err := LoadSubscriberConfig("subscriber", []string{"-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.MeasureLatency || cfg.Broker != "kafka:9092" || cfg.ReportTopic != DefaultReportTopic {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}

	cfg, err = LoadSubscriberConfig("subscriber", []string{"-enable-latency-measurement=false"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MeasureLatency {
		t.Fatal("flag should override env")
	}

	if _, err := LoadSubscriberConfig("subscriber", []string{"-report-topic", ""}); err == nil {
		t.Fatal("empty report topic with a broker should be rejected")
	}
}

func TestLoadOrchestratorConfig(t *testing.T) {
	t.Setenv("BROKER_IP", "")
	if _, err := LoadOrchestratorConfig("orchestrator", nil); err == nil {
		t.Fatal("missing BROKER_IP should be rejected")
	}
	t.Setenv("BROKER_IP", "kafka:9092")
	cfg, err := LoadOrchestratorConfig("orchestrator", []string{"-listen", ":9000"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":9000" || cfg.ReportTopic != DefaultReportTopic {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"/tmp/zmqpub0.sock":    "ipc:///tmp/zmqpub0.sock",
		"ipc:///tmp/a.sock":    "ipc:///tmp/a.sock",
		"tcp://127.0.0.1:5555": "tcp://127.0.0.1:5555",
		"inproc://bench":       "inproc://bench",
		"  relative.sock ":     "ipc://relative.sock",
		"":                     "",
	}
	for in, want := range tests {
		if got := NormalizeEndpoint(in); got != want {
			t.Errorf("NormalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
