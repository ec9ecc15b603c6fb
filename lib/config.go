package ipcbench

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultSocketLocation = "/tmp/zmqpub0.sock"
	DefaultPeriodMicros   = 16667
	DefaultMessageSize    = 5000
	DefaultMessageCount   = 100
	DefaultReportTopic    = "metrics"
	DefaultListenAddr     = ":8001"
)

type LogConfig struct {
	Level string
	JSON  bool
}

type PublisherConfig struct {
	Run RunConfig
	Log LogConfig
}

type SubscriberConfig struct {
	Endpoint       string
	MeasureLatency bool
	Broker         string
	ReportTopic    string
	Log            LogConfig
}

type OrchestratorConfig struct {
	Broker      string
	ReportTopic string
	ListenAddr  string
	Log         LogConfig
}

func LoadPublisherConfig(name string, args []string) (PublisherConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	endpoint := fs.String("socket-location", env("IPCBENCH_SOCKET_LOCATION", DefaultSocketLocation), "location of the ZeroMQ socket to bind to")
	period := fs.Int64("period", envInt64("IPCBENCH_PERIOD_MICROS", DefaultPeriodMicros), "period in microseconds between messages")
	size := fs.Int("message-size", envInt("IPCBENCH_MESSAGE_SIZE", DefaultMessageSize), "size of each message in bytes")
	count := fs.Uint("number-of-messages", uint(envInt("IPCBENCH_NUMBER_OF_MESSAGES", DefaultMessageCount)), "number of messages to send")
	logCfg := logFlags(fs)
	if err := fs.Parse(args); err != nil {
		return PublisherConfig{}, err
	}
	if *count > uint(^uint32(0)) {
		return PublisherConfig{}, fmt.Errorf("number-of-messages %d exceeds %d", *count, ^uint32(0))
	}

	cfg := PublisherConfig{
		Run: RunConfig{
			Endpoint:    strings.TrimSpace(*endpoint),
			Period:      time.Duration(*period) * time.Microsecond,
			PayloadSize: *size,
			Count:       uint32(*count),
		},
		Log: *logCfg,
	}
	if err := cfg.Run.Validate(); err != nil {
		return PublisherConfig{}, err
	}
	return cfg, nil
}

func (c RunConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("socket location is required")
	}
	if c.Period < 0 {
		return errors.New("period must be >= 0")
	}
	if c.PayloadSize < 0 {
		return errors.New("message size must be >= 0")
	}
	if c.Count == 0 {
		return errors.New("number of messages must be >= 1")
	}
	return nil
}

func LoadSubscriberConfig(name string, args []string) (SubscriberConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	endpoint := fs.String("socket-location", env("IPCBENCH_SOCKET_LOCATION", DefaultSocketLocation), "location of the ZeroMQ socket to connect to")
	latency := fs.Bool("enable-latency-measurement", envBool("IPCBENCH_ENABLE_LATENCY", false), "enable latency measurement")
	topic := fs.String("report-topic", env("IPCBENCH_REPORT_TOPIC", DefaultReportTopic), "kafka topic for run reports")
	logCfg := logFlags(fs)
	if err := fs.Parse(args); err != nil {
		return SubscriberConfig{}, err
	}

	cfg := SubscriberConfig{
		Endpoint:       strings.TrimSpace(*endpoint),
		MeasureLatency: *latency,
		Broker:         env("BROKER_IP", ""),
		ReportTopic:    strings.TrimSpace(*topic),
		Log:            *logCfg,
	}
	if cfg.Endpoint == "" {
		return SubscriberConfig{}, errors.New("socket location is required")
	}
	if cfg.Broker != "" && cfg.ReportTopic == "" {
		return SubscriberConfig{}, errors.New("report topic is required when BROKER_IP is set")
	}
	return cfg, nil
}

func LoadOrchestratorConfig(name string, args []string) (OrchestratorConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	listen := fs.String("listen", env("IPCBENCH_LISTEN_ADDR", DefaultListenAddr), "http listen address")
	topic := fs.String("report-topic", env("IPCBENCH_REPORT_TOPIC", DefaultReportTopic), "kafka topic for run reports")
	logCfg := logFlags(fs)
	if err := fs.Parse(args); err != nil {
		return OrchestratorConfig{}, err
	}

	cfg := OrchestratorConfig{
		Broker:      env("BROKER_IP", ""),
		ReportTopic: strings.TrimSpace(*topic),
		ListenAddr:  strings.TrimSpace(*listen),
		Log:         *logCfg,
	}
	if cfg.Broker == "" {
		return OrchestratorConfig{}, errors.New("BROKER_IP is required")
	}
	if cfg.ReportTopic == "" {
		return OrchestratorConfig{}, errors.New("report topic is required")
	}
	if cfg.ListenAddr == "" {
		return OrchestratorConfig{}, errors.New("listen address is required")
	}
	return cfg, nil
}

func logFlags(fs *flag.FlagSet) *LogConfig {
	cfg := &LogConfig{}
	fs.StringVar(&cfg.Level, "log-level", strings.ToLower(env("IPCBENCH_LOG_LEVEL", "info")), "debug|info|warn|error")
	fs.BoolVar(&cfg.JSON, "log-json", envBool("IPCBENCH_LOG_JSON", false), "emit logs as JSON")
	return cfg
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
