package ipcbench

import "sort"

// RunStatistics accumulates what the subscriber observes during one measured
// run. Timestamps are receiver-local microseconds.
type RunStatistics struct {
	Received            uint32
	AnalysisBeginMicros int64
	AnalysisEndMicros   int64
	DeclaredTotal       uint32
	PayloadSize         int
	LatencyEnabled      bool
	LatencySamples      []int64
}

// LatencyResult summarizes the latency samples of a run, in microseconds.
type LatencyResult struct {
	Samples int     `json:"samples"`
	Total   int64   `json:"total_latency_micros"`
	Mean    float64 `json:"mean_latency_micros"`
	Median  float64 `json:"median_latency_micros"`
	Min     int64   `json:"min_latency_micros"`
	Max     int64   `json:"max_latency_micros"`
}

// Summary is the finalized result of a run. When the measured window has no
// positive duration the throughput figures are undefined: ThroughputDefined is
// false and both rates are zero.
type Summary struct {
	DeclaredTotal         uint32         `json:"number_of_messages_sent"`
	Received              uint32         `json:"number_of_messages_received"`
	Lost                  uint32         `json:"number_of_messages_lost"`
	DurationMicros        int64          `json:"duration_micros"`
	PayloadSize           int            `json:"message_size"`
	TotalBytes            uint64         `json:"total_data_bytes"`
	ThroughputDefined     bool           `json:"throughput_defined"`
	ThroughputBytesPerSec float64        `json:"throughput_bytes_per_second"`
	ThroughputMsgsPerSec  float64        `json:"throughput_messages_per_second"`
	LatencyEnabled        bool           `json:"latency_enabled"`
	Latency               *LatencyResult `json:"latency,omitempty"`
}

// Finalize computes the summary of a completed run. It does not modify s.
func Finalize(s RunStatistics) Summary {
	sum := Summary{
		DeclaredTotal:  s.DeclaredTotal,
		Received:       s.Received,
		DurationMicros: s.AnalysisEndMicros - s.AnalysisBeginMicros,
		PayloadSize:    s.PayloadSize,
		TotalBytes:     uint64(s.Received) * uint64(max(s.PayloadSize, 0)),
		LatencyEnabled: s.LatencyEnabled,
	}
	if s.DeclaredTotal > s.Received {
		sum.Lost = s.DeclaredTotal - s.Received
	}
	if sum.DurationMicros > 0 {
		seconds := float64(sum.DurationMicros) / 1_000_000
		sum.ThroughputDefined = true
		sum.ThroughputBytesPerSec = float64(sum.TotalBytes) / seconds
		sum.ThroughputMsgsPerSec = float64(sum.Received) / seconds
	}
	if s.LatencyEnabled {
		res := calculateLatency(s.LatencySamples)
		sum.Latency = &res
	}
	return sum
}

func calculateLatency(samples []int64) LatencyResult {
	var total int64
	for _, v := range samples {
		total += v
	}
	return LatencyResult{
		Samples: len(samples),
		Total:   total,
		Mean:    mean(samples),
		Median:  median(samples),
		Min:     minimum(samples),
		Max:     maximum(samples),
	}
}

func minimum(arr []int64) int64 {
	if len(arr) == 0 {
		return 0
	}

	lo := arr[0]
	for _, value := range arr {
		if value < lo {
			lo = value
		}
	}
	return lo
}

func maximum(arr []int64) int64 {
	if len(arr) == 0 {
		return 0
	}

	hi := arr[0]
	for _, value := range arr {
		if value > hi {
			hi = value
		}
	}
	return hi
}

func median(arr []int64) float64 {
	if len(arr) == 0 {
		return 0
	}

	sorted := append([]int64(nil), arr...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2.0
	}
	return float64(sorted[mid])
}

func mean(arr []int64) float64 {
	if len(arr) == 0 {
		return 0
	}

	var sum float64
	for _, value := range arr {
		sum += float64(value)
	}
	return sum / float64(len(arr))
}
