package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// latencyRecorder aggregates response times for the run summary.
// Latencies are tracked in microseconds, 1us to 60s, 3 significant digits.
type latencyRecorder struct {
	histogram *hdrhistogram.Histogram
	count     int64
}

func newLatencyRecorder() *latencyRecorder {
	return &latencyRecorder{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

func (l *latencyRecorder) record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > 60_000_000 {
		us = 60_000_000
	}
	_ = l.histogram.RecordValue(us)
	l.count++
}

// LatencySummary reports the latency distribution of a run.
type LatencySummary struct {
	Min  time.Duration
	Mean time.Duration
	P95  time.Duration
	P99  time.Duration
	Max  time.Duration
}

func (l *latencyRecorder) summary() *LatencySummary {
	if l.count == 0 {
		return nil
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return &LatencySummary{
		Min:  us(l.histogram.Min()),
		Mean: time.Duration(l.histogram.Mean()) * time.Microsecond,
		P95:  us(l.histogram.ValueAtQuantile(95)),
		P99:  us(l.histogram.ValueAtQuantile(99)),
		Max:  us(l.histogram.Max()),
	}
}
