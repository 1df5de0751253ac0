// Package metrics summarizes step latencies of a suite run.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Latency records step durations in microseconds
type Latency struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	responses int64
	errors    int64
}

// Summary is a point-in-time view of recorded latencies
type Summary struct {
	Count     int64         `json:"count"`
	Responses int64         `json:"responses"`
	Errors    int64         `json:"errors"`
	Min       time.Duration `json:"min"`
	Max       time.Duration `json:"max"`
	Mean      time.Duration `json:"mean"`
	P50       time.Duration `json:"p50"`
	P95       time.Duration `json:"p95"`
	P99       time.Duration `json:"p99"`
}

func NewLatency() *Latency {
	return &Latency{
		// 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Record adds one settled step. failed marks a step that settled with an error.
func (l *Latency) Record(d time.Duration, failed bool) {
	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.histogram.RecordValue(us)
	if failed {
		l.errors++
	} else {
		l.responses++
	}
}

func (l *Latency) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Summary{
		Count:     l.histogram.TotalCount(),
		Responses: l.responses,
		Errors:    l.errors,
	}
	if s.Count == 0 {
		return s
	}

	s.Min = us(l.histogram.Min())
	s.Max = us(l.histogram.Max())
	s.Mean = us(int64(l.histogram.Mean()))
	s.P50 = us(l.histogram.ValueAtQuantile(50))
	s.P95 = us(l.histogram.ValueAtQuantile(95))
	s.P99 = us(l.histogram.ValueAtQuantile(99))
	return s
}

func us(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
