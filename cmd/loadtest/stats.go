package main

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

type Stats struct {
	mu        sync.Mutex
	success   int64
	failed    int64
	latencies []time.Duration
}

func (s *Stats) Record(d time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.success++
	} else {
		s.failed++
	}
	s.latencies = append(s.latencies, d)
}

func (s *Stats) Counts() (success, failed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success, s.failed
}

// Percentile returns the latency below which the fraction p of requests fall.
func (s *Stats) Percentile(p float64) time.Duration {
	s.mu.Lock()
	sorted := slices.Clone(s.latencies)
	s.mu.Unlock()
	if len(sorted) == 0 {
		return 0
	}
	slices.Sort(sorted)
	i := int(float64(len(sorted)) * p)
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}

func (s *Stats) Report(elapsed time.Duration) string {
	success, failed := s.Counts()
	total := success + failed

	var b strings.Builder
	fmt.Fprintln(&b, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(&b, "LOAD TEST RESULTS")
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Duration: %.2f seconds\n", elapsed.Seconds())
	fmt.Fprintf(&b, "Total requests: %d\n", total)
	fmt.Fprintf(&b, "Successful: %d\n", success)
	fmt.Fprintf(&b, "Failed: %d\n", failed)
	if total > 0 {
		fmt.Fprintf(&b, "Success rate: %.2f%%\n", float64(success)/float64(total)*100)
	}
	if elapsed > 0 {
		fmt.Fprintf(&b, "Actual RPS: %.2f\n", float64(total)/elapsed.Seconds())
	}
	fmt.Fprintf(&b, "P50: %s\nP95: %s\nP99: %s\n", s.Percentile(0.50), s.Percentile(0.95), s.Percentile(0.99))
	return b.String()
}
