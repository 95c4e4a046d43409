package reader

import (
	"fmt"
	"strings"
	"time"
)

// ParseStats summarises a finished parse.
type ParseStats struct {
	TotalRecords   uint64
	Elapsed        time.Duration
	BytesProcessed int64
}

// RecordsPerSecond returns the decode rate, or 0 for an instantaneous parse.
func (s ParseStats) RecordsPerSecond() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.TotalRecords) / secs
}

// BytesPerSecond returns the throughput in bytes per second.
func (s ParseStats) BytesPerSecond() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.BytesProcessed) / secs
}

// ThroughputGBps returns the throughput in GiB per second.
func (s ParseStats) ThroughputGBps() float64 {
	return s.BytesPerSecond() / (1 << 30)
}

// String renders the statistics report printed by the command line tools.
func (s ParseStats) String() string {
	rule := strings.Repeat("=", 70)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nParse Statistics\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total records:  %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "Bytes:          %d\n", s.BytesProcessed)
	fmt.Fprintf(&b, "Elapsed time:   %.6f seconds\n", s.Elapsed.Seconds())
	fmt.Fprintf(&b, "Records/sec:    %d rec/s\n", uint64(s.RecordsPerSecond()))
	fmt.Fprintf(&b, "Throughput:     %.3f GB/s\n", s.ThroughputGBps())
	b.WriteString(rule)
	return b.String()
}
