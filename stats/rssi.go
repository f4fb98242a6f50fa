// Package stats summarizes RSSI samples gathered during a leader's news
// round, for logging only — it never influences which neighbor is chosen
// as a node's parent (that stays the protocol engine's own
// highest-rssi-wins rule).
package stats

import (
	"github.com/montanaflynn/stats"
)

// Summary is a read-only digest of one round's RSSI samples.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
}

// Summarize computes a Summary over samples. An empty input yields the
// zero Summary.
func Summarize(samples []int32) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	data := make(stats.Float64Data, len(samples))
	for i, s := range samples {
		data[i] = float64(s)
	}
	mean, _ := data.Mean()
	median, _ := data.Median()
	stddev, _ := data.StandardDeviation()
	return Summary{Count: len(samples), Mean: mean, Median: median, StdDev: stddev}
}
