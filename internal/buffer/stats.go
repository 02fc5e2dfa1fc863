package buffer

import (
	"fmt"
	"math"
)

// Stats keeps running statistics of a stream of numbers.
type Stats struct {
	count          int
	min, max       float64
	last           float64
	mean, dSquared float64
	ema            float64
}

// NewStats creates a new Stats.
func NewStats() *Stats {
	return &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// Push adds another element to the set.
func (s *Stats) Push(v float64) {
	s.count++
	diff := (v - s.mean) / float64(s.count)
	mean := s.mean + diff
	s.dSquared += (v - mean) * (v - s.mean)
	s.mean = mean

	w := 2 / float64(s.count+1)
	s.ema = v*w + s.ema*(1-w)

	if s.min > v {
		s.min = v
	}
	if s.max < v {
		s.max = v
	}
	s.last = v
}

// Count returns the number of elements.
func (s Stats) Count() int {
	return s.count
}

// Mean returns the average value of the set.
func (s Stats) Mean() float64 {
	return s.mean
}

// EMA is the exponential moving average of the set.
func (s Stats) EMA() float64 {
	return s.ema
}

// Min returns the smallest element, 0 for an empty set.
func (s Stats) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

// Max returns the biggest element, 0 for an empty set.
func (s Stats) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Last returns the last element added.
func (s Stats) Last() float64 {
	return s.last
}

// Variance is the population variance of the set.
func (s Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}
	return s.dSquared / float64(s.count)
}

// StDev is the standard deviation of the set.
func (s Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// StatsCollector is a collection of Stats variables.
// This enabled multi-dimensional tracking.
type StatsCollector struct {
	stats []*Stats
}

// NewStatsCollector creates a new Stats collector.
func NewStatsCollector(dim int) *StatsCollector {
	stats := make([]*Stats, dim)
	for i := range stats {
		stats[i] = NewStats()
	}
	return &StatsCollector{
		stats: stats,
	}
}

// Push pushes each value to the corresponding dimension.
func (sc *StatsCollector) Push(v ...float64) {
	if len(v) != len(sc.stats) {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(v), len(sc.stats)))
	}
	for i, s := range sc.stats {
		s.Push(v[i])
	}
}

// Stats returns the stats of each dimension.
func (sc *StatsCollector) Stats() []*Stats {
	return sc.stats
}
