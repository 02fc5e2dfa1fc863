package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Push(t *testing.T) {

	type test struct {
		values []float64
		mean   float64
		min    float64
		max    float64
		stDev  float64
	}

	tests := map[string]test{
		"empty": {
			values: []float64{},
		},
		"single": {
			values: []float64{3},
			mean:   3,
			min:    3,
			max:    3,
		},
		"symmetric": {
			values: []float64{-2, -1, 0, 1, 2},
			mean:   0,
			min:    -2,
			max:    2,
			stDev:  math.Sqrt2,
		},
		"losses": {
			values: []float64{0.5, 0.25, 0.125, 0.125},
			mean:   0.25,
			min:    0.125,
			max:    0.5,
			stDev:  math.Sqrt(0.0234375),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stats := NewStats()
			for _, v := range tt.values {
				stats.Push(v)
			}
			assert.Equal(t, len(tt.values), stats.Count())
			assert.InDelta(t, tt.mean, stats.Mean(), 1e-12)
			assert.Equal(t, tt.min, stats.Min())
			assert.Equal(t, tt.max, stats.Max())
			assert.InDelta(t, tt.stDev, stats.StDev(), 1e-12)
			if len(tt.values) > 0 {
				assert.Equal(t, tt.values[len(tt.values)-1], stats.Last())
			}
		})
	}
}

func TestStats_EMA(t *testing.T) {
	stats := NewStats()
	for i := 0; i < 100; i++ {
		stats.Push(float64(i))
	}
	// the ema follows the latest values closer than the mean
	assert.True(t, stats.EMA() > stats.Mean())
	assert.True(t, stats.EMA() < stats.Last())
}

func TestStatsCollector(t *testing.T) {
	sc := NewStatsCollector(2)
	sc.Push(1, 10)
	sc.Push(3, 30)

	assert.Equal(t, 2, len(sc.Stats()))
	assert.Equal(t, 2.0, sc.Stats()[0].Mean())
	assert.Equal(t, 20.0, sc.Stats()[1].Mean())
	assert.Panics(t, func() {
		sc.Push(1)
	})
}
