package stream

import (
	"math"
	"testing"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/stretchr/testify/assert"
)

func TestSine(t *testing.T) {
	s := Sine{}
	assert.Equal(t, 1, s.Size())
	for i := int64(0); i < 10; i++ {
		assert.Equal(t, xmath.Vector{math.Sin(float64(i))}, s.At(i))
	}
}

func TestLogins(t *testing.T) {

	type event struct {
		hour   float64
		action float64
		user   int
	}

	type test struct {
		source *Logins
		events []event
	}

	tests := map[string]test{
		"single-user-day-job": {
			source: SingleUserDayJob(1),
			events: []event{
				{hour: 8, action: 0, user: 1000},
				{hour: 17, action: 2, user: 1000},
			},
		},
		"two-user-overlap": {
			source: TwoUserOverlap(1),
			events: []event{
				{hour: 8, action: 0, user: 1000},
				{hour: 13, action: 0, user: 1001},
				{hour: 17, action: 2, user: 1000},
				{hour: 22, action: 2, user: 1001},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 7, tt.source.Size())
			for i := int64(0); i < 20; i++ {
				v := tt.source.At(i)
				e := tt.events[int(i)%len(tt.events)]
				assert.Equal(t, 7, len(v))
				assert.Equal(t, e.hour/24, v[0])
				assert.True(t, v[1] >= 0 && v[1] < 1)
				assert.Equal(t, math.Round(v[1]*60)/60, v[1])
				assert.Equal(t, e.action, v[2])
				assert.Equal(t, Identity(e.user), v[3:])
			}
		})
	}
}

func TestLogins_Deterministic(t *testing.T) {
	a := TwoUserOverlap(42)
	b := TwoUserOverlap(42)
	c := TwoUserOverlap(43)

	var differ bool
	for i := int64(0); i < 50; i++ {
		assert.Equal(t, a.At(i), b.At(i))
		assert.Equal(t, a.At(i), a.At(i))
		if a.At(i)[1] != c.At(i)[1] {
			differ = true
		}
	}
	assert.True(t, differ)
}

func TestIdentity(t *testing.T) {
	id := Identity(1000)
	assert.Equal(t, IdentityLength, len(id))
	assert.Equal(t, math.Sin(1000), id[0])
	assert.Equal(t, math.Sin(4000), id[3])
	assert.NotEqual(t, Identity(1001), id)
}
