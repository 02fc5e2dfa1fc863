package ml

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T, in, out int, activation Activation) *Gate {
	gate, err := NewGate(in, out, activation, Uniform(rand.New(rand.NewSource(7)), -1, 1))
	require.NoError(t, err)
	return gate
}

func TestNewGate(t *testing.T) {
	gate := newTestGate(t, 3, 2, TanH)
	assert.Equal(t, 3, gate.InputSize())
	assert.Equal(t, 2, gate.OutputSize())
	assert.Equal(t, TanH, gate.Activation())

	for _, p := range gate.params() {
		assert.True(t, p >= -1 && p < 1)
	}

	_, err := NewGate(0, 2, TanH, Uniform(rand.New(rand.NewSource(7)), 0, 1))
	assert.True(t, errors.Is(err, InvalidConfigErr))
	_, err = NewGate(2, -1, TanH, Uniform(rand.New(rand.NewSource(7)), 0, 1))
	assert.True(t, errors.Is(err, InvalidConfigErr))
}

func TestNewGate_InitOrder(t *testing.T) {
	k := 0.0
	gate, err := NewGate(2, 2, Identity, func() float64 {
		k++
		return k
	})
	require.NoError(t, err)
	assert.Equal(t, xmath.Matrix{{1, 2}, {3, 4}}, gate.weight)
	assert.Equal(t, xmath.Vector{5, 6}, gate.bias)
}

func TestGate_Apply(t *testing.T) {
	for _, activation := range []Activation{Identity, Sigmoid, SoftSign, TanH} {
		t.Run(activation.String(), func(t *testing.T) {
			gate := newTestGate(t, 3, 4, activation)
			input := xmath.Vector{0.3, -1.2, 2.5}

			in, out := gate.Apply(input)

			require.Equal(t, 4, len(in))
			require.Equal(t, 4, len(out))
			for i := range gate.weight {
				var sum float64
				for j := range input {
					sum += gate.weight[i][j] * input[j]
				}
				sum += gate.bias[i]
				assert.Equal(t, sum, in[i])
				assert.Equal(t, activation.F(sum), out[i])
			}
		})
	}
}

func TestGate_ApplyReturnsFreshVectors(t *testing.T) {
	gate := newTestGate(t, 2, 2, Sigmoid)
	input := xmath.Vector{1, 2}

	in, out := gate.Apply(input)
	in[0] = 100
	out[0] = 100

	in2, out2 := gate.Apply(input)
	assert.NotEqual(t, 100.0, in2[0])
	assert.NotEqual(t, 100.0, out2[0])
	assert.Equal(t, xmath.Vector{1, 2}, input)
}

func TestGate_WriteLoad(t *testing.T) {
	gate := newTestGate(t, 3, 2, Sigmoid)

	var buf bytes.Buffer
	require.NoError(t, gate.Write(&buf))

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, ",\n"))
	assert.Equal(t, 3*2+2, strings.Count(line, ","))

	loaded := newTestGate(t, 3, 2, Sigmoid)
	loaded.setParams(make([]float64, 8))
	require.NoError(t, loaded.Load(line))

	assert.Equal(t, gate.weight, loaded.weight)
	assert.Equal(t, gate.bias, loaded.bias)
}

func TestGate_Load(t *testing.T) {

	type test struct {
		line   string
		weight xmath.Matrix
		bias   xmath.Vector
		err    error
	}

	tests := map[string]test{
		"trailing-comma": {
			line:   "1,2,3,4,5,6,\n",
			weight: xmath.Matrix{{1, 2}, {3, 4}},
			bias:   xmath.Vector{5, 6},
		},
		"no-trailing-comma": {
			line:   "1,2,3,4,5,6",
			weight: xmath.Matrix{{1, 2}, {3, 4}},
			bias:   xmath.Vector{5, 6},
		},
		"low-precision": {
			line:   "0.123457,-0.5,1e-05,2,-3,4.5,\n",
			weight: xmath.Matrix{{0.123457, -0.5}, {1e-05, 2}},
			bias:   xmath.Vector{-3, 4.5},
		},
		"too-few": {
			line: "1,2,3,4,5,\n",
			err:  MalformedStateErr,
		},
		"too-many": {
			line: "1,2,3,4,5,6,7,\n",
			err:  MalformedStateErr,
		},
		"empty": {
			line: "\n",
			err:  MalformedStateErr,
		},
		"not-a-number": {
			line: "1,2,x,4,5,6,\n",
			err:  MalformedStateErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			gate, err := NewGate(2, 2, Sigmoid, func() float64 { return 9 })
			require.NoError(t, err)

			err = gate.Load(tt.line)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				// the gate is untouched
				assert.Equal(t, []float64{9, 9, 9, 9, 9, 9}, gate.params())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.weight, gate.weight)
			assert.Equal(t, tt.bias, gate.bias)
		})
	}
}

func TestGate_Update(t *testing.T) {
	gate, err := NewGate(2, 1, Identity, func() float64 { return 1 })
	require.NoError(t, err)

	gate.update(Delta{
		W: xmath.Matrix{{1, -2}},
		B: xmath.Vector{4},
	}, 0.5)

	assert.Equal(t, xmath.Matrix{{0.5, 2}}, gate.weight)
	assert.Equal(t, xmath.Vector{-1}, gate.bias)
}
