package stream

import (
	"errors"
	"testing"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/drakos74/mantis/internal/math/ml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAuth(t *testing.T) {
	raw := xmath.Vector{-0.3333333333333333, 0.5, 0.6, 0.1, -0.2, 0.3, -0.4}
	adjusted := UserAuth(raw)

	assert.InDelta(t, 1.0/3, adjusted[0], 1e-15)
	assert.Equal(t, 0.75, adjusted[1])
	assert.Equal(t, 2.0, adjusted[2])
	assert.Equal(t, raw[3:], adjusted[3:])
	// the raw output is untouched
	assert.Equal(t, -0.3333333333333333, raw[0])

	assert.Equal(t, 0.0, UserAuth(xmath.Vector{0, 0, -0.9, 0, 0, 0, 0})[2])
	assert.Equal(t, 1.0, UserAuth(xmath.Vector{0, 0, 0.2, 0, 0, 0, 0})[2])
}

func TestNone(t *testing.T) {
	raw := xmath.Vector{0.1, 0.2}
	adjusted := None(raw)
	assert.Equal(t, raw, adjusted)
	adjusted[0] = 1
	assert.Equal(t, 0.1, raw[0])
}

func TestBasic(t *testing.T) {
	assert.Equal(t, "(0.123, -0.5, 1)", Basic(xmath.Vector{0.12345, -0.5, 1}))
	assert.Equal(t, "(0.842)", Basic(xmath.Vector{0.84159}))
}

func TestUserAuthEvent(t *testing.T) {

	type test struct {
		output xmath.Vector
		text   string
	}

	tests := map[string]test{
		"log-in": {
			output: xmath.Vector{8.0 / 24, 5.0 / 60, 0, 0.8268, 0.9301, 0.1, -0.5},
			text:   "(8:05, LOG_IN_SUCCESS, 0.827, 0.93, 0.1, -0.5)",
		},
		"log-in-fail": {
			output: xmath.Vector{13.0 / 24, 30.0 / 60, 1, 0.25, 0.5, 0.75, 1},
			text:   "(13:30, LOG_IN_FAIL, 0.25, 0.5, 0.75, 1)",
		},
		"log-out": {
			output: xmath.Vector{17.0 / 24, 59.0 / 60, 2, 0.1, 0.2, 0.3, 0.4},
			text:   "(17:59, LOG_OUT, 0.1, 0.2, 0.3, 0.4)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.text, UserAuthEvent(tt.output))
		})
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"sine", "single_user_day_job", "two_user_overlap"} {
		s, err := NewSource(name, 1)
		require.NoError(t, err)
		assert.Equal(t, s.Size(), len(s.At(3)))
	}
	_, err := NewSource("random", 1)
	assert.True(t, errors.Is(err, UnknownErr))

	for _, name := range []string{"", "none", "user_auth"} {
		a, err := NewAdjuster(name, IdentityLength+3)
		require.NoError(t, err)
		assert.NotNil(t, a)
	}
	_, err = NewAdjuster("scale", 1)
	assert.True(t, errors.Is(err, UnknownErr))

	for _, name := range []string{"", "basic", "user_auth"} {
		i, err := NewInterpreter(name, IdentityLength+3)
		require.NoError(t, err)
		assert.NotNil(t, i)
	}
	_, err = NewInterpreter("verbose", 1)
	assert.True(t, errors.Is(err, UnknownErr))
}

func TestRegistry_Size(t *testing.T) {

	type test struct {
		adjuster    string
		interpreter string
		size        int
		err         error
	}

	tests := map[string]test{
		"none-scalar": {
			size: 1,
		},
		"user-auth-scalar-adjuster": {
			adjuster: "user_auth",
			size:     1,
			err:      ml.DimensionErr,
		},
		"user-auth-scalar-interpreter": {
			interpreter: "user_auth",
			size:        1,
			err:         ml.DimensionErr,
		},
		"user-auth-no-identity": {
			adjuster:    "user_auth",
			interpreter: "user_auth",
			size:        UserAuthSize,
		},
		"empty-output": {
			size: 0,
			err:  ml.DimensionErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, aErr := NewAdjuster(tt.adjuster, tt.size)
			i, iErr := NewInterpreter(tt.interpreter, tt.size)
			if tt.err != nil {
				assert.True(t, errors.Is(aErr, tt.err) || errors.Is(iErr, tt.err))
				return
			}
			require.NoError(t, aErr)
			require.NoError(t, iErr)
			output := xmath.Vec(tt.size)
			assert.NotPanics(t, func() {
				i(a(output))
			})
		})
	}
}
