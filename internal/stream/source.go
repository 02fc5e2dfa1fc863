package stream

import (
	"math"
	"math/rand"

	"github.com/drakos74/go-ex-machina/xmath"
)

// IdentityLength is the number of components identifying a user in a login vector.
const IdentityLength = 4

// Action is the kind of login event.
type Action int

const (
	LogInSuccess Action = iota
	LogInFail
	LogOut
)

func (a Action) String() string {
	switch a {
	case LogInSuccess:
		return "LOG_IN_SUCCESS"
	case LogInFail:
		return "LOG_IN_FAIL"
	}
	return "LOG_OUT"
}

// Source produces the input vector for every step of a stream.
type Source interface {
	// Size is the width of the produced vectors.
	Size() int
	// At returns the input for step t. The same t always yields the same vector.
	At(t int64) xmath.Vector
}

// Sine produces sin(t).
type Sine struct {
}

func (s Sine) Size() int {
	return 1
}

func (s Sine) At(t int64) xmath.Vector {
	return xmath.Vector{math.Sin(float64(t))}
}

// shift is a recurring login event of a user at a fixed hour.
type shift struct {
	hour   int
	action Action
	user   int
}

// Logins simulates users logging in and out on a fixed schedule.
// The schedule repeats, each step picks the next event with a random minute within the hour.
type Logins struct {
	seed     int64
	schedule []shift
}

// SingleUserDayJob simulates a single user logging in between 8 and 9 AM and logging out between 5 and 6 PM.
func SingleUserDayJob(seed int64) *Logins {
	return &Logins{
		seed: seed,
		schedule: []shift{
			{hour: 8, action: LogInSuccess, user: 1000},
			{hour: 17, action: LogOut, user: 1000},
		},
	}
}

// TwoUserOverlap simulates two users with offset, overlapping shifts.
func TwoUserOverlap(seed int64) *Logins {
	return &Logins{
		seed: seed,
		schedule: []shift{
			{hour: 8, action: LogInSuccess, user: 1000},
			{hour: 13, action: LogInSuccess, user: 1001},
			{hour: 17, action: LogOut, user: 1000},
			{hour: 22, action: LogOut, user: 1001},
		},
	}
}

func (l *Logins) Size() int {
	return UserAuthSize + IdentityLength
}

// At returns [hour/24, minute/60, action, sin(1*user) ... sin(4*user)] for the event of step t.
func (l *Logins) At(t int64) xmath.Vector {
	s := l.schedule[t%int64(len(l.schedule))]
	v := xmath.Vec(l.Size())
	v[0] = float64(s.hour) / 24
	v[1] = float64(l.minute(t)) / 60
	v[2] = float64(s.action)
	copy(v[3:], Identity(s.user))
	return v
}

// minute is a pure function of the seed and the step.
func (l *Logins) minute(t int64) int {
	return rand.New(rand.NewSource(l.seed*7919 + t)).Intn(60)
}

// Identity returns the identity vector of the given user.
func Identity(user int) xmath.Vector {
	v := xmath.Vec(IdentityLength)
	for i := range v {
		v[i] = math.Sin(float64((i + 1) * user))
	}
	return v
}
