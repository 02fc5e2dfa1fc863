package stream

import (
	"fmt"
	"math"
	"strings"

	"github.com/drakos74/go-ex-machina/xmath"
)

// None leaves the output as is.
func None(output xmath.Vector) xmath.Vector {
	return output.Copy()
}

// UserAuthSize is the smallest login output, hour, minute and action.
const UserAuthSize = 3

// UserAuth maps a raw login output from [-1,1] into the range of a login vector.
// Hours and minutes are shifted into [0,1], the action is rounded to the nearest action
// and the identity components are left untouched.
func UserAuth(output xmath.Vector) xmath.Vector {
	out := output.Copy()
	out[0] = (output[0] + 1) / 2
	out[1] = (output[1] + 1) / 2
	out[2] = math.Round(output[2] + 1)
	return out
}

// Basic renders the values rounded to 3 decimals.
func Basic(output xmath.Vector) string {
	values := make([]string, len(output))
	for i, v := range output {
		values[i] = fmt.Sprint(round(v))
	}
	return fmt.Sprintf("(%s)", strings.Join(values, ", "))
}

// UserAuthEvent renders an adjusted login output e.g. (8:05, LOG_IN_SUCCESS, 0.827, 0.93, 0.985, -0.506).
func UserAuthEvent(output xmath.Vector) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("(%d:%02d, %s",
		int(math.Round(output[0]*24)),
		int(math.Round(output[1]*60)),
		Action(int(output[2]))))
	for _, v := range output[3:] {
		b.WriteString(fmt.Sprintf(", %v", round(v)))
	}
	b.WriteString(")")
	return b.String()
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
