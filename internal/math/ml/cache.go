package ml

import (
	"fmt"

	"github.com/drakos74/go-ex-machina/xmath"
	"gonum.org/v1/gonum/floats"
)

// GateOutput holds the gate values before (In) and after (Out) the activation.
type GateOutput struct {
	In  xmath.Vector
	Out xmath.Vector
}

// Cache is the record of a single forward pass.
// Every vector is owned by the record, nothing aliases the cell state or another record.
type Cache struct {
	CellStateIn   xmath.Vector
	HiddenStateIn xmath.Vector
	DataIn        xmath.Vector
	// GateInput is the concatenation of DataIn and HiddenStateIn.
	GateInput xmath.Vector

	Forget GateOutput
	SInput GateOutput
	TInput GateOutput
	Output GateOutput

	CellStateOut   xmath.Vector
	HiddenStateOut xmath.Vector

	Data GateOutput
}

// DataOut is the external output of the step.
func (c *Cache) DataOut() xmath.Vector {
	return c.Data.Out
}

// mustFit panics if the record does not match the given cell dimensions.
func (c *Cache) mustFit(inputSize, stateSize int) {
	if c == nil ||
		len(c.DataIn) != inputSize ||
		len(c.GateInput) != inputSize+stateSize ||
		len(c.CellStateIn) != stateSize ||
		len(c.HiddenStateIn) != stateSize ||
		len(c.Forget.In) != stateSize ||
		len(c.SInput.In) != stateSize ||
		len(c.TInput.In) != stateSize ||
		len(c.Output.In) != stateSize {
		panic(fmt.Sprintf("cache record does not fit cell [input=%d,state=%d]", inputSize, stateSize))
	}
}

// Delta is the gradient of a gate's weights and bias.
type Delta struct {
	W xmath.Matrix
	B xmath.Vector
}

func newDelta(d xmath.Vector, in xmath.Vector) Delta {
	return Delta{
		W: d.Prod(in),
		B: d.Copy(),
	}
}

func (d Delta) add(o Delta) {
	for i := range d.W {
		floats.Add(d.W[i], o.W[i])
	}
	floats.Add(d.B, o.B)
}

// Gradient is the result of a single backward step.
// DH and DC are the loss gradients with respect to the hidden and cell state entering the step,
// the deltas are the loss gradients of the recurrent gate parameters.
type Gradient struct {
	DH xmath.Vector
	DC xmath.Vector

	Forget Delta
	SInput Delta
	TInput Delta
	Output Delta
}

// Add accumulates the gate deltas of the other gradient into this one.
// The state gradients are not accumulated.
func (g *Gradient) Add(o *Gradient) {
	g.Forget.add(o.Forget)
	g.SInput.add(o.SInput)
	g.TInput.add(o.TInput)
	g.Output.add(o.Output)
}
