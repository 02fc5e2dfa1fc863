package ml

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/drakos74/go-ex-machina/xmath"
	"gonum.org/v1/gonum/floats"
)

// Init produces the initial value of a single gate parameter.
type Init func() float64

// Uniform initialises parameters uniformly within [min,max).
func Uniform(r *rand.Rand, min, max float64) Init {
	return func() float64 {
		return r.Float64()*(max-min) + min
	}
}

// Gate is an affine transform followed by an element-wise activation.
// Its dimensions are fixed at construction.
type Gate struct {
	weight     xmath.Matrix
	bias       xmath.Vector
	activation Activation
}

// NewGate creates a new gate mapping inputSize values to outputSize values.
// Weights are initialised row by row, followed by the bias.
func NewGate(inputSize, outputSize int, activation Activation, init Init) (*Gate, error) {
	if inputSize <= 0 || outputSize <= 0 {
		return nil, fmt.Errorf("gate dimensions must be positive [%d x %d]: %w", outputSize, inputSize, InvalidConfigErr)
	}
	weight := xmath.Mat(outputSize).Of(inputSize)
	for i := range weight {
		for j := range weight[i] {
			weight[i][j] = init()
		}
	}
	bias := xmath.Vec(outputSize)
	for i := range bias {
		bias[i] = init()
	}
	return &Gate{
		weight:     weight,
		bias:       bias,
		activation: activation,
	}, nil
}

// Apply evaluates the gate on the given input.
// It returns the affine output before and after the activation, as fresh vectors.
func (g *Gate) Apply(input xmath.Vector) (xmath.Vector, xmath.Vector) {
	in := g.weight.Prod(input).Add(g.bias)
	return in, in.Op(g.activation.F)
}

// InputSize returns the expected size of the gate input.
func (g *Gate) InputSize() int {
	return len(g.weight[0])
}

// OutputSize returns the size of the gate output.
func (g *Gate) OutputSize() int {
	return len(g.bias)
}

// Activation returns the activation of the gate.
func (g *Gate) Activation() Activation {
	return g.activation
}

// derivative returns the activation derivative for the given pre-activation values.
func (g *Gate) derivative(in xmath.Vector) xmath.Vector {
	return in.Op(g.activation.D)
}

// update moves the gate parameters by -rate times the given gradient.
func (g *Gate) update(d Delta, rate float64) {
	for i := range g.weight {
		floats.AddScaled(g.weight[i], -rate, d.W[i])
	}
	floats.AddScaled(g.bias, -rate, d.B)
}

// params returns the gate parameters flattened in storage order.
func (g *Gate) params() []float64 {
	pp := make([]float64, 0, g.paramSize())
	for _, row := range g.weight {
		pp = append(pp, row...)
	}
	return append(pp, g.bias...)
}

// setParams applies the flattened parameters, as returned by params.
func (g *Gate) setParams(pp []float64) {
	if len(pp) != g.paramSize() {
		panic(fmt.Sprintf("gate expects %d parameters but got %d", g.paramSize(), len(pp)))
	}
	cols := g.InputSize()
	for i := range g.weight {
		copy(g.weight[i], pp[i*cols:(i+1)*cols])
	}
	copy(g.bias, pp[len(g.weight)*cols:])
}

func (g *Gate) paramSize() int {
	return g.OutputSize()*g.InputSize() + g.OutputSize()
}

// Write serializes the weights row by row and then the bias on a single comma delimited line.
func (g *Gate) Write(w io.Writer) error {
	_, err := io.WriteString(w, formatLine(g.params()))
	return err
}

// Load parses a line written by Write.
// The gate is left untouched if the line does not hold exactly the expected number of values.
func (g *Gate) Load(line string) error {
	pp, err := parseLine(line)
	if err != nil {
		return err
	}
	if len(pp) != g.paramSize() {
		return fmt.Errorf("gate [%d x %d] expects %d values but found %d: %w",
			g.OutputSize(), g.InputSize(), g.paramSize(), len(pp), MalformedStateErr)
	}
	g.setParams(pp)
	return nil
}

func formatLine(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	return b.String()
}

// parseLine parses comma delimited floats, a trailing comma is permitted.
func parseLine(line string) ([]float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return []float64{}, nil
	}
	fields := strings.Split(line, ",")
	if fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse value %d '%s': %w", i, f, MalformedStateErr)
		}
		values[i] = v
	}
	return values, nil
}
