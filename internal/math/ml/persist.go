package ml

import (
	"fmt"
	"io"
	"strings"

	"github.com/drakos74/go-ex-machina/xmath"
)

// snapshotLines is the number of lines of a snapshot:
// one per gate in the order forget, sInput, tInput, output, data, then cell state and hidden state.
const snapshotLines = 7

// WriteTo writes the gates and the recurrent state, one comma delimited line each.
func (l *LSTM) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, gate := range l.gates.all() {
		if err := gate.Write(&b); err != nil {
			return 0, err
		}
	}
	b.WriteString(formatLine(l.cellState))
	b.WriteString(formatLine(l.hiddenState))

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// ReadFrom restores gates and recurrent state from a snapshot written by WriteTo.
// The fields are positional, nothing is applied unless the whole snapshot is valid.
func (l *LSTM) ReadFrom(r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	n := int64(len(b))
	if err != nil {
		return n, err
	}

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != snapshotLines {
		return n, fmt.Errorf("snapshot must have %d lines but has %d: %w", snapshotLines, len(lines), MalformedStateErr)
	}

	activation, _ := l.config.gateActivation()
	gates, err := newGateArray(l.config.InputSize, l.config.StateSize, activation, func() float64 { return 0 })
	if err != nil {
		return n, err
	}
	for i, gate := range gates.all() {
		if err := gate.Load(lines[i]); err != nil {
			return n, fmt.Errorf("could not load gate %d: %w", i, err)
		}
	}

	cellState, err := parseState(lines[5], l.config.StateSize)
	if err != nil {
		return n, fmt.Errorf("could not load cell state: %w", err)
	}
	hiddenState, err := parseState(lines[6], l.config.StateSize)
	if err != nil {
		return n, fmt.Errorf("could not load hidden state: %w", err)
	}

	l.gates = gates
	l.cellState = cellState
	l.hiddenState = hiddenState
	return n, nil
}

func parseState(line string, size int) (xmath.Vector, error) {
	values, err := parseLine(line)
	if err != nil {
		return nil, err
	}
	if len(values) != size {
		return nil, fmt.Errorf("state expects %d values but found %d: %w", size, len(values), MalformedStateErr)
	}
	return xmath.Vec(size).With(values...), nil
}
