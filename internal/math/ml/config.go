package ml

import (
	"errors"
	"fmt"
	"math"
)

var (
	InvalidConfigErr   = errors.New("invalid configuration")
	MalformedStateErr  = errors.New("malformed persisted state")
	DimensionErr       = errors.New("dimension mismatch")
	BufferNotFilledErr = errors.New("cache buffer not filled")
)

// Config defines the fixed shape and the training schedule of an LSTM cell.
// InputSize is the width of the input and output vectors.
// StateSize is the width of the cell and hidden state.
// BackpropInterval is the number of steps between trainings and the length of the training window.
// LearnHandicap sets the learning rate to 10^-LearnHandicap.
// DebugInterval logs the loss every so many trainings, 0 disables it.
// SaveInterval persists the model every so many steps, 0 disables it.
// GateActivation is the activation of the forget, input and output gates, sigmoid if empty.
type Config struct {
	Name             string `json:"name"`
	InputSize        int    `json:"input_size"`
	StateSize        int    `json:"state_size"`
	BackpropInterval int    `json:"backprop_interval"`
	LearnHandicap    int    `json:"learn_handicap"`
	DebugInterval    int    `json:"debug_interval"`
	SaveInterval     int    `json:"save_interval"`
	GateActivation   string `json:"gate_activation"`
}

// Validate checks that the config describes a consistent cell.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("model name is missing: %w", InvalidConfigErr)
	}
	if c.InputSize <= 0 {
		return fmt.Errorf("input size must be positive: %d: %w", c.InputSize, InvalidConfigErr)
	}
	if c.StateSize <= 0 {
		return fmt.Errorf("state size must be positive: %d: %w", c.StateSize, InvalidConfigErr)
	}
	if c.BackpropInterval <= 0 {
		return fmt.Errorf("backprop interval must be positive: %d: %w", c.BackpropInterval, InvalidConfigErr)
	}
	if c.LearnHandicap < 0 {
		return fmt.Errorf("learn handicap must not be negative: %d: %w", c.LearnHandicap, InvalidConfigErr)
	}
	if c.DebugInterval < 0 {
		return fmt.Errorf("debug interval must not be negative: %d: %w", c.DebugInterval, InvalidConfigErr)
	}
	if c.SaveInterval < 0 {
		return fmt.Errorf("save interval must not be negative: %d: %w", c.SaveInterval, InvalidConfigErr)
	}
	if _, err := c.gateActivation(); err != nil {
		return err
	}
	return nil
}

// LearningRate returns the rate derived from the handicap.
func (c Config) LearningRate() float64 {
	return math.Pow(10, -float64(c.LearnHandicap))
}

func (c Config) gateActivation() (Activation, error) {
	if c.GateActivation == "" {
		return Sigmoid, nil
	}
	a, err := ParseActivation(c.GateActivation)
	if err != nil {
		return a, err
	}
	if a != Sigmoid && a != SoftSign {
		return a, fmt.Errorf("gate activation must be sigmoid or softsign: %s: %w", a, InvalidConfigErr)
	}
	return a, nil
}
