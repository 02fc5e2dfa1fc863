package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/drakos74/mantis/internal/buffer"
	"github.com/drakos74/mantis/internal/metrics"
	"github.com/drakos74/mantis/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Adjuster maps the raw cell output into the range of the expected values.
type Adjuster func(output xmath.Vector) xmath.Vector

// Interpreter renders an adjusted output for humans.
type Interpreter func(output xmath.Vector) string

// NoAdjustment leaves the output as is.
var NoAdjustment Adjuster = func(output xmath.Vector) xmath.Vector {
	return output
}

// GateArray holds the five gates of the cell.
type GateArray struct {
	Forget *Gate
	SInput *Gate
	TInput *Gate
	Output *Gate
	Data   *Gate
}

func newGateArray(inputSize, stateSize int, activation Activation, init Init) (GateArray, error) {
	var gates GateArray
	var err error
	gateInput := inputSize + stateSize
	if gates.Forget, err = NewGate(gateInput, stateSize, activation, init); err != nil {
		return gates, err
	}
	if gates.SInput, err = NewGate(gateInput, stateSize, activation, init); err != nil {
		return gates, err
	}
	if gates.TInput, err = NewGate(gateInput, stateSize, TanH, init); err != nil {
		return gates, err
	}
	if gates.Output, err = NewGate(gateInput, stateSize, activation, init); err != nil {
		return gates, err
	}
	if gates.Data, err = NewGate(stateSize, inputSize, TanH, init); err != nil {
		return gates, err
	}
	return gates, nil
}

// all returns the gates in storage order.
func (ga GateArray) all() []*Gate {
	return []*Gate{ga.Forget, ga.SInput, ga.TInput, ga.Output, ga.Data}
}

// Option configures an LSTM cell.
type Option func(l *LSTM)

// WithStorage sets the persistence for the model parameters.
func WithStorage(store storage.Persistence) Option {
	return func(l *LSTM) {
		l.store = store
	}
}

// WithAdjuster sets the output adjuster.
func WithAdjuster(adjust Adjuster) Option {
	return func(l *LSTM) {
		l.adjust = adjust
	}
}

// WithInterpreter sets the output interpreter used for logging.
func WithInterpreter(interpret Interpreter) Option {
	return func(l *LSTM) {
		l.interpret = interpret
	}
}

// WithInit sets the initialiser for fresh gate parameters.
func WithInit(init Init) Option {
	return func(l *LSTM) {
		l.init = init
	}
}

// WithLogger sets the logger of the cell.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *LSTM) {
		l.logger = logger
	}
}

// LSTM is a single lstm cell trained online with truncated backpropagation through time.
// The cell is not safe for concurrent use, a single driver is expected to step it.
type LSTM struct {
	config    Config
	rate      float64
	gates     GateArray
	caches    *buffer.Ring[*Cache]
	losses    *buffer.Buffer
	adjust    Adjuster
	interpret Interpreter
	init      Init
	store     storage.Persistence
	logger    zerolog.Logger

	cellState   xmath.Vector
	hiddenState xmath.Vector

	// step counts all steps, sinceSave the steps after the last snapshot
	step      int
	sinceSave int
	trainings int
}

// NewLSTM creates a new cell.
// If the storage holds a snapshot for the model name, gates and state are restored from it,
// otherwise gates are initialised randomly and the state is zero.
func NewLSTM(cfg Config, options ...Option) (*LSTM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	activation, _ := cfg.gateActivation()

	l := &LSTM{
		config:    cfg,
		rate:      cfg.LearningRate(),
		caches:    buffer.NewRing[*Cache](cfg.BackpropInterval),
		losses:    buffer.NewBuffer(cfg.BackpropInterval),
		adjust:    NoAdjustment,
		interpret: func(output xmath.Vector) string { return output.String() },
		init:      Uniform(rand.New(rand.NewSource(time.Now().UnixNano())), -1, 1),
		store:     storage.NewVoidStorage(),
		logger:    log.Logger,
	}
	for _, option := range options {
		option(l)
	}
	l.logger = l.logger.With().Str("model", cfg.Name).Logger()

	gates, err := newGateArray(cfg.InputSize, cfg.StateSize, activation, l.init)
	if err != nil {
		return nil, err
	}
	l.gates = gates
	l.cellState = xmath.Vec(cfg.StateSize)
	l.hiddenState = xmath.Vec(cfg.StateSize)

	err = l.store.Load(l.key(), l)
	switch {
	case err == nil:
		l.logger.Info().Msg("restored model")
	case errors.Is(err, storage.NotFoundErr):
		l.logger.Info().
			Int("input", cfg.InputSize).
			Int("state", cfg.StateSize).
			Float64("rate", l.rate).
			Msg("initialised new model")
	default:
		return nil, fmt.Errorf("could not restore model '%s': %w", cfg.Name, err)
	}
	return l, nil
}

// Config returns the cell config.
func (l *LSTM) Config() Config {
	return l.config
}

// Gates returns the gates of the cell.
func (l *LSTM) Gates() GateArray {
	return l.gates
}

// State returns copies of the current cell and hidden state.
func (l *LSTM) State() (xmath.Vector, xmath.Vector) {
	return l.cellState.Copy(), l.hiddenState.Copy()
}

// Steps returns the number of steps processed.
func (l *LSTM) Steps() int {
	return l.step
}

// Trainings returns the number of training runs.
func (l *LSTM) Trainings() int {
	return l.trainings
}

// RunningLoss is the mean squared error of the outputs within the last backprop interval.
func (l *LSTM) RunningLoss() float64 {
	return l.losses.Mean()
}

// Forward runs a forward pass on the current state.
// It does not modify the cell.
func (l *LSTM) Forward(dataIn xmath.Vector) *Cache {
	return l.forward(dataIn, l.cellState, l.hiddenState)
}

func (l *LSTM) forward(dataIn, cellState, hiddenState xmath.Vector) *Cache {
	cache := &Cache{
		CellStateIn:   cellState.Copy(),
		HiddenStateIn: hiddenState.Copy(),
		DataIn:        dataIn.Copy(),
	}
	cache.GateInput = cache.DataIn.Copy().Stack(cache.HiddenStateIn)

	cache.Forget.In, cache.Forget.Out = l.gates.Forget.Apply(cache.GateInput)
	cache.SInput.In, cache.SInput.Out = l.gates.SInput.Apply(cache.GateInput)
	cache.TInput.In, cache.TInput.Out = l.gates.TInput.Apply(cache.GateInput)
	cache.Output.In, cache.Output.Out = l.gates.Output.Apply(cache.GateInput)

	cache.CellStateOut = cache.CellStateIn.X(cache.Forget.Out).
		Add(cache.SInput.Out.X(cache.TInput.Out))
	// NOTE : the hidden state saturates the incoming cell state, not the updated one
	cache.HiddenStateOut = cache.CellStateIn.Op(saturate).X(cache.Output.Out)

	cache.Data.In, cache.Data.Out = l.gates.Data.Apply(cache.HiddenStateOut)
	return cache
}

// Backward runs one step of backpropagation through time.
// dH and dC are the loss gradients with respect to the hidden and cell state the step produced.
// The returned gradient carries the gradients for the state the step consumed.
func (l *LSTM) Backward(dH, dC xmath.Vector, cache *Cache) *Gradient {
	cache.mustFit(l.config.InputSize, l.config.StateSize)

	saturated := cache.CellStateIn.Op(saturate)

	dOutput := dH.X(saturated).X(l.gates.Output.derivative(cache.Output.In))
	dForget := dC.X(cache.CellStateIn).X(l.gates.Forget.derivative(cache.Forget.In))
	dSInput := dC.X(cache.TInput.Out).X(l.gates.SInput.derivative(cache.SInput.In))
	dTInput := dC.X(cache.SInput.Out).X(l.gates.TInput.derivative(cache.TInput.In))

	dGateInput := l.gates.Forget.weight.T().Prod(dForget).
		Add(l.gates.SInput.weight.T().Prod(dSInput)).
		Add(l.gates.TInput.weight.T().Prod(dTInput)).
		Add(l.gates.Output.weight.T().Prod(dOutput))

	dCellState := dC.X(cache.Forget.Out).
		Add(dH.X(cache.Output.Out).X(cache.CellStateIn.Op(saturateDerivative)))

	return &Gradient{
		DH:     dGateInput[l.config.InputSize:].Copy(),
		DC:     dCellState,
		Forget: newDelta(dForget, cache.GateInput),
		SInput: newDelta(dSInput, cache.GateInput),
		TInput: newDelta(dTInput, cache.GateInput),
		Output: newDelta(dOutput, cache.GateInput),
	}
}

// outputGradient returns the data gate gradient for the squared error of the cache output,
// and the resulting loss gradient with respect to the hidden state the step produced.
func (l *LSTM) outputGradient(cache *Cache, expected xmath.Vector) (Delta, xmath.Vector) {
	dData := cache.Data.Out.Diff(expected).Mult(2).X(l.gates.Data.derivative(cache.Data.In))
	dH := l.gates.Data.weight.T().Prod(dData)
	return newDelta(dData, cache.HiddenStateOut), dH
}

// bptt runs the backward pass over the whole window, from the most recent step to the oldest,
// and returns the accumulated recurrent gate gradients.
func (l *LSTM) bptt(dH xmath.Vector) *Gradient {
	// the loss does not depend on the latest cell state
	dC := xmath.Vec(l.config.StateSize)
	var total *Gradient
	for i := l.caches.Size() - 1; i >= 0; i-- {
		gradient := l.Backward(dH, dC, l.caches.At(i))
		dH, dC = gradient.DH, gradient.DC
		if total == nil {
			total = gradient
		} else {
			total.Add(gradient)
		}
	}
	return total
}

// Train runs truncated backpropagation through time over the cached window.
// The expected vector is the target for the output of the most recent step.
// The data gate is updated immediately from its own gradient,
// the recurrent gates with the mean gradient over the window.
// The hidden state gradient entering the window is taken with the data gate weights
// the output was produced with, before their update, and the cell state gradient of the
// most recent step is zero, as the loss does not depend on it.
// It returns the loss of the most recent output.
func (l *LSTM) Train(expected xmath.Vector) (float64, error) {
	if len(expected) != l.config.InputSize {
		return 0, fmt.Errorf("expected vector of size %d but got %d: %w", l.config.InputSize, len(expected), DimensionErr)
	}
	if !l.caches.Full() {
		return 0, fmt.Errorf("only %d of %d steps cached: %w", l.caches.Size(), l.caches.Cap(), BufferNotFilledErr)
	}

	last, _ := l.caches.Last()
	prediction := l.adjust(last.Data.Out)
	loss := squaredError(prediction, expected)

	if l.config.DebugInterval > 0 && l.trainings%l.config.DebugInterval == 0 {
		l.logger.Info().
			Int("step", l.step).
			Float64("loss", math.Round(loss*100000)/100000).
			Str("prediction", l.interpret(prediction)).
			Str("expected", l.interpret(expected)).
			Msg("train")
	}
	l.trainings++

	data, dH := l.outputGradient(last, expected)
	l.gates.Data.update(data, l.rate)

	total := l.bptt(dH)
	rate := l.rate / float64(l.caches.Size())
	l.gates.Forget.update(total.Forget, rate)
	l.gates.SInput.update(total.SInput, rate)
	l.gates.TInput.update(total.TInput, rate)
	l.gates.Output.update(total.Output, rate)

	metrics.Observer.Train(l.config.Name, loss)
	return loss, nil
}

// Step processes the next input of the stream.
// expected is the value the previous step's output should have had.
// Whenever the step count reaches a multiple of the backprop interval,
// the cell trains on the cached window before processing the input.
// It returns a copy of the raw output for the input.
func (l *LSTM) Step(input, expected xmath.Vector) (xmath.Vector, error) {
	if len(input) != l.config.InputSize {
		return nil, fmt.Errorf("input vector of size %d but got %d: %w", l.config.InputSize, len(input), DimensionErr)
	}
	if len(expected) != l.config.InputSize {
		return nil, fmt.Errorf("expected vector of size %d but got %d: %w", l.config.InputSize, len(expected), DimensionErr)
	}

	if last, ok := l.caches.Last(); ok {
		l.losses.Push(squaredError(l.adjust(last.Data.Out), expected))
	}

	if l.step != 0 && l.step%l.config.BackpropInterval == 0 {
		if _, err := l.Train(expected); err != nil {
			return nil, err
		}
	}

	cache := l.push(input)

	l.step++
	l.sinceSave++
	metrics.Observer.Step(l.config.Name)

	if l.config.SaveInterval > 0 && l.sinceSave >= l.config.SaveInterval {
		if err := l.Save(); err != nil {
			return nil, err
		}
	}

	return cache.Data.Out.Copy(), nil
}

// Predict steps the cell treating the input as the expected value of the previous output,
// e.g. the cell learns to predict its next input.
func (l *LSTM) Predict(input xmath.Vector) (xmath.Vector, error) {
	return l.Step(input, input)
}

// push runs the forward pass, moves the state forward and caches the record.
func (l *LSTM) push(input xmath.Vector) *Cache {
	cache := l.Forward(input)
	l.cellState = cache.CellStateOut.Copy()
	l.hiddenState = cache.HiddenStateOut.Copy()
	l.caches.Push(cache)
	return cache
}

// Save persists gates and state.
func (l *LSTM) Save() error {
	if err := l.store.Store(l.key(), l); err != nil {
		return fmt.Errorf("could not save model '%s': %w", l.config.Name, err)
	}
	l.sinceSave = 0
	metrics.Observer.Save(l.config.Name)
	l.logger.Info().Int("step", l.step).Msg("saved model")
	return nil
}

// Close flushes the model to the storage.
func (l *LSTM) Close() error {
	return l.Save()
}

func (l *LSTM) key() storage.Key {
	return storage.Key{Name: l.config.Name}
}

func squaredError(prediction, expected xmath.Vector) float64 {
	return prediction.Diff(expected).Pow(2).Sum()
}
