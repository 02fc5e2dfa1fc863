package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/drakos74/mantis/internal/math/ml"
	"github.com/drakos74/mantis/internal/report"
	"github.com/drakos74/mantis/internal/storage"
	"github.com/drakos74/mantis/internal/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config defines a run of the engine.
// Steps bounds the run, 0 runs until the context is cancelled.
type Config struct {
	Model       ml.Config       `json:"model"`
	Source      string          `json:"source"`
	Adjuster    string          `json:"adjuster"`
	Interpreter string          `json:"interpreter"`
	Steps       int64           `json:"steps"`
	Seed        int64           `json:"seed"`
	StorageDir  string          `json:"storage_dir"`
	MetricsPort int             `json:"metrics_port"`
	LogLevel    string          `json:"log_level"`
	Windows     []report.Window `json:"windows"`
	PlotHeight  int             `json:"plot_height"`
}

// Option configures the engine.
type Option func(e *Engine)

// WithSource overrides the configured source.
func WithSource(source stream.Source) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithCellOptions passes extra options to the cell.
func WithCellOptions(options ...ml.Option) Option {
	return func(e *Engine) {
		e.cellOptions = append(e.cellOptions, options...)
	}
}

// Engine feeds the source into the cell, one step at a time, and records the predictions.
type Engine struct {
	id          string
	config      Config
	source      stream.Source
	adjust      ml.Adjuster
	cell        *ml.LSTM
	cellOptions []ml.Option
	recorder    *report.Recorder
	logger      zerolog.Logger
}

// New creates a new engine for the given config.
// The cell is restored from the storage if a snapshot exists for the model name.
func New(cfg Config, store storage.Persistence, options ...Option) (*Engine, error) {
	id := uuid.New().String()
	e := &Engine{
		id:     id,
		config: cfg,
		logger: log.With().Str("run", id).Logger(),
	}
	for _, option := range options {
		option(e)
	}

	if e.source == nil {
		source, err := stream.NewSource(cfg.Source, cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("could not create source: %w", err)
		}
		e.source = source
	}
	if e.source.Size() != cfg.Model.InputSize {
		return nil, fmt.Errorf("source '%s' produces %d values but model expects %d: %w",
			cfg.Source, e.source.Size(), cfg.Model.InputSize, ml.DimensionErr)
	}

	adjust, err := stream.NewAdjuster(cfg.Adjuster, cfg.Model.InputSize)
	if err != nil {
		return nil, fmt.Errorf("could not create adjuster: %w", err)
	}
	e.adjust = adjust
	interpret, err := stream.NewInterpreter(cfg.Interpreter, cfg.Model.InputSize)
	if err != nil {
		return nil, fmt.Errorf("could not create interpreter: %w", err)
	}

	cellOptions := append([]ml.Option{
		ml.WithStorage(store),
		ml.WithAdjuster(adjust),
		ml.WithInterpreter(interpret),
		ml.WithLogger(e.logger),
	}, e.cellOptions...)
	cell, err := ml.NewLSTM(cfg.Model, cellOptions...)
	if err != nil {
		return nil, fmt.Errorf("could not create cell: %w", err)
	}
	e.cell = cell

	windows := cfg.Windows
	if windows == nil {
		windows = report.DefaultWindows
	}
	e.recorder = report.NewRecorder(windows...)
	return e, nil
}

// ID returns the run id.
func (e *Engine) ID() string {
	return e.id
}

// Cell returns the cell the engine trains.
func (e *Engine) Cell() *ml.LSTM {
	return e.cell
}

// Recorder returns the recorder of the predictions.
func (e *Engine) Recorder() *report.Recorder {
	return e.recorder
}

// Run steps the cell with the source until the context is cancelled or the configured steps are done.
// The cell is flushed to the storage on the way out.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info().
		Str("model", e.config.Model.Name).
		Str("source", e.config.Source).
		Int64("steps", e.config.Steps).
		Msg("engine started")

	var last xmath.Vector
	var t int64
	var err error
	recording := !e.recorder.Done(0)
	for ; e.config.Steps == 0 || t < e.config.Steps; t++ {
		if ctx.Err() != nil {
			e.logger.Info().Int64("step", t).Msg("engine cancelled")
			break
		}
		input := e.source.At(t)
		if recording && last != nil {
			e.recorder.RecordLoss(t, e.adjust(last).Diff(input).Pow(2).Sum())
		}
		last, err = e.cell.Predict(input)
		if err != nil {
			err = fmt.Errorf("could not process step %d: %w", t, err)
			break
		}
		if recording {
			e.recorder.Record(t, input, e.adjust(last))
			if e.recorder.Done(t + 1) {
				recording = false
				e.logger.Info().Int64("step", t).Msg("report windows complete")
			}
		}
	}

	if cErr := e.cell.Close(); cErr != nil {
		e.logger.Error().Err(cErr).Msg("could not flush model")
		if err == nil {
			err = cErr
		}
	}
	e.logger.Info().
		Int64("steps", t).
		Float64("loss", e.cell.RunningLoss()).
		Msg("engine stopped")
	return err
}

// Report writes the plots and the summary of the recorded windows.
func (e *Engine) Report(w io.Writer) error {
	height := e.config.PlotHeight
	if height <= 0 {
		height = 10
	}
	if err := e.recorder.Plot(w, height); err != nil {
		return err
	}
	e.recorder.Table(w)
	return nil
}
