package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/drakos74/mantis/internal/buffer"
	"github.com/drakos74/mantis/internal/math"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// Window is the step range [From,To) a recorder keeps track of.
type Window struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// DefaultWindows are the start, a later and a much later stage of a run.
var DefaultWindows = []Window{
	{From: 0, To: 120},
	{From: 50000, To: 50120},
	{From: 500000, To: 500120},
}

// Contains returns true if the step falls within the window.
func (w Window) Contains(t int64) bool {
	return t >= w.From && t < w.To
}

// Size returns the number of steps of the window.
func (w Window) Size() int {
	if w.To <= w.From {
		return 0
	}
	return int(w.To - w.From)
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.From, w.To)
}

// series collects the input and the prediction for the steps of a window.
type series struct {
	Window
	values *buffer.MultiBuffer
	// ranges tracks the input and the prediction
	ranges *buffer.StatsCollector
	loss   *buffer.Stats
}

func (s *series) closed(t int64) bool {
	return t >= s.To
}

// Recorder collects the first component of the inputs and the predictions within the configured windows.
type Recorder struct {
	series []*series
}

// NewRecorder creates a new recorder for the given windows.
// Empty windows are ignored.
func NewRecorder(windows ...Window) *Recorder {
	ss := make([]*series, 0, len(windows))
	for _, w := range windows {
		if w.Size() == 0 {
			continue
		}
		ss = append(ss, &series{
			Window: w,
			values: buffer.NewMultiBuffer(w.Size()),
			ranges: buffer.NewStatsCollector(2),
			loss:   buffer.NewStats(),
		})
	}
	return &Recorder{series: ss}
}

// Record adds the input and the prediction made for step t.
func (r *Recorder) Record(t int64, input, prediction xmath.Vector) {
	for _, s := range r.series {
		if s.Contains(t) {
			s.values.Push(input[0], prediction[0])
			s.ranges.Push(input[0], prediction[0])
		}
	}
}

// RecordLoss adds the error of the previous prediction against the input of step t.
func (r *Recorder) RecordLoss(t int64, loss float64) {
	for _, s := range r.series {
		if s.Contains(t) {
			s.loss.Push(loss)
		}
	}
}

// Done returns true if no window is expecting any steps after t.
func (r *Recorder) Done(t int64) bool {
	for _, s := range r.series {
		if !s.closed(t) {
			return false
		}
	}
	return true
}

// Summary is the digest of a single window.
// Periods are in steps, peaks are the dominant amplitude over the mean amplitude of the spectrum.
type Summary struct {
	Window       Window
	Samples      int
	Input        buffer.Stats
	Prediction   buffer.Stats
	Loss         buffer.Stats
	LossTrend    float64
	InputFreq    int
	InputPeriod  float64
	InputPeak    float64
	OutputFreq   int
	OutputPeriod float64
	OutputPeak   float64
}

// Summaries returns the digest of every window that recorded any values.
func (r *Recorder) Summaries() []Summary {
	summaries := make([]Summary, 0, len(r.series))
	for _, s := range r.series {
		if s.values.Len() == 0 {
			continue
		}
		ranges := s.ranges.Stats()
		summary := Summary{
			Window:     s.Window,
			Samples:    ranges[0].Count(),
			Input:      *ranges[0],
			Prediction: *ranges[1],
			Loss:       *s.loss,
		}
		summary.InputFreq, summary.InputPeriod, summary.InputPeak = dominant(s.values.Column(0))
		summary.OutputFreq, summary.OutputPeriod, summary.OutputPeak = dominant(s.values.Column(1))
		if trend, err := math.Trend(s.lossSeries()); err == nil {
			summary.LossTrend = trend
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func dominant(xx []float64) (int, float64, float64) {
	spectrum := math.FFT(xx)
	d, ok := spectrum.Dominant()
	if !ok {
		return 0, 0, 0
	}
	var peak float64
	if mean := spectrum.Mean(); mean > 0 {
		peak = d.Amplitude / mean
	}
	return d.Frequency, spectrum.Period(d), peak
}

// lossSeries recomputes the squared error of every prediction against the next input.
func (s *series) lossSeries() []float64 {
	rows := s.values.Get()
	if len(rows) < 2 {
		return []float64{}
	}
	ll := make([]float64, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		d := rows[i-1][1] - rows[i][0]
		ll[i-1] = d * d
	}
	return ll
}

// Plot renders the input and the prediction of every window as ascii graphs.
func (r *Recorder) Plot(w io.Writer, height int) error {
	var b strings.Builder
	for _, s := range r.series {
		if s.values.Len() == 0 {
			continue
		}
		b.WriteString(asciigraph.Plot(s.values.Column(0),
			asciigraph.Height(height),
			asciigraph.Caption(fmt.Sprintf("input %s", s.Window))))
		b.WriteString("\n\n")
		b.WriteString(asciigraph.Plot(s.values.Column(1),
			asciigraph.Height(height),
			asciigraph.Caption(fmt.Sprintf("prediction %s", s.Window))))
		b.WriteString("\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Table renders the summaries of all windows as a table.
func (r *Recorder) Table(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"window", "samples",
		"mean loss", "ema loss", "stdev loss", "min loss", "max loss", "last loss", "loss trend",
		"input range", "prediction range", "input period", "prediction period"})
	for _, s := range r.Summaries() {
		table.Append([]string{
			s.Window.String(),
			fmt.Sprint(s.Samples),
			math.Format(s.Loss.Mean(), 5),
			math.Format(s.Loss.EMA(), 5),
			math.Format(s.Loss.StDev(), 5),
			math.Format(s.Loss.Min(), 5),
			math.Format(s.Loss.Max(), 5),
			math.Format(s.Loss.Last(), 5),
			math.Format(s.LossTrend, 7),
			fmt.Sprintf("[%s,%s]", math.Format(s.Input.Min(), 3), math.Format(s.Input.Max(), 3)),
			fmt.Sprintf("[%s,%s]", math.Format(s.Prediction.Min(), 3), math.Format(s.Prediction.Max(), 3)),
			fmt.Sprintf("%s (x%s)", math.Format(s.InputPeriod, 2), math.Format(s.InputPeak, 1)),
			fmt.Sprintf("%s (x%s)", math.Format(s.OutputPeriod, 2), math.Format(s.OutputPeak, 1)),
		})
	}
	table.Render()
}
