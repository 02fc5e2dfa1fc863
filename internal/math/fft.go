package math

import (
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
)

// FFT returns the spectrum of the real series up to the nyquist frequency,
// sorted by descending amplitude.
func FFT(xx []float64) *Spectrum {
	ss := newSpectrum(len(xx))
	if len(xx) == 0 {
		return ss
	}

	cc := fft.FFTReal(xx)
	for i, n := range cc {
		if i > len(cc)/2 {
			continue
		}
		ss.add(RNum{
			Amplitude: cmplx.Abs(n),
			Frequency: i,
			Phase:     cmplx.Phase(n),
		})
	}

	sort.Stable(sort.Reverse(spectrums(ss.Values)))

	return ss
}

// Spectrum is a collection of spectra
type Spectrum struct {
	Values    []RNum
	Amplitude float64
	// Samples is the length of the analysed series.
	Samples int
}

func newSpectrum(samples int) *Spectrum {
	return &Spectrum{
		Values:  make([]RNum, 0),
		Samples: samples,
	}
}

func (s *Spectrum) add(r RNum) {
	s.Values = append(s.Values, r)
	s.Amplitude += r.Amplitude
}

// Mean returns the mean amplitude, 0 for an empty spectrum.
func (s *Spectrum) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Amplitude / float64(len(s.Values))
}

// Dominant returns the component with the highest amplitude, ignoring the constant one.
func (s *Spectrum) Dominant() (RNum, bool) {
	for _, r := range s.Values {
		if r.Frequency > 0 {
			return r, true
		}
	}
	return RNum{}, false
}

// Period returns the period in samples of the given component.
func (s *Spectrum) Period(r RNum) float64 {
	if r.Frequency == 0 {
		return 0
	}
	return float64(s.Samples) / float64(r.Frequency)
}

// RNum defines the attributes of a spectral component.
type RNum struct {
	Amplitude float64
	Frequency int
	Phase     float64
}

type spectrums []RNum

func (s spectrums) Len() int           { return len(s) }
func (s spectrums) Less(i, j int) bool { return s[i].Amplitude < s[j].Amplitude }
func (s spectrums) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
