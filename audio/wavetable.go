package audio

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// Shape selects the waveform of a wavetable oscillator.
type Shape int

const (
	Sine Shape = iota
	Square
	Saw
	RevSaw
	Triangle
	Pulse
	Noise
	numShapes
)

func (s Shape) String() string {
	switch s {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Saw:
		return "saw"
	case RevSaw:
		return "revsaw"
	case Triangle:
		return "triangle"
	case Pulse:
		return "pulse"
	case Noise:
		return "noise"
	}
	return "unknown"
}

// ParseShape returns the shape with the given name.
func ParseShape(name string) (Shape, bool) {
	for s := Shape(0); s < numShapes; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

const tableSize = 4096

// One extra entry repeats the first so interpolation never wraps.
var tables [numShapes][tableSize + 1]float64

func init() {
	// one cycle per table: the generator runs at a rate of tableSize
	gen := signal.NewGenerator(core.WithSampleRate(tableSize))
	sine, err := gen.Sine(1, 1, tableSize)
	if err != nil {
		panic(err)
	}
	noise, err := gen.WhiteNoise(1, tableSize)
	if err != nil {
		panic(err)
	}
	copy(tables[Sine][:], sine)
	copy(tables[Noise][:], noise)
	for i := 0; i < tableSize; i++ {
		p := float64(i) / tableSize
		tables[Saw][i] = 2*p - 1
		tables[RevSaw][i] = 1 - 2*p
		tables[Triangle][i] = 1 - 4*math.Abs(p-0.5)
		tables[Square][i] = -1
		if p < 0.5 {
			tables[Square][i] = 1
		}
		tables[Pulse][i] = -1
		if p < 0.25 {
			tables[Pulse][i] = 1
		}
	}
	for s := range tables {
		tables[s][tableSize] = tables[s][0]
	}
}

// wavetable is a phase accumulator reading one of the precomputed tables.
// The phase lives in [0, 1) and carries over between buffers.
type wavetable struct {
	shape      Shape
	table      *[tableSize + 1]float64
	sampleRate float64
	freq       float64
	phase      float64
}

func newWavetable(shape Shape, sampleRate int) wavetable {
	if shape < 0 || shape >= numShapes {
		shape = Sine
	}
	return wavetable{
		shape:      shape,
		table:      &tables[shape],
		sampleRate: float64(sampleRate),
		freq:       defaultFreq,
	}
}

func (w *wavetable) trigger(freq float64) {
	w.freq = freq
	w.phase = 0
}

func (w *wavetable) read() float64 {
	idx := w.phase * tableSize
	i := int(idx)
	if i >= tableSize {
		i = tableSize - 1
	}
	frac := idx - float64(i)
	return w.table[i] + frac*(w.table[i+1]-w.table[i])
}

func (w *wavetable) advance(inc float64) {
	w.phase += inc
	if w.phase >= 1 || w.phase < 0 {
		w.phase -= math.Floor(w.phase)
	}
	if !(w.phase >= 0 && w.phase < 1) {
		// rounding of tiny negative phases, or a non-finite increment
		w.phase = 0
	}
}

func (w *wavetable) process(out []float64) {
	inc := w.freq / w.sampleRate
	for i := range out {
		out[i] = w.read()
		w.advance(inc)
	}
}

// processFM reads the frequency in Hz for every sample from freq.
func (w *wavetable) processFM(out, freq []float64) {
	for i := range out {
		out[i] = w.read()
		w.advance(freq[i] / w.sampleRate)
	}
}
