package audio

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/moog"
)

// FilterMode selects the response of a Filter node.
type FilterMode int

const (
	LowPass FilterMode = iota
	BandPass
	HighPass
	// Formant is a vowel filter. Its cutoff input selects the vowel: 0 for
	// "a" through 4 for "u", fractional values interpolate.
	Formant
)

func (m FilterMode) String() string {
	switch m {
	case LowPass:
		return "lp"
	case BandPass:
		return "bp"
	case HighPass:
		return "hp"
	case Formant:
		return "formant"
	}
	return "unknown"
}

// ladder wraps a four pole transistor ladder. cutoff is normalised to [0, 1)
// of the Nyquist frequency. The low pass comes straight from the ladder, the
// other modes are derived from its stages.
type ladder struct {
	mode       FilterMode
	sampleRate float64
	cutoff     float64
	f          *moog.Filter
}

func newLadder(mode FilterMode, sampleRate int) ladder {
	l := ladder{mode: mode, sampleRate: float64(sampleRate), cutoff: 0.5}
	f, err := moog.New(l.sampleRate,
		moog.WithVariant(moog.VariantClassic),
		moog.WithCutoffHz(l.hz(l.cutoff)),
		moog.WithResonance(0),
	)
	if err == nil {
		l.f = f
	}
	return l
}

func (l *ladder) hz(c float64) float64 {
	return math.Max(1, c*l.sampleRate/2)
}

// setCutoff clamps c to [0, 1). Cutoffs the ladder rejects keep the previous
// setting.
func (l *ladder) setCutoff(c float64) {
	c = clamp(finite(c, l.cutoff), 0, maxCutoff)
	if c == l.cutoff || l.f == nil {
		return
	}
	if err := l.f.SetCutoffHz(l.hz(c)); err == nil {
		l.cutoff = c
	}
}

func (l *ladder) setResonance(r float64) {
	if r >= 0 && r < 0.5 && l.f != nil {
		_ = l.f.SetResonance(r * 8)
	}
}

func (l *ladder) tick(x float64) float64 {
	if l.f == nil {
		return 0
	}
	lp := l.f.ProcessSample(x)
	switch l.mode {
	case HighPass:
		return finite(x, 0) - lp
	case BandPass:
		s := l.f.State()
		return 3 * (s.Stage[2] - s.Stage[3])
	}
	return lp
}

// Formant frequencies in Hz of the vowels a, e, i, o, u.
var vowels = [5][3]float64{
	{800, 1150, 2900},
	{350, 2000, 2800},
	{270, 2140, 2950},
	{450, 800, 2830},
	{325, 700, 2700},
}

var vowelGains = [3]float64{1, 0.5, 0.25}

const maxCutoff = 0.999

// formant runs the input through three parallel band passes tuned to the
// formants of a vowel.
type formant struct {
	sampleRate float64
	vowel      float64
	q          float64
	bands      [3]svf
}

func newFormant(sampleRate int) formant {
	f := formant{sampleRate: float64(sampleRate), q: 0.75}
	f.setVowel(0)
	return f
}

func (f *formant) setVowel(v float64) {
	v = clamp(finite(v, 0), 0, float64(len(vowels)-1))
	f.vowel = v
	i := int(v)
	if i >= len(vowels)-1 {
		i = len(vowels) - 2
	}
	frac := v - float64(i)
	for b := range f.bands {
		hz := vowels[i][b] + frac*(vowels[i+1][b]-vowels[i][b])
		f.bands[b].setCoefficients(hz/(f.sampleRate/2), f.q)
	}
}

func (f *formant) setResonance(r float64) {
	if r >= 0 && r < 0.5 {
		f.q = 0.5 + r
		f.setVowel(f.vowel)
	}
}

func (f *formant) tick(in float64) float64 {
	var out float64
	for b := range f.bands {
		_, bp, _ := f.bands[b].tick(in)
		out += vowelGains[b] * bp
	}
	return out
}

// Filter is a multi-mode filter on its first input. The cutoff input is
// clamped to [0, 1) for the ladder modes. Resonance applies in [0, 0.5) and is
// read once per block.
type Filter struct {
	node
	mode    FilterMode
	ladder  ladder
	formant formant
}

func NewFilter(mode FilterMode, sampleRate int) *Filter {
	return &Filter{
		node:    newNode(KindFilter, 3),
		mode:    mode,
		ladder:  newLadder(mode, sampleRate),
		formant: newFormant(sampleRate),
	}
}

func (f *Filter) Mode() FilterMode { return f.mode }

func (f *Filter) Trigger(t float64) { f.triggerChildren(t) }

func (f *Filter) setCutoff(c float64) {
	if f.mode == Formant {
		f.formant.setVowel(c)
	} else {
		f.ladder.setCutoff(c)
	}
}

func (f *Filter) tick(in float64) float64 {
	if f.mode == Formant {
		return f.formant.tick(in)
	}
	return f.ladder.tick(in)
}

func (f *Filter) Process(n int) {
	f.prepare(n)
	in := f.signal(0)
	if in == nil {
		f.silence()
		return
	}
	if f.ChildExists(2) {
		r := f.cv(2, 0)
		if f.mode == Formant {
			f.formant.setResonance(r)
		} else {
			f.ladder.setResonance(r)
		}
	}

	c, cs := f.input(1, 0)
	if cs == nil {
		if f.ChildExists(1) {
			f.setCutoff(c)
		}
		for i := range f.out {
			f.out[i] = f.tick(in[i])
		}
		return
	}
	for i := range f.out {
		f.setCutoff(cs[i])
		f.out[i] = f.tick(in[i])
	}
}
