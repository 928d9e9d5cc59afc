package audio

import "math"

const (
	minPluckFreq = 20.0
	// seed of the excitation noise, fixed so renders are reproducible
	pluckSeed = 0x2545f4914f6cdd1d
)

// karplus is a Karplus-Strong string: a delay line of one period, filled with
// a noise burst and fed back through a two point lowpass.
type karplus struct {
	sampleRate float64
	line       []float64
	pos        int
	prev       float64
	noise      uint64

	// blend of the two point average: 0.5 is the classic string, 1 leaves
	// the loop unfiltered
	blend    float64
	feedback float64
	start    countdown
	plucked  bool
}

func newKarplus(sampleRate int) karplus {
	k := karplus{
		sampleRate: float64(sampleRate),
		noise:      pluckSeed,
		start:      countdown{sampleRate: float64(sampleRate)},
	}
	k.line = make([]float64, 0, int(k.sampleRate/minPluckFreq)+1)
	k.setCutoff(0.5)
	k.setResonance(0.25)
	return k
}

// setCutoff takes the loop brightness in [0, 1).
func (k *karplus) setCutoff(c float64) {
	if c >= 0 && c < 1 {
		k.blend = 0.5 + 0.5*c
	}
}

// setResonance takes the sustain in [0, 0.5).
func (k *karplus) setResonance(r float64) {
	if r >= 0 && r < 0.5 {
		k.feedback = 1 - (0.5-r)*0.02
	}
}

func (k *karplus) rand() float64 {
	k.noise ^= k.noise << 13
	k.noise ^= k.noise >> 7
	k.noise ^= k.noise << 17
	return float64(k.noise>>11)/(1<<53)*2 - 1
}

func (k *karplus) trigger(t, freq float64) {
	if !(freq > 0) || math.IsInf(freq, 0) {
		freq = defaultFreq
	}
	freq = clamp(freq, minPluckFreq, k.sampleRate/2)
	size := int(math.Round(k.sampleRate / freq))
	if size < 2 {
		size = 2
	}
	if size > cap(k.line) {
		k.line = make([]float64, size)
	}
	k.line = k.line[:size]
	for i := range k.line {
		k.line[i] = k.rand()
	}
	k.pos = 0
	k.prev = 0
	k.plucked = true
	k.start.set(t)
}

func (k *karplus) process(out []float64) {
	for i := range out {
		if !k.plucked || k.start.tick() {
			out[i] = 0
			continue
		}
		y := k.line[k.pos]
		k.line[k.pos] = k.feedback * (k.blend*y + (1-k.blend)*k.prev)
		k.prev = y
		k.pos++
		if k.pos == len(k.line) {
			k.pos = 0
		}
		out[i] = y
	}
}

// Pluck is a plucked string. The frequency input is read when the node is
// triggered (440 Hz by default). Cutoff in [0, 1) sets the brightness and
// resonance in [0, 0.5) the sustain; both are read once per block and only
// from terminal inputs.
type Pluck struct {
	node
	ks karplus
}

func NewPluck(sampleRate int) *Pluck {
	return &Pluck{node: newNode(KindPluck, 3), ks: newKarplus(sampleRate)}
}

func (p *Pluck) Trigger(t float64) {
	p.triggerChildren(t)
	freq := defaultFreq
	if c := p.Child(0); c != nil && c.IsTerminal() {
		freq = c.Value()
	}
	p.ks.trigger(t, freq)
}

func (p *Pluck) Process(n int) {
	p.prepare(n)
	if c := p.Child(1); c != nil && c.IsTerminal() {
		p.ks.setCutoff(c.Value())
	}
	if c := p.Child(2); c != nil && c.IsTerminal() {
		p.ks.setResonance(c.Value())
	}
	p.ks.process(p.out)
}
