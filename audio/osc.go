package audio

import "math"

const (
	defaultFreq = 440.0
	// DefaultSampleRate is the rate used by presets and the host unless configured otherwise.
	DefaultSampleRate = 44100
)

// countdown delays the start of a timed generator. Trigger times are relative
// to the first sample of the next buffer, so a negative time means the event
// starts that many seconds in the future.
type countdown struct {
	sampleRate float64
	remaining  int
}

func (c *countdown) set(t float64) {
	c.remaining = 0
	if t < 0 {
		c.remaining = int(math.Round(-t * c.sampleRate))
	}
}

// tick reports whether the generator is still waiting at the current sample.
func (c *countdown) tick() bool {
	if c.remaining > 0 {
		c.remaining--
		return true
	}
	return false
}

// Osc is a wavetable oscillator with an optional frequency input. A constant
// frequency is latched when triggered (440 Hz when the input is missing); a
// signal input modulates the frequency per sample.
type Osc struct {
	node
	wt wavetable
}

func NewOsc(shape Shape, sampleRate int) *Osc {
	return &Osc{node: newNode(KindOsc, 1), wt: newWavetable(shape, sampleRate)}
}

func (o *Osc) Shape() Shape { return o.wt.shape }

func (o *Osc) Trigger(t float64) {
	o.triggerChildren(t)
	freq := defaultFreq
	if c := o.Child(0); c != nil && c.IsTerminal() {
		freq = c.Value()
	}
	o.wt.trigger(freq)
}

func (o *Osc) Process(n int) {
	o.prepare(n)
	if fm := o.signal(0); fm != nil {
		o.wt.processFM(o.out, fm)
	} else {
		o.wt.process(o.out)
	}
}

// LFO is a low frequency oscillator whose input is the period of one cycle in
// seconds (default 1). Its output lies in [0, 1] and it only starts running at
// the trigger time.
type LFO struct {
	node
	wt    wavetable
	start countdown
}

func NewLFO(shape Shape, sampleRate int) *LFO {
	l := &LFO{
		node:  newNode(KindLFO, 1),
		wt:    newWavetable(shape, sampleRate),
		start: countdown{sampleRate: float64(sampleRate)},
	}
	l.wt.freq = 1
	return l
}

func (l *LFO) Shape() Shape { return l.wt.shape }

func (l *LFO) Trigger(t float64) {
	l.triggerChildren(t)
	period := 1.0
	if c := l.Child(0); c != nil && c.IsTerminal() {
		if p := math.Abs(c.Value()); p > 0 {
			period = p
		}
	}
	l.wt.trigger(1 / period)
	l.start.set(t)
}

func (l *LFO) Process(n int) {
	l.prepare(n)
	period := l.signal(0)
	inc := l.wt.freq / l.wt.sampleRate
	for i := range l.out {
		l.out[i] = 0.5*l.wt.read() + 0.5
		if l.start.tick() {
			continue
		}
		if period != nil {
			if p := math.Abs(period[i]); p > 0 {
				inc = 1 / (p * l.wt.sampleRate)
			}
		}
		l.wt.advance(inc)
	}
}
