package audio

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/delay"
	"github.com/cwbudde/algo-dsp/dsp/effects"
)

// EffectType selects the processing of an Effect node.
type EffectType int

const (
	Clip EffectType = iota
	Distort
	Crush
	Delay
)

func (e EffectType) String() string {
	switch e {
	case Clip:
		return "clip"
	case Distort:
		return "distort"
	case Crush:
		return "crush"
	case Delay:
		return "delay"
	}
	return "unknown"
}

const (
	maxDelayTime = 4.0
	maxFeedback  = 0.99
	maxCrushHold = 256
)

// growLine returns a delay line of at least size samples. The history of old
// is copied oldest first, so delays up to its length read the same samples.
func growLine(old *delay.Line, size int) *delay.Line {
	if old != nil && old.Len() >= size {
		return old
	}
	line, err := delay.New(size)
	if err != nil {
		return old
	}
	if old != nil {
		for d := old.Len(); d > 0; d-- {
			line.Write(old.Read(d))
		}
	}
	return line
}

// crushSettings maps bit depth and a hold rate in (0, 1] onto the crusher.
func crushSettings(c *effects.BitCrusher, bits, rate float64) {
	bits = clamp(finite(bits, 8), 1, 24)
	rate = clamp(finite(rate, 1), 1e-6, 1)
	hold := int(math.Round(1 / rate))
	if hold > maxCrushHold {
		hold = maxCrushHold
	}
	_ = c.SetBitDepth(bits)
	_ = c.SetDownsample(hold)
}

// Effect processes the signal on its first input. The meaning of the two
// amount inputs depends on the type:
//
//	clip     level of the hard clipper (default 1)
//	distort  drive of the waveshaper (default 0)
//	crush    bit depth in [1, 24] and hold rate in (0, 1] (default 8 and 1);
//	         each value is held for round(1/rate) samples, at most 256
//	delay    time in seconds up to 4 and feedback up to 0.99 (default 0.25 and 0.5)
//
// Crush and delay read their amounts once per block.
type Effect struct {
	node
	typ        EffectType
	sampleRate float64
	line       *delay.Line
	crusher    *effects.BitCrusher
}

func NewEffect(typ EffectType, sampleRate int) *Effect {
	e := &Effect{node: newNode(KindEffect, 3), typ: typ, sampleRate: float64(sampleRate)}
	if typ == Crush {
		e.crusher, _ = effects.NewBitCrusher(e.sampleRate)
	}
	return e
}

func (e *Effect) Type() EffectType { return e.typ }

func (e *Effect) Trigger(t float64) { e.triggerChildren(t) }

func (e *Effect) Process(n int) {
	e.prepare(n)
	in := e.signal(0)
	if in == nil {
		e.silence()
		return
	}
	switch e.typ {
	case Clip:
		e.clip(in)
	case Distort:
		e.distort(in)
	case Crush:
		e.crush(in)
	case Delay:
		e.delay(in)
	}
}

func (e *Effect) clip(in []float64) {
	level, sig := e.input(1, 1)
	if sig == nil {
		l := math.Abs(finite(level, 1))
		for i := range e.out {
			e.out[i] = clamp(in[i], -l, l)
		}
		return
	}
	for i := range e.out {
		l := math.Abs(finite(sig[i], 1))
		e.out[i] = clamp(in[i], -l, l)
	}
}

func distort(x, d float64) float64 {
	return (1 + d) * x / (1 + d*math.Abs(x))
}

func (e *Effect) distort(in []float64) {
	drive, sig := e.input(1, 0)
	if sig == nil {
		d := math.Max(0, finite(drive, 0))
		for i := range e.out {
			e.out[i] = distort(in[i], d)
		}
		return
	}
	for i := range e.out {
		e.out[i] = distort(in[i], math.Max(0, finite(sig[i], 0)))
	}
}

func (e *Effect) crush(in []float64) {
	if e.crusher == nil {
		e.silence()
		return
	}
	crushSettings(e.crusher, e.cv(1, 8), e.cv(2, 1))
	for i, x := range in {
		e.out[i] = e.crusher.ProcessSample(x)
	}
}

func (e *Effect) delay(in []float64) {
	t := clamp(finite(e.cv(1, 0.25), 0), 0, maxDelayTime)
	fb := clamp(finite(e.cv(2, 0.5), 0), 0, maxFeedback)
	size := int(math.Round(t * e.sampleRate))
	if size < 1 {
		size = 1
	}
	e.line = growLine(e.line, size)
	if e.line == nil {
		e.silence()
		return
	}
	for i, x := range in {
		y := e.line.Read(size)
		e.line.Write(x + fb*y)
		e.out[i] = x + y
	}
}
