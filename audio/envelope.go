package audio

import "math"

type envelopeState int

const (
	stateInit envelopeState = iota
	stateWait
	stateAttack
	stateDecay
	stateRelease
)

// envelope ramps 0 -> 1 over the attack, falls to the sustain level over the
// decay and then releases to 0. Events have no note off, so the release follows
// the decay directly.
type envelope struct {
	attack  float64
	decay   float64
	sustain float64
	release float64

	attackRate  float64
	decayRate   float64
	releaseRate float64

	val   float64
	state envelopeState
	start countdown
}

func newEnvelope(sampleRate int) envelope {
	return envelope{
		decay:   1,
		start:   countdown{sampleRate: float64(sampleRate)},
		sustain: 0,
	}
}

func (e *envelope) value() float64 {
	switch e.state {
	case stateInit:
		return 0
	case stateWait:
		if e.start.tick() {
			return 0
		}
		e.state = stateAttack
		fallthrough
	case stateAttack:
		e.val += e.attackRate
		if e.val >= 1 {
			e.val = 1
			e.state = stateDecay
		}
	case stateDecay:
		e.val -= e.decayRate
		if e.val <= e.sustain {
			e.val = e.sustain
			e.state = stateRelease
		}
	case stateRelease:
		e.val -= e.releaseRate
		if e.val <= 0 {
			e.val = 0
			e.state = stateInit
		}
	}
	return e.val
}

func (e *envelope) process(buf []float64) {
	for n := range buf {
		buf[n] = e.value()
	}
}

func (e *envelope) startAttack(t float64) {
	sr := e.start.sampleRate
	e.sustain = math.Max(0, math.Min(1, e.sustain))
	e.attackRate = stageRate(e.attack, 1, sr)
	e.decayRate = stageRate(e.decay, 1-e.sustain, sr)
	e.releaseRate = stageRate(e.release, e.sustain, sr)
	e.val = 0
	e.state = stateWait
	e.start.set(t)
}

// stageRate is the per sample step that covers span in d seconds. Stages of
// zero or negative length complete in a single sample.
func stageRate(d, span, sampleRate float64) float64 {
	if d <= 0 || math.IsNaN(d) {
		return span
	}
	return span / (d * sampleRate)
}

// ramp moves linearly from start to end over dur seconds and then holds end.
type ramp struct {
	from, to, dur float64

	pos     float64 // progress in [0, 1]
	inc     float64
	running bool
	start   countdown
}

func newRamp(sampleRate int) ramp {
	return ramp{to: 1, dur: 1, start: countdown{sampleRate: float64(sampleRate)}}
}

func (r *ramp) trigger(t float64) {
	r.pos = 0
	r.inc = stageRate(r.dur, 1, r.start.sampleRate)
	r.running = true
	r.start.set(t)
}

func (r *ramp) process(buf []float64) {
	for n := range buf {
		if !r.running || r.start.tick() {
			buf[n] = r.from
			continue
		}
		if r.pos >= 1 {
			buf[n] = r.to
			continue
		}
		buf[n] = r.from + (r.to-r.from)*r.pos
		r.pos += r.inc
	}
}
