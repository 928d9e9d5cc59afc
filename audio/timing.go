package audio

import "math"

// ADSR is an envelope generator. Its four inputs (attack, decay, sustain level,
// release) are sampled as control values when the node is triggered.
type ADSR struct {
	node
	env envelope
}

func NewADSR(sampleRate int) *ADSR {
	return &ADSR{node: newNode(KindADSR, 4), env: newEnvelope(sampleRate)}
}

func (a *ADSR) Trigger(t float64) {
	a.triggerChildren(t)
	if a.ChildExists(0) {
		a.env.attack = finite(a.cv(0, 0), 0)
	}
	if a.ChildExists(1) {
		a.env.decay = finite(a.cv(1, 0), 0)
	}
	if a.ChildExists(2) {
		a.env.sustain = finite(a.cv(2, 0), 0)
	}
	if a.ChildExists(3) {
		a.env.release = finite(a.cv(3, 0), 0)
	}
	a.env.startAttack(t)
}

func (a *ADSR) Process(n int) {
	a.prepare(n)
	a.env.process(a.out)
}

// Ramp moves from its start input to its end input over a duration, all three
// sampled when the node is triggered.
type Ramp struct {
	node
	ramp ramp
}

func NewRamp(sampleRate int) *Ramp {
	return &Ramp{node: newNode(KindRamp, 3), ramp: newRamp(sampleRate)}
}

func (r *Ramp) Trigger(t float64) {
	r.triggerChildren(t)
	if r.ChildExists(0) {
		r.ramp.from = finite(r.cv(0, 0), 0)
	}
	if r.ChildExists(1) {
		r.ramp.to = finite(r.cv(1, 0), 0)
	}
	if r.ChildExists(2) {
		r.ramp.dur = finite(r.cv(2, 0), 0)
	}
	r.ramp.trigger(t)
}

func (r *Ramp) Process(n int) {
	r.prepare(n)
	r.ramp.process(r.out)
}

// DelayTrigger postpones the start of its first input's subgraph by the
// absolute value of its second input, in seconds. Only the clocks are shifted;
// the audio passes through unchanged.
type DelayTrigger struct {
	node
}

func NewDelayTrigger() *DelayTrigger {
	return &DelayTrigger{node: newNode(KindDelayTrigger, 2)}
}

func (d *DelayTrigger) Trigger(t float64) {
	// the delay input runs on the undelayed clock so its control value is ready
	if c := d.Child(1); c != nil {
		c.Trigger(t)
	}
	delay := math.Abs(finite(d.cv(1, 0), 0))
	if c := d.Child(0); c != nil {
		c.Trigger(t - delay)
	}
}

func (d *DelayTrigger) Process(n int) {
	d.prepare(n)
	v, sig := d.input(0, 0)
	if sig != nil {
		copy(d.out, sig)
		return
	}
	fill(d.out, v)
}
