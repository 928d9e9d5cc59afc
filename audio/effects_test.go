package audio

import (
	"math"
	"testing"
)

func TestClip(t *testing.T) {
	in := []float64{2, -3, 0.5, -0.25}
	tests := []struct {
		level Node
		want  []float64
	}{
		{nil, []float64{1, -1, 0.5, -0.25}},
		{NewTerminal(0.5), []float64{0.5, -0.5, 0.5, -0.25}},
		{NewTerminal(-0.5), []float64{0.5, -0.5, 0.5, -0.25}},
		{newSource(1, 1, 0.1, 0), []float64{1, -1, 0.1, 0}},
	}
	for _, test := range tests {
		e := wire(NewEffect(Clip, 44100), newSource(in...), test.level)
		e.Process(len(in))
		if !equal(test.want, e.Output()) {
			t.Errorf("want %v, got %v", test.want, e.Output())
		}
	}
}

func TestDistort(t *testing.T) {
	in := []float64{-1, -0.5, 0, 0.25, 1}
	e := wire(NewEffect(Distort, 44100), newSource(in...))
	e.Process(len(in))
	if !equal(in, e.Output()) {
		t.Errorf("zero drive: want %v, got %v", in, e.Output())
	}

	e = wire(NewEffect(Distort, 44100), newSource(in...), NewTerminal(4))
	e.Process(len(in))
	out := e.Output()
	for i := range out {
		if math.Abs(out[i]) > 1 {
			t.Errorf("sample %d out of range: %v", i, out[i])
		}
		if i > 0 && out[i] < out[i-1] {
			t.Errorf("waveshaper is not monotonic at %d", i)
		}
		if in[i] != 0 && math.Abs(out[i]) < math.Abs(in[i]) {
			t.Errorf("sample %d was attenuated: %v -> %v", i, in[i], out[i])
		}
	}
	if want, got := 1.0, out[4]; want != got {
		t.Errorf("full scale: want %v, got %v", want, got)
	}
}

func TestCrush(t *testing.T) {
	in := []float64{0.3, 0.2, -0.8, 0.9}
	e := wire(NewEffect(Crush, 44100), newSource(in...), NewTerminal(2))
	e.Process(len(in))
	if want, got := []float64{0.5, 0, -1, 1}, e.Output(); !equal(want, got) {
		t.Errorf("bits: want %v, got %v", want, got)
	}

	e = wire(NewEffect(Crush, 44100), newSource(in...), NewTerminal(2), NewTerminal(0.5))
	e.Process(len(in))
	if want, got := []float64{0, 0, 0, 1}, e.Output(); !equal(want, got) {
		t.Errorf("rate: want %v, got %v", want, got)
	}

	in = []float64{0.3, 0.2, -0.8, 0.9, 0.1, 0.6}
	e = wire(NewEffect(Crush, 44100), newSource(in...), NewTerminal(2), NewTerminal(0.3))
	e.Process(len(in))
	if want, got := []float64{0, 0, -1, -1, -1, 0.5}, e.Output(); !equal(want, got) {
		t.Errorf("hold of 3: want %v, got %v", want, got)
	}

	// the default of 8 bits keeps most of the signal
	e = wire(NewEffect(Crush, 44100), newSource(in...))
	e.Process(len(in))
	if !near(in, e.Output(), 1.0/256) {
		t.Errorf("defaults: want about %v, got %v", in, e.Output())
	}
}

func impulse(n, at int) []float64 {
	data := make([]float64, n)
	data[at] = 1
	return data
}

func TestDelayEcho(t *testing.T) {
	e := wire(NewEffect(Delay, 1000), newSource(impulse(7, 0)...), NewTerminal(0.003), NewTerminal(0))
	e.Process(7)
	if want, got := []float64{1, 0, 0, 1, 0, 0, 0}, e.Output(); !equal(want, got) {
		t.Errorf("no feedback: want %v, got %v", want, got)
	}

	e = wire(NewEffect(Delay, 1000), newSource(impulse(10, 0)...), NewTerminal(0.003), NewTerminal(0.5))
	e.Process(10)
	if want, got := []float64{1, 0, 0, 1, 0, 0, 0.5, 0, 0, 0.25}, e.Output(); !equal(want, got) {
		t.Errorf("feedback: want %v, got %v", want, got)
	}
}

func TestDelayAcrossBuffers(t *testing.T) {
	e := wire(NewEffect(Delay, 1000), newSource(impulse(8, 2)...), NewTerminal(0.004), NewTerminal(0))
	e.Process(4)
	e.Process(4)
	if want, got := []float64{0, 0, 1, 0}, e.Output(); !equal(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestDelayGrow(t *testing.T) {
	e := NewEffect(Delay, 1000)
	e.SetChild(0, newSource(0, 0, 0, 1, 0, 0, 0, 0))
	e.SetChild(1, NewTerminal(0.002))
	e.SetChild(2, NewTerminal(0))
	e.Process(4)
	if want, got := []float64{0, 0, 0, 1}, e.Output(); !equal(want, got) {
		t.Errorf("first buffer: want %v, got %v", want, got)
	}

	// a longer delay still reads the history written before the line grew
	e.SetChild(1, NewTerminal(0.004))
	e.Process(4)
	if want, got := []float64{0, 0, 0, 1}, e.Output(); !equal(want, got) {
		t.Errorf("after growing: want %v, got %v", want, got)
	}
	if want, got := 4, e.line.Len(); want != got {
		t.Errorf("want a line of %d samples, got %d", want, got)
	}
}

func TestDelayLimits(t *testing.T) {
	e := wire(NewEffect(Delay, 1000), newSource(noise(100)...), NewTerminal(60), NewTerminal(3))
	e.Process(100)
	checkFinite(t, "delay", e.Output())
	d := e.(*Effect)
	if want, got := int(maxDelayTime*1000), d.line.Len(); want != got {
		t.Errorf("want the line capped at %d samples, got %d", want, got)
	}
}

func TestEffectSilence(t *testing.T) {
	for _, typ := range []EffectType{Clip, Distort, Crush, Delay} {
		e := NewEffect(typ, 44100)
		e.Process(4)
		if want, got := constant(0, 4), e.Output(); !equal(want, got) {
			t.Errorf("%v without input: want silence, got %v", typ, got)
		}
		e.SetChild(0, NewTerminal(1))
		e.Process(4)
		if want, got := constant(0, 4), e.Output(); !equal(want, got) {
			t.Errorf("%v with terminal input: want silence, got %v", typ, got)
		}
	}
}
