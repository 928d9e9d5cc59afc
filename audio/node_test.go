package audio

import (
	"math"
	"testing"

	"github.com/mrdg/synthgraph/samples"
)

// source is a signal node that plays back fixed data and then holds the last
// value.
type source struct {
	node
	data []float64
	pos  int
}

func newSource(data ...float64) *source {
	return &source{node: newNode(KindOsc, 0), data: data}
}

func (s *source) Trigger(float64) {}

func (s *source) Process(n int) {
	s.grow(n)
	for i := range s.out {
		if s.pos < len(s.data) {
			s.out[i] = s.data[s.pos]
			s.pos++
		} else if len(s.data) > 0 {
			s.out[i] = s.data[len(s.data)-1]
		}
	}
}

func ramp01(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i) / float64(n-1)
	}
	return data
}

func wire(parent Node, children ...Node) Node {
	for i, c := range children {
		if c != nil {
			parent.base().SetChild(i, c)
		}
	}
	return parent
}

func testStore() *samples.Store {
	store := samples.NewStore()
	store.Put(0, samples.New([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 44100))
	return store
}

// every node kind with its inputs left empty
func allNodes() map[string]Node {
	const sr = 44100
	store := testStore()
	return map[string]Node{
		"terminal": NewTerminal(1),
		"osc":      NewOsc(Saw, sr),
		"lfo":      NewLFO(Sine, sr),
		"adsr":     NewADSR(sr),
		"ramp":     NewRamp(sr),
		"deltrig":  NewDelayTrigger(),
		"math":     NewMath(Div),
		"scale":    NewScale(BiToUni),
		"xfade":    NewXFade(),
		"hold":     NewHold(Latch),
		"filter":   NewFilter(LowPass, sr),
		"formant":  NewFilter(Formant, sr),
		"pluck":    NewPluck(sr),
		"svf":      NewSVF(),
		"sample":   NewSampleNode(store, sr),
		"scrub":    NewScrubNode(store),
		"clip":     NewEffect(Clip, sr),
		"delay":    NewEffect(Delay, sr),
	}
}

func checkFinite(t *testing.T, name string, out []float64) {
	t.Helper()
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s: sample %d is %v", name, i, v)
		}
	}
}

func TestOutputLength(t *testing.T) {
	for name, n := range allNodes() {
		n.Trigger(0)
		for _, size := range []int{64, 1, 512, 100} {
			n.Process(size)
			if want, got := size, len(n.Output()); want != got {
				t.Errorf("%s: want %d samples, got %d", name, want, got)
			}
			checkFinite(t, name, n.Output())
		}
	}
}

func TestOutputLengthWithSignals(t *testing.T) {
	for name, n := range allNodes() {
		for i := 0; i < n.Arity(); i++ {
			n.base().SetChild(i, newSource(ramp01(300)...))
		}
		n.Trigger(0)
		for _, size := range []int{128, 256, 32} {
			n.Process(size)
			if want, got := size, len(n.Output()); want != got {
				t.Errorf("%s: want %d samples, got %d", name, want, got)
			}
			checkFinite(t, name, n.Output())
		}
	}
}

func TestGrowKeepsContents(t *testing.T) {
	n := newNode(KindMath, 0)
	n.grow(4)
	copy(n.out, []float64{1, 2, 3, 4})
	n.grow(2)
	n.grow(8)
	if want, got := []float64{1, 2, 3, 4, 0, 0, 0, 0}, n.out; !equal(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	c := cap(n.out)
	n.grow(3)
	if want, got := c, cap(n.out); want != got {
		t.Errorf("capacity shrank from %d to %d", want, got)
	}
}

func TestCVValue(t *testing.T) {
	if want, got := 3.5, NewTerminal(3.5).CVValue(); want != got {
		t.Errorf("terminal: want %v, got %v", want, got)
	}

	src := newSource(1, 2, 3, 4, 5, 6)
	if want, got := 0.0, src.CVValue(); want != got {
		t.Errorf("unprocessed: want %v, got %v", want, got)
	}
	src.Process(4)
	if want, got := 4.0, src.CVValue(); want != got {
		t.Errorf("want last sample %v, got %v", want, got)
	}
	if want, got := 0.0, src.Value(); want != got {
		t.Errorf("Value of a signal: want %v, got %v", want, got)
	}
}

func TestTerminal(t *testing.T) {
	term := NewTerminal(2)
	if !term.IsTerminal() {
		t.Errorf("terminal is not terminal")
	}
	if NewOsc(Sine, 44100).IsTerminal() {
		t.Errorf("oscillator is terminal")
	}
	term.Process(8)
	term.Process(16)
	for i, v := range term.Output() {
		if v != 2 {
			t.Fatalf("sample %d: want 2, got %v", i, v)
		}
	}
	if want, got := 0, term.Arity(); want != got {
		t.Errorf("want arity %d, got %d", want, got)
	}
}

func TestChildExists(t *testing.T) {
	m := NewMath(Add)
	m.SetChild(1, NewTerminal(1))
	for i, want := range []bool{false, true, false} {
		if got := m.ChildExists(i); want != got {
			t.Errorf("slot %d: want %v, got %v", i, want, got)
		}
	}
	if m.Child(0) != nil || m.Child(-1) != nil {
		t.Errorf("expected no child")
	}
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func near(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
