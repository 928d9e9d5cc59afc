package audio

import (
	"testing"

	"github.com/mrdg/synthgraph/samples"
)

func untouched(n int) []float64 { return constant(-1, n) }

func TestSampler(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		want []float64
	}{
		{"original speed", 440, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9, 9}},
		{"half speed", 220, []float64{0, 0.5, 1, 1.5, 2, 2.5}},
		{"reverse", -440, []float64{9, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 0}},
		{"stopped", 0, []float64{0, 0, 0}},
	}
	for _, test := range tests {
		s := NewSampler(testStore(), 44100)
		s.SetStartTime(0)
		out := untouched(len(test.want))
		s.Process(out, test.freq)
		if !near(test.want, out, 1e-9) {
			t.Errorf("%s: want %v, got %v", test.name, test.want, out)
		}
	}
}

func TestSamplerPosition(t *testing.T) {
	s := NewSampler(testStore(), 44100)
	s.SetStartTime(0)
	s.Process(make([]float64, 4), 440)
	if want, got := 3.0, s.Position(); want-got > 1e-9 || got-want > 1e-9 {
		t.Errorf("want position %v, got %v", want, got)
	}
	s.Process(make([]float64, 100), 440)
	if want, got := 10.0, s.Position(); want != got {
		t.Errorf("position is not clamped to the length: %v", got)
	}
}

func TestSamplerWait(t *testing.T) {
	s := NewSampler(testStore(), 1000)
	s.SetStartTime(-0.003)
	out := untouched(6)
	s.Process(out, 440)
	if want := []float64{-1, -1, -1, 0, 1, 2}; !near(want, out, 1e-9) {
		t.Errorf("want %v, got %v", want, out)
	}
}

func TestSamplerSignal(t *testing.T) {
	s := NewSampler(testStore(), 44100)
	s.SetStartTime(0)
	out := untouched(5)
	s.ProcessSignal(out, []float64{440, 440, 880, 0, -440})
	if want := []float64{0, 1, 3, 3, 2}; !near(want, out, 1e-9) {
		t.Errorf("want %v, got %v", want, out)
	}
}

func TestSamplerMissing(t *testing.T) {
	store := testStore()
	store.Reserve(1)

	for _, id := range []int{1, 5} {
		s := NewSampler(store, 44100)
		s.SetSampleID(id)
		s.SetStartTime(0)
		out := untouched(4)
		s.Process(out, 440)
		if want := untouched(4); !equal(want, out) {
			t.Errorf("sample %d: output was modified: %v", id, out)
		}
	}

	s := NewSampler(store, 44100)
	out := untouched(4)
	s.Process(out, 440)
	if want := untouched(4); !equal(want, out) {
		t.Errorf("untriggered sampler modified the output: %v", out)
	}

	s = NewSampler(nil, 44100)
	s.SetStartTime(0)
	s.Process(out, 440)
	if want := untouched(4); !equal(want, out) {
		t.Errorf("sampler without a store modified the output: %v", out)
	}
}

func TestSamplerLoadWhilePlaying(t *testing.T) {
	store := testStore()
	store.Reserve(2)
	s := NewSampler(store, 44100)
	s.SetSampleID(2)
	s.SetStartTime(0)
	out := make([]float64, 3)
	s.Process(out, 440)

	store.Put(2, samples.New([]float64{5, 6, 7}, 44100))
	s.Process(out, 440)
	if want := []float64{5, 6, 7}; !near(want, out, 1e-9) {
		t.Errorf("want %v, got %v", want, out)
	}
}

func TestScrubber(t *testing.T) {
	s := NewScrubber(testStore())
	out := untouched(7)
	s.Process(out, []float64{0, 0.25, 0.5, -1, 2, 1, 0.1})
	if want := []float64{0, 2.5, 5, 5, 5, 9, 1}; !near(want, out, 1e-9) {
		t.Errorf("want %v, got %v", want, out)
	}
	if want, got := 1.0, s.Position(); want != got {
		t.Errorf("want position %v, got %v", want, got)
	}

	s.SetSampleID(3)
	out = untouched(2)
	s.Process(out, []float64{0.5, 0.5})
	if want := untouched(2); !equal(want, out) {
		t.Errorf("missing sample modified the output: %v", out)
	}
}

func TestSampleNode(t *testing.T) {
	store := testStore()
	store.Put(1, samples.New([]float64{4, 3, 2}, 44100))

	n := NewSampleNode(store, 44100)
	n.Process(4)
	if want, got := constant(0, 4), n.Output(); !equal(want, got) {
		t.Errorf("untriggered: want silence, got %v", got)
	}

	tests := []struct {
		name string
		id   Node
		rate Node
		want []float64
	}{
		{"default rate", NewTerminal(0), nil, []float64{0, 1, 2, 3}},
		{"constant rate", NewTerminal(1), NewTerminal(440), []float64{4, 3, 2, 2}},
		{"signal rate", nil, newSource(880, 880, 880, 880), []float64{0, 2, 4, 6}},
		{"missing id", NewTerminal(9), nil, []float64{0, 0, 0, 0}},
	}
	for _, test := range tests {
		n := wire(NewSampleNode(store, 44100), test.id, test.rate)
		n.Trigger(0)
		n.Process(len(test.want))
		if !near(test.want, n.Output(), 1e-9) {
			t.Errorf("%s: want %v, got %v", test.name, test.want, n.Output())
		}
	}
}

func TestSampleNodeRetrigger(t *testing.T) {
	n := wire(NewSampleNode(testStore(), 1000), NewTerminal(0))
	n.Trigger(0)
	n.Process(3)
	n.Trigger(-0.002)
	n.Process(5)
	if want := []float64{0, 0, 0, 1, 2}; !near(want, n.Output(), 1e-9) {
		t.Errorf("want %v, got %v", want, n.Output())
	}
}

func TestScrubNode(t *testing.T) {
	n := wire(NewScrubNode(testStore()), NewTerminal(0), NewTerminal(0.5))
	n.Trigger(0)
	n.Process(3)
	if want, got := constant(0, 3), n.Output(); !equal(want, got) {
		t.Errorf("constant position: want silence, got %v", got)
	}

	n = wire(NewScrubNode(testStore()), NewTerminal(0), newSource(0, 0.5, 0.8))
	n.Trigger(0)
	n.Process(3)
	if want := []float64{0, 5, 8}; !near(want, n.Output(), 1e-9) {
		t.Errorf("want %v, got %v", want, n.Output())
	}
}
