package audio

import (
	"fmt"
	"sort"
)

// Preset is a named patch.
type Preset struct {
	Name  string
	Usage string
	build func(b *Builder) Handle
}

var presets = map[string]Preset{}

func addPreset(name, usage string, build func(b *Builder) Handle) {
	presets[name] = Preset{Name: name, Usage: usage, build: build}
}

// Presets returns all presets sorted by name.
func Presets() []Preset {
	var list []Preset
	for _, p := range presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// LoadPreset builds the named preset. Sample based presets read from store.
func LoadPreset(name string, store SampleStore, sampleRate int) (*Graph, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %v", name)
	}
	b := NewBuilder(store, sampleRate)
	root := p.build(b)
	return b.Finish(root)
}

// Builder wires a graph node by node, keeping the first error.
type Builder struct {
	Graph      *Graph
	Store      SampleStore
	SampleRate int
	err        error
}

func NewBuilder(store SampleStore, sampleRate int) *Builder {
	return &Builder{Graph: NewGraph(), Store: store, SampleRate: sampleRate}
}

// None marks an input that is left unconnected.
var None Handle

// Node adds n with the given inputs.
func (b *Builder) Node(n Node, inputs ...Handle) Handle {
	h := b.Graph.Add(n)
	for i, in := range inputs {
		if in == None || b.err != nil {
			continue
		}
		if err := b.Graph.Connect(h, i, in); err != nil {
			b.err = err
		}
	}
	return h
}

// Num adds a constant.
func (b *Builder) Num(v float64) Handle {
	return b.Graph.Add(NewTerminal(v))
}

// Finish makes root the root of the graph and returns it.
func (b *Builder) Finish(root Handle) (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.Graph.SetRoot(root); err != nil {
		return nil, err
	}
	return b.Graph, nil
}

func (b *Builder) osc(shape Shape, freq Handle) Handle {
	return b.Node(NewOsc(shape, b.SampleRate), freq)
}

func (b *Builder) lfo(shape Shape, period Handle) Handle {
	return b.Node(NewLFO(shape, b.SampleRate), period)
}

func (b *Builder) math(op Op, x, y Handle) Handle {
	return b.Node(NewMath(op), x, y)
}

func (b *Builder) adsr(a, d, s, r float64) Handle {
	return b.Node(NewADSR(b.SampleRate), b.Num(a), b.Num(d), b.Num(s), b.Num(r))
}

func init() {
	addPreset("pluck", "plucked string", func(b *Builder) Handle {
		str := b.Node(NewPluck(b.SampleRate), b.Num(220), b.Num(0.4), b.Num(0.3))
		return b.math(Mul, str, b.adsr(0.001, 2, 0, 0))
	})

	addPreset("bass", "saw bass through the ladder lowpass", func(b *Builder) Handle {
		cutoff := b.math(Add, b.Num(0.05), b.math(Mul, b.adsr(0.005, 0.3, 0, 0), b.Num(0.5)))
		filter := b.Node(NewFilter(LowPass, b.SampleRate), b.osc(Saw, b.Num(55)), cutoff, b.Num(0.3))
		return b.math(Mul, filter, b.adsr(0.005, 0.5, 0.3, 0.2))
	})

	addPreset("wobble", "saw/square blend through a swept state variable filter", func(b *Builder) Handle {
		blend := b.Node(NewXFade(), b.osc(Saw, b.Num(110)), b.osc(Square, b.Num(110.5)), b.lfo(Sine, b.Num(2)))
		sweep := b.math(Add, b.Num(0.02), b.math(Mul, b.lfo(Triangle, b.Num(0.25)), b.Num(0.3)))
		filtered := b.Node(NewSVF(), blend, sweep, b.Num(0.7), b.Num(-1))
		return b.math(Mul, filtered, b.adsr(0.01, 1.5, 0.5, 0.5))
	})

	addPreset("vowel", "formant filter moving from a to u", func(b *Builder) Handle {
		ramp := b.Node(NewRamp(b.SampleRate), b.Num(0), b.Num(4), b.Num(2))
		filter := b.Node(NewFilter(Formant, b.SampleRate), b.osc(Saw, b.Num(110)), ramp, b.Num(0.4))
		return b.math(Mul, filter, b.adsr(0.05, 2.5, 0, 0))
	})

	addPreset("random", "sample and hold melody", func(b *Builder) Handle {
		noise := b.Node(NewScale(BiToUni), b.osc(Noise, b.Num(1)))
		held := b.Node(NewHold(Latch), noise, b.osc(Square, b.Num(8)))
		pitch := b.math(Add, b.Num(220), b.math(Mul, held, b.Num(440)))
		tone := b.Node(NewScale(FullRect), b.osc(Triangle, pitch))
		return b.math(Mul, b.Node(NewScale(UniToBi), tone), b.adsr(0.01, 2, 0, 0))
	})

	addPreset("drums", "samples 0 and 1, the second a quarter second later", func(b *Builder) Handle {
		kick := b.Node(NewSampleNode(b.Store, b.SampleRate), b.Num(0), b.Num(440))
		snare := b.Node(NewSampleNode(b.Store, b.SampleRate), b.Num(1), b.Num(440))
		return b.math(Add, kick, b.Node(NewDelayTrigger(), snare, b.Num(0.25)))
	})

	addPreset("reverse", "sample 0 played backwards at half speed", func(b *Builder) Handle {
		return b.Node(NewSampleNode(b.Store, b.SampleRate), b.Num(0), b.Num(-220))
	})

	addPreset("scrub", "sample 0 scrubbed back and forth", func(b *Builder) Handle {
		return b.Node(NewScrubNode(b.Store), b.Num(0), b.lfo(Triangle, b.Num(4)))
	})

	addPreset("crush", "vibrato square through the bit crusher", func(b *Builder) Handle {
		vibrato := b.math(Add, b.Num(220), b.math(Mul, b.osc(Sine, b.Num(5)), b.Num(10)))
		crushed := b.Node(NewEffect(Crush, b.SampleRate), b.osc(Square, vibrato), b.Num(4), b.Num(0.25))
		fade := b.Node(NewRamp(b.SampleRate), b.Num(1), b.Num(0), b.Num(2))
		return b.math(Mul, crushed, fade)
	})

	addPreset("echo", "distorted pluck into a feedback delay", func(b *Builder) Handle {
		str := b.Node(NewPluck(b.SampleRate), b.Num(330), b.Num(0.6), b.Num(0.2))
		dist := b.Node(NewEffect(Distort, b.SampleRate), str, b.Num(4))
		clip := b.Node(NewEffect(Clip, b.SampleRate), dist, b.Num(0.8))
		return b.Node(NewEffect(Delay, b.SampleRate), clip, b.Num(0.3), b.Num(0.6))
	})
}
