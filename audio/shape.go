package audio

import "math"

// ScaleMode selects the mapping applied by a Scale node.
type ScaleMode int

const (
	// BiToUni maps [-1, 1] to [0, 1].
	BiToUni ScaleMode = iota
	// UniToBi maps [0, 1] to [-1, 1].
	UniToBi
	// Rect is a half wave rectifier.
	Rect
	// FullRect is a full wave rectifier.
	FullRect
)

func (m ScaleMode) String() string {
	switch m {
	case BiToUni:
		return "bi2uni"
	case UniToBi:
		return "uni2bi"
	case Rect:
		return "rect"
	case FullRect:
		return "fullrect"
	}
	return "unknown"
}

func (m ScaleMode) apply(x float64) float64 {
	switch m {
	case BiToUni:
		return 0.5*x + 0.5
	case UniToBi:
		return 2 * (x - 0.5)
	case Rect:
		return math.Max(x, 0)
	case FullRect:
		return math.Abs(x)
	}
	return x
}

type Scale struct {
	node
	mode ScaleMode
}

func NewScale(mode ScaleMode) *Scale {
	return &Scale{node: newNode(KindScale, 1), mode: mode}
}

func (s *Scale) Mode() ScaleMode { return s.mode }

func (s *Scale) Trigger(t float64) { s.triggerChildren(t) }

func (s *Scale) Process(n int) {
	s.prepare(n)
	v, sig := s.input(0, 0)
	if sig == nil {
		fill(s.out, s.mode.apply(v))
		return
	}
	for i := range s.out {
		s.out[i] = s.mode.apply(sig[i])
	}
}

// XFade mixes its first two inputs: out = a*(1-mix) + b*mix with the mix input
// clamped to [0, 1].
type XFade struct {
	node
}

func NewXFade() *XFade {
	return &XFade{node: newNode(KindXFade, 3)}
}

func (x *XFade) Trigger(t float64) { x.triggerChildren(t) }

func (x *XFade) Process(n int) {
	x.prepare(n)
	a, as := x.input(0, 0)
	b, bs := x.input(1, 0)
	m, ms := x.input(2, 0)
	out := x.out

	switch {
	case as == nil && bs == nil && ms == nil:
		m = clamp(m, 0, 1)
		fill(out, a*(1-m)+b*m)
	case as == nil && bs == nil:
		for i := range out {
			m := clamp(ms[i], 0, 1)
			out[i] = a*(1-m) + b*m
		}
	case as == nil && ms == nil:
		m = clamp(m, 0, 1)
		for i := range out {
			out[i] = a*(1-m) + bs[i]*m
		}
	case as == nil:
		for i := range out {
			m := clamp(ms[i], 0, 1)
			out[i] = a*(1-m) + bs[i]*m
		}
	case bs == nil && ms == nil:
		m = clamp(m, 0, 1)
		for i := range out {
			out[i] = as[i]*(1-m) + b*m
		}
	case bs == nil:
		for i := range out {
			m := clamp(ms[i], 0, 1)
			out[i] = as[i]*(1-m) + b*m
		}
	case ms == nil:
		m = clamp(m, 0, 1)
		for i := range out {
			out[i] = as[i]*(1-m) + bs[i]*m
		}
	default:
		for i := range out {
			m := clamp(ms[i], 0, 1)
			out[i] = as[i]*(1-m) + bs[i]*m
		}
	}
}

// HoldMode selects how a Hold node reacts to its gate.
type HoldMode int

const (
	// Latch samples the signal on every rising edge of the gate.
	Latch HoldMode = iota
	// Track follows the signal while the gate is open and holds otherwise.
	Track
)

func (m HoldMode) String() string {
	if m == Track {
		return "track"
	}
	return "latch"
}

// Hold is a sample and hold / track and hold on its first input, controlled by
// the gate on its second. The gate is open when it is above 0.
type Hold struct {
	node
	mode HoldMode
	held float64
	prev float64
}

func NewHold(mode HoldMode) *Hold {
	return &Hold{node: newNode(KindHold, 2), mode: mode}
}

func (h *Hold) Mode() HoldMode { return h.mode }

func (h *Hold) Trigger(t float64) { h.triggerChildren(t) }

func (h *Hold) Process(n int) {
	h.prepare(n)
	v, sig := h.input(0, 0)
	g, gate := h.input(1, 0)

	at := func(i int) float64 {
		if sig == nil {
			return v
		}
		return sig[i]
	}

	if gate == nil {
		open := g > 0
		switch {
		case h.mode == Latch && open && h.prev <= 0:
			h.held = at(0)
			fill(h.out, h.held)
		case h.mode == Track && open:
			for i := range h.out {
				h.out[i] = at(i)
			}
			if len(h.out) > 0 {
				h.held = h.out[len(h.out)-1]
			}
		default:
			fill(h.out, h.held)
		}
		h.prev = g
		return
	}

	for i := range h.out {
		open := gate[i] > 0
		switch h.mode {
		case Latch:
			if open && h.prev <= 0 {
				h.held = at(i)
			}
		case Track:
			if open {
				h.held = at(i)
			}
		}
		h.prev = gate[i]
		h.out[i] = h.held
	}
}
