package audio

import "math"

// svf is a topology preserving transform state variable filter (Simper).
type svf struct {
	k          float64
	a1, a2, a3 float64
	ic1, ic2   float64
}

// setCoefficients takes the cutoff as a fraction of the Nyquist frequency and a
// resonance in [0, 1).
func (s *svf) setCoefficients(cutoff, resonance float64) {
	cutoff = clamp(finite(cutoff, 0.5), 0, 0.998)
	resonance = clamp(finite(resonance, 0), 0, 0.98)
	g := math.Tan(math.Pi / 2 * cutoff)
	s.k = 2 - 2*resonance
	s.a1 = 1 / (1 + g*(g+s.k))
	s.a2 = g * s.a1
	s.a3 = g * s.a2
}

func (s *svf) tick(x float64) (lp, bp, hp float64) {
	v3 := x - s.ic2
	v1 := s.a1*s.ic1 + s.a2*v3
	v2 := s.ic2 + s.a2*s.ic1 + s.a3*v3
	s.ic1 = 2*v1 - s.ic1
	s.ic2 = 2*v2 - s.ic2
	if math.IsNaN(s.ic1) || math.IsInf(s.ic1, 0) || math.IsNaN(s.ic2) || math.IsInf(s.ic2, 0) {
		s.ic1, s.ic2 = 0, 0
		return 0, 0, 0
	}
	return v2, v1, x - s.k*v1 - v2
}

// svfMix maps a blend in [-1, 1] to low, band and high pass amounts. -1 is a
// pure lowpass, 0 bandpass and 1 highpass.
func svfMix(blend float64) (low, band, high float64) {
	blend = clamp(finite(blend, 0), -1, 1)
	band = math.Sqrt(math.Max(0, 1-blend*blend))
	if blend < 0 {
		return -blend, band, 0
	}
	return 0, band, blend
}

// SVF is a state variable filter with modulatable cutoff, resonance and
// blend inputs. Cutoff is a fraction of the Nyquist frequency (default 0.5),
// resonance lies in [0, 1) (default 0) and blend in [-1, 1] sweeps from
// lowpass through bandpass to highpass (default -1).
//
// Only a signal input is filtered. A terminal or absent signal input gives
// silence whatever the parameters are.
type SVF struct {
	node
	svf svf
}

func NewSVF() *SVF {
	s := &SVF{node: newNode(KindSVF, 4)}
	s.svf.setCoefficients(0.5, 0)
	return s
}

func (s *SVF) Trigger(t float64) { s.triggerChildren(t) }

func (s *SVF) Process(n int) {
	s.prepare(n)
	in := s.signal(0)
	if in == nil {
		s.silence()
		return
	}
	c, cs := s.input(1, 0.5)
	r, rs := s.input(2, 0)
	b, bs := s.input(3, -1)
	out := s.out

	switch {
	case cs == nil && rs == nil && bs == nil:
		s.svf.setCoefficients(c, r)
		lo, band, hi := svfMix(b)
		for i := range out {
			l, m, h := s.svf.tick(in[i])
			out[i] = lo*l + band*m + hi*h
		}
	case cs == nil && rs == nil:
		s.svf.setCoefficients(c, r)
		for i := range out {
			lo, band, hi := svfMix(bs[i])
			l, m, h := s.svf.tick(in[i])
			out[i] = lo*l + band*m + hi*h
		}
	default:
		for i := range out {
			if cs != nil {
				c = cs[i]
			}
			if rs != nil {
				r = rs[i]
			}
			if bs != nil {
				b = bs[i]
			}
			s.svf.setCoefficients(c, r)
			lo, band, hi := svfMix(b)
			l, m, h := s.svf.tick(in[i])
			out[i] = lo*l + band*m + hi*h
		}
	}
}
