package audio

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Op is a binary operator of a Math node.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Pow
)

func (op Op) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Pow:
		return "pow"
	}
	return "unknown"
}

// identity is the constant an absent operand reads as.
func (op Op) identity() float64 {
	if op == Add || op == Sub {
		return 0
	}
	return 1
}

// Math combines two inputs with a binary operator. Samples for which division
// or exponentiation is undefined are skipped and keep the value they had in the
// previous block (0 initially).
type Math struct {
	node
	op Op
}

func NewMath(op Op) *Math {
	return &Math{node: newNode(KindMath, 2), op: op}
}

func (m *Math) Op() Op { return m.op }

func (m *Math) Trigger(t float64) { m.triggerChildren(t) }

func (m *Math) Process(n int) {
	m.prepare(n)
	a, as := m.input(0, m.op.identity())
	b, bs := m.input(1, m.op.identity())
	out := m.out

	switch {
	case as == nil && bs == nil:
		if v, ok := apply(m.op, a, b); ok {
			fill(out, v)
		}
	case as == nil:
		switch m.op {
		case Add:
			for i := range out {
				out[i] = a + bs[i]
			}
		case Sub:
			for i := range out {
				out[i] = a - bs[i]
			}
		case Mul:
			vecmath.ScaleBlock(out, bs[:n], a)
		default:
			for i := range out {
				if v, ok := apply(m.op, a, bs[i]); ok {
					out[i] = v
				}
			}
		}
	case bs == nil:
		switch m.op {
		case Add:
			for i := range out {
				out[i] = as[i] + b
			}
		case Sub:
			for i := range out {
				out[i] = as[i] - b
			}
		case Mul:
			vecmath.ScaleBlock(out, as[:n], b)
		default:
			for i := range out {
				if v, ok := apply(m.op, as[i], b); ok {
					out[i] = v
				}
			}
		}
	default:
		switch m.op {
		case Add:
			copy(out, as)
			vecmath.AddBlockInPlace(out, bs[:n])
		case Sub:
			for i := range out {
				out[i] = as[i] - bs[i]
			}
		case Mul:
			vecmath.MulBlock(out, as[:n], bs[:n])
		default:
			for i := range out {
				if v, ok := apply(m.op, as[i], bs[i]); ok {
					out[i] = v
				}
			}
		}
	}
}

// apply evaluates op and reports whether the result is defined.
func apply(op Op, a, b float64) (float64, bool) {
	var v float64
	switch op {
	case Add:
		v = a + b
	case Sub:
		v = a - b
	case Mul:
		v = a * b
	case Div:
		if b == 0 {
			return 0, false
		}
		v = a / b
	case Pow:
		if a == 0 && b <= 0 {
			return 0, false
		}
		v = math.Pow(a, b)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// finite returns v, or def if v is NaN or infinite.
func finite(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
