package audio

// Kind identifies the behaviour of a node.
type Kind int

const (
	KindTerminal Kind = iota
	KindOsc
	KindLFO
	KindADSR
	KindRamp
	KindDelayTrigger
	KindMath
	KindScale
	KindXFade
	KindHold
	KindFilter
	KindPluck
	KindSVF
	KindSample
	KindScrub
	KindEffect
)

var kindNames = [...]string{
	KindTerminal:     "terminal",
	KindOsc:          "osc",
	KindLFO:          "lfo",
	KindADSR:         "adsr",
	KindRamp:         "ramp",
	KindDelayTrigger: "deltrig",
	KindMath:         "math",
	KindScale:        "scale",
	KindXFade:        "xfade",
	KindHold:         "hold",
	KindFilter:       "filter",
	KindPluck:        "pluck",
	KindSVF:          "svf",
	KindSample:       "sample",
	KindScrub:        "scrub",
	KindEffect:       "effect",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is a unit of the synthesis graph. The host calls Trigger once per event and
// then Process once per audio buffer; both recurse into the children first.
//
// The set of implementations is closed: every node embeds the unexported base type.
type Node interface {
	Kind() Kind
	// Arity is the fixed number of child slots.
	Arity() int
	ChildExists(i int) bool
	Child(i int) Node
	// IsTerminal reports whether the node is a constant leaf. Callers read
	// terminals through Value and signals through Output.
	IsTerminal() bool
	Value() float64
	// CVValue is the control rate reading of a node, used while triggering.
	// For a terminal it is the constant. For any other node it is the last
	// sample of the most recently processed buffer, i.e. the value at the
	// buffer boundary where the event is triggered, or 0 before the first
	// Process call.
	CVValue() float64
	// Output returns the samples computed by the last Process call.
	Output() []float64
	Trigger(t float64)
	Process(n int)

	base() *node
}

// node holds the state shared by all node kinds: the child slots and the output
// buffer. The buffer capacity only ever grows so steady state processing does not
// allocate, and growing keeps the previous contents.
type node struct {
	kind     Kind
	children []Node
	out      []float64
}

func newNode(kind Kind, arity int) node {
	return node{kind: kind, children: make([]Node, arity)}
}

func (n *node) Kind() Kind { return n.kind }
func (n *node) Arity() int { return len(n.children) }

func (n *node) ChildExists(i int) bool {
	return i >= 0 && i < len(n.children) && n.children[i] != nil
}

func (n *node) Child(i int) Node {
	if !n.ChildExists(i) {
		return nil
	}
	return n.children[i]
}

func (n *node) IsTerminal() bool  { return false }
func (n *node) Value() float64    { return 0 }
func (n *node) Output() []float64 { return n.out }
func (n *node) base() *node       { return n }

func (n *node) CVValue() float64 {
	if len(n.out) == 0 {
		return 0
	}
	return n.out[len(n.out)-1]
}

// SetChild wires c into slot i. It panics if i is not a valid slot; use
// Graph.Connect for validated wiring.
func (n *node) SetChild(i int, c Node) {
	n.children[i] = c
}

func (n *node) grow(size int) {
	if size < 0 {
		size = 0
	}
	if size > cap(n.out) {
		out := make([]float64, size)
		copy(out, n.out[:cap(n.out)])
		n.out = out
	}
	n.out = n.out[:size]
}

func (n *node) triggerChildren(t float64) {
	for _, c := range n.children {
		if c != nil {
			c.Trigger(t)
		}
	}
}

// prepare sizes the output buffer and pulls every child for the block.
func (n *node) prepare(size int) {
	n.grow(size)
	for _, c := range n.children {
		if c != nil {
			c.Process(size)
		}
	}
}

// input returns child i either as a constant or as a signal. Exactly one of the
// results is meaningful: sig is nil when the child is terminal or absent, in
// which case v holds its constant (def for an absent child).
func (n *node) input(i int, def float64) (v float64, sig []float64) {
	c := n.Child(i)
	if c == nil {
		return def, nil
	}
	if c.IsTerminal() {
		return c.Value(), nil
	}
	return 0, c.Output()
}

// cv returns the control value of child i, or def when the slot is empty.
func (n *node) cv(i int, def float64) float64 {
	if c := n.Child(i); c != nil {
		return c.CVValue()
	}
	return def
}

// signal returns the output of child i when it is wired and not terminal.
func (n *node) signal(i int) []float64 {
	c := n.Child(i)
	if c == nil || c.IsTerminal() {
		return nil
	}
	return c.Output()
}

func (n *node) silence() {
	for i := range n.out {
		n.out[i] = 0
	}
}

func fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}
