package audio

import (
	"errors"
	"fmt"
)

var (
	ErrStaleHandle = errors.New("stale node handle")
	ErrSlot        = errors.New("invalid child slot")
	ErrCycle       = errors.New("connection would create a cycle")
	ErrHasParent   = errors.New("node already has a parent")
)

// Handle refers to a node owned by a Graph. Handles carry a generation, so a
// handle to a removed node stays invalid even after its slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

type slot struct {
	node   Node
	gen    uint32
	parent int32 // index of the owning node, -1 if none
	kids   []int32
}

// Graph owns the nodes of one patch. Nodes are added to the graph, wired by
// handle and the root is pulled by the host.
//
// A Graph must not be edited while another goroutine calls Trigger or Process
// on it. Use Player to hand a finished graph to the audio thread.
type Graph struct {
	slots   []slot
	free    []uint32
	root    Handle
	hasRoot bool
	empty   node
}

func NewGraph() *Graph {
	return &Graph{}
}

// Add takes ownership of n and returns its handle.
func (g *Graph) Add(n Node) Handle {
	kids := make([]int32, n.Arity())
	for i := range kids {
		kids[i] = -1
	}
	if len(g.free) > 0 {
		idx := g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
		s := &g.slots[idx]
		s.node, s.parent, s.kids = n, -1, kids
		return Handle{index: idx, gen: s.gen}
	}
	g.slots = append(g.slots, slot{node: n, gen: 1, parent: -1, kids: kids})
	return Handle{index: uint32(len(g.slots) - 1), gen: 1}
}

func (g *Graph) lookup(h Handle) (*slot, bool) {
	if int(h.index) >= len(g.slots) {
		return nil, false
	}
	s := &g.slots[h.index]
	if s.gen != h.gen || s.node == nil {
		return nil, false
	}
	return s, true
}

// Node returns the node behind h.
func (g *Graph) Node(h Handle) (Node, bool) {
	s, ok := g.lookup(h)
	if !ok {
		return nil, false
	}
	return s.node, true
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.slots) - len(g.free)
}

// Connect wires child into slot i of parent. A node can have only one parent and
// the root cannot be wired below another node. If the slot is already taken the
// previous child is detached but stays in the graph.
func (g *Graph) Connect(parent Handle, i int, child Handle) error {
	ps, ok := g.lookup(parent)
	if !ok {
		return fmt.Errorf("connect parent: %w", ErrStaleHandle)
	}
	cs, ok := g.lookup(child)
	if !ok {
		return fmt.Errorf("connect child: %w", ErrStaleHandle)
	}
	if i < 0 || i >= ps.node.Arity() {
		return fmt.Errorf("%w: %s has %d inputs, got slot %d", ErrSlot, ps.node.Kind(), ps.node.Arity(), i)
	}
	if cs.parent >= 0 || (g.hasRoot && g.root == child) {
		return fmt.Errorf("connect %s: %w", cs.node.Kind(), ErrHasParent)
	}
	for idx := int32(parent.index); idx >= 0; idx = g.slots[idx].parent {
		if idx == int32(child.index) {
			return ErrCycle
		}
	}
	g.detach(parent.index, i)
	ps.kids[i] = int32(child.index)
	ps.node.base().SetChild(i, cs.node)
	cs.parent = int32(parent.index)
	return nil
}

// Disconnect empties slot i of parent. The former child stays in the graph.
func (g *Graph) Disconnect(parent Handle, i int) error {
	ps, ok := g.lookup(parent)
	if !ok {
		return fmt.Errorf("disconnect: %w", ErrStaleHandle)
	}
	if i < 0 || i >= ps.node.Arity() {
		return fmt.Errorf("%w: %s has %d inputs, got slot %d", ErrSlot, ps.node.Kind(), ps.node.Arity(), i)
	}
	g.detach(parent.index, i)
	return nil
}

func (g *Graph) detach(parent uint32, i int) {
	ps := &g.slots[parent]
	if kid := ps.kids[i]; kid >= 0 {
		g.slots[kid].parent = -1
	}
	ps.kids[i] = -1
	ps.node.base().SetChild(i, nil)
}

// Remove deletes the node behind h together with all of its descendants.
func (g *Graph) Remove(h Handle) error {
	s, ok := g.lookup(h)
	if !ok {
		return fmt.Errorf("remove: %w", ErrStaleHandle)
	}
	if s.parent >= 0 {
		ps := &g.slots[s.parent]
		for i, kid := range ps.kids {
			if kid == int32(h.index) {
				g.detach(uint32(s.parent), i)
			}
		}
	}
	if g.hasRoot && g.root == h {
		g.hasRoot = false
	}
	g.release(h.index)
	return nil
}

func (g *Graph) release(idx uint32) {
	s := &g.slots[idx]
	for _, kid := range s.kids {
		if kid >= 0 {
			g.release(uint32(kid))
		}
	}
	s.node = nil
	s.kids = nil
	s.parent = -1
	s.gen++
	g.free = append(g.free, idx)
}

// SetRoot selects the node the host pulls. The root must not have a parent.
func (g *Graph) SetRoot(h Handle) error {
	s, ok := g.lookup(h)
	if !ok {
		return fmt.Errorf("set root: %w", ErrStaleHandle)
	}
	if s.parent >= 0 {
		return fmt.Errorf("set root %s: %w", s.node.Kind(), ErrHasParent)
	}
	g.root = h
	g.hasRoot = true
	return nil
}

// Root returns the root node, or nil if none is set.
func (g *Graph) Root() Node {
	if !g.hasRoot {
		return nil
	}
	n, _ := g.Node(g.root)
	return n
}

// Walk calls f for the root and every node below it, depth first. Empty slots
// are reported with a nil node.
func (g *Graph) Walk(f func(depth, slot int, n Node)) {
	var walk func(depth, slot int, n Node)
	walk = func(depth, slot int, n Node) {
		f(depth, slot, n)
		if n == nil {
			return
		}
		for i := 0; i < n.Arity(); i++ {
			walk(depth+1, i, n.Child(i))
		}
	}
	if root := g.Root(); root != nil {
		walk(0, 0, root)
	}
}

// Trigger starts an event on the root's subgraph. See Node.Trigger.
func (g *Graph) Trigger(t float64) {
	if root := g.Root(); root != nil {
		root.Trigger(t)
	}
}

// Process computes n samples of the root. A graph without a root outputs silence.
func (g *Graph) Process(n int) {
	if root := g.Root(); root != nil {
		root.Process(n)
		return
	}
	g.empty.grow(n)
	g.empty.silence()
}

func (g *Graph) Output() []float64 {
	if root := g.Root(); root != nil {
		return root.Output()
	}
	return g.empty.out
}
