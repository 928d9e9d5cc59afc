package audio

// Terminal is a constant leaf.
type Terminal struct {
	node
	value  float64
	filled int
}

func NewTerminal(v float64) *Terminal {
	return &Terminal{node: newNode(KindTerminal, 0), value: v}
}

func (t *Terminal) IsTerminal() bool { return true }
func (t *Terminal) Value() float64   { return t.value }
func (t *Terminal) CVValue() float64 { return t.value }

func (t *Terminal) Trigger(float64) {}

func (t *Terminal) Process(n int) {
	t.grow(n)
	if n > t.filled {
		fill(t.out[t.filled:n], t.value)
		t.filled = n
	}
}
