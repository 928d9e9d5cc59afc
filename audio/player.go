package audio

import (
	"cmp"
	"log"
	"math"
	"slices"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
)

const (
	blockSize  = 16 // this gives about 0.35ms accuracy for scheduled triggers
	maxPending = 256
	// DefaultBufferSize is the host buffer size used unless configured otherwise.
	DefaultBufferSize = 512
)

const (
	PropLevel = "level"
	PropPatch = "patch"
)

type event struct {
	offset int     // frames from the start of the buffer being processed
	delay  float64 // extra start delay in seconds
}

// Player runs a patch on the audio thread. Patches are staged from the
// control thread through the patch property and swapped in at the start of
// the next buffer. Triggers travel through lock-free queues: one fed by the
// control thread and one fed by sequencers ticking on the audio thread. Each
// buffer drains both queues and fires every trigger that falls inside it,
// whatever order the triggers were queued in.
type Player struct {
	*Props
	sampleRate float64
	events     *eventBuffer
	scheduled  *eventBuffer
	pending    []event // taken from the queues, ordered by offset
	active     *Graph
	patch      *atomic.Value
	level      *atomic.Value
	buf        []float64
}

func NewPlayer(props *Props, sampleRate int) *Player {
	return &Player{
		Props:      props,
		sampleRate: float64(sampleRate),
		events:     newEventBuffer(64),
		scheduled:  newEventBuffer(64),
		pending:    make([]event, 0, maxPending),
		buf:        make([]float64, DefaultBufferSize),
		level:      props.MustRegister(PropLevel, setLevel, -6.0),
		patch:      props.MustRegister(PropPatch, setGraph, (*Graph)(nil)),
	}
}

// SetPatch stages g to replace the running patch. The player owns g from
// now on; the caller must not touch it again.
func (p *Player) SetPatch(g *Graph) error {
	if err := p.Set(PropPatch, g); err != nil {
		return err
	}
	if g == nil {
		log.Printf("player: staged empty patch")
	} else {
		log.Printf("player: staged patch with %d nodes", g.Len())
	}
	return nil
}

// Play triggers the patch at the start of the next buffer, delayed by delay
// seconds. It must only be called from one control goroutine.
func (p *Player) Play(delay float64) {
	p.events.push(event{delay: math.Max(0, delay)})
}

// PlayAt triggers the patch offset frames into the buffer about to be
// processed. It must be called from the audio thread before Process. The
// trigger is dropped if too many are pending.
func (p *Player) PlayAt(offset int, delay float64) bool {
	return p.scheduled.tryPush(event{offset: offset, delay: math.Max(0, delay)})
}

func (p *Player) trigger(ev event, n int) {
	if p.active == nil {
		return
	}
	late := ev.offset - n
	if late < 0 {
		late = 0
	}
	p.active.Trigger(-(float64(late)/p.sampleRate + ev.delay))
}

// Active returns the patch currently running on the audio thread. It is only
// safe to call from the audio thread or while audio is stopped.
func (p *Player) Active() *Graph { return p.active }

func (p *Player) Process(samples [][]float32) {
	if g := p.patch.Load().(*Graph); g != p.active {
		p.active = g
	}
	size := len(samples[0])
	if size > cap(p.buf) {
		p.buf = make([]float64, size)
	}
	p.buf = p.buf[:size]

	// queues are not ordered by offset: loops schedule in any order
	p.pending = p.events.take(p.pending)
	p.pending = p.scheduled.take(p.pending)
	slices.SortStableFunc(p.pending, func(a, b event) int { return cmp.Compare(a.offset, b.offset) })

	next := 0
	for n := 0; n < size; n += blockSize {
		end := n + blockSize
		if end > size {
			end = size
		}
		for ; next < len(p.pending) && p.pending[next].offset < end; next++ {
			p.trigger(p.pending[next], n)
		}
		if p.active == nil {
			fill(p.buf[n:end], 0)
			continue
		}
		p.active.Process(end - n)
		copy(p.buf[n:end], p.active.Output())
	}
	// triggers scheduled past this buffer move on to the next one
	p.pending = p.pending[:copy(p.pending, p.pending[next:])]
	for i := range p.pending {
		p.pending[i].offset -= size
	}

	db := p.level.Load().(float64)
	vecmath.ScaleBlock(p.buf, p.buf, math.Pow(10, db/20.0))
	for n := range p.buf {
		sample := float32(p.buf[n])
		for ch := range samples {
			samples[ch][n] += sample
		}
	}
}
