// Package samples holds decoded audio shared by the playback nodes of a synthesis graph.
package samples

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/interp"
)

var linear = interp.NewLagrangeInterpolator(1)

// Sample is a block of mono frames. A Sample is never modified after it has been published
// to a Store, so it can be read from the audio thread without locking.
type Sample struct {
	frames     []float64
	sampleRate int
}

// New returns a sample holding frames. The slice is owned by the sample from here on.
func New(frames []float64, sampleRate int) *Sample {
	return &Sample{frames: frames, sampleRate: sampleRate}
}

// Len returns the number of frames. A nil sample has length 0.
func (s *Sample) Len() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

func (s *Sample) SampleRate() int {
	if s == nil {
		return 0
	}
	return s.sampleRate
}

// Frame returns frame i, clamped to the valid range.
func (s *Sample) Frame(i int) float64 {
	n := s.Len()
	if n == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	return s.frames[i]
}

// At returns the value at a fractional frame position using linear interpolation.
// Positions outside [0, Len()-1] read the first or last frame.
func (s *Sample) At(pos float64) float64 {
	n := s.Len()
	if n == 0 {
		return 0
	}
	if pos <= 0 {
		return s.frames[0]
	}
	i := int(pos)
	if i >= n-1 {
		return s.frames[n-1]
	}
	return linear.Interpolate(s.frames[i:i+2], pos-float64(i))
}

// Store maps integer ids to samples. Lookups never block: the mapping is replaced
// wholesale on every write, so readers either see an entry before or after a write,
// never a partially written one.
type Store struct {
	mu      sync.Mutex // serializes writers
	entries atomic.Pointer[map[int]*Sample]
}

func NewStore() *Store {
	s := &Store{}
	m := make(map[int]*Sample)
	s.entries.Store(&m)
	return s
}

// Lookup returns the sample stored under id. A sample that is still being loaded
// is returned with length 0.
func (s *Store) Lookup(id int) (*Sample, bool) {
	smp, ok := (*s.entries.Load())[id]
	return smp, ok
}

// Put publishes smp under id, replacing any previous entry.
func (s *Store) Put(id int, smp *Sample) {
	s.update(func(m map[int]*Sample) { m[id] = smp })
}

// Reserve publishes an empty placeholder under id unless an entry already exists.
// Playback nodes treat the placeholder as silence until the real sample is put.
func (s *Store) Reserve(id int) {
	s.update(func(m map[int]*Sample) {
		if _, ok := m[id]; !ok {
			m[id] = &Sample{}
		}
	})
}

func (s *Store) Delete(id int) {
	s.update(func(m map[int]*Sample) { delete(m, id) })
}

// IDs returns the ids currently in the store in ascending order.
func (s *Store) IDs() []int {
	m := *s.entries.Load()
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Store) update(f func(map[int]*Sample)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := *s.entries.Load()
	// copy the map so readers holding the old one are unaffected.
	m := make(map[int]*Sample, len(old)+1)
	for k, v := range old {
		m[k] = v
	}
	f(m)
	s.entries.Store(&m)
}
