package audio

import "github.com/mrdg/synthgraph/samples"

// SampleStore resolves sample ids to loaded samples. A sample that is still
// loading has zero length.
type SampleStore interface {
	Lookup(id int) (*samples.Sample, bool)
}

// speedPerHz makes a rate of 440 Hz play one frame per output sample.
const speedPerHz = 1 / defaultFreq

// Sampler plays back a sample from a store at a variable rate. Negative rates
// play in reverse, starting from the end of the sample.
type Sampler struct {
	store   SampleStore
	id      int
	pos     float64
	start   countdown
	armed   bool
	started bool
}

func NewSampler(store SampleStore, sampleRate int) *Sampler {
	return &Sampler{store: store, start: countdown{sampleRate: float64(sampleRate)}}
}

func (s *Sampler) SetSampleID(id int) { s.id = id }

// SetStartTime schedules the start of playback. A negative t is the delay in
// seconds before the first frame plays.
func (s *Sampler) SetStartTime(t float64) {
	s.start.set(t)
	s.armed = true
	s.started = false
}

// Position returns the current playback position in frames.
func (s *Sampler) Position() float64 { return s.pos }

func (s *Sampler) lookup() *samples.Sample {
	if !s.armed || s.store == nil {
		return nil
	}
	smp, ok := s.store.Lookup(s.id)
	if !ok || smp.Len() == 0 {
		return nil
	}
	return smp
}

// step returns the frame to emit for the current output sample, or false while
// playback is waiting to start.
func (s *Sampler) step(smp *samples.Sample, freq float64) (float64, bool) {
	if s.start.tick() {
		return 0, false
	}
	length := float64(smp.Len())
	if !s.started {
		s.started = true
		s.pos = 0
		if freq < 0 {
			s.pos = length
		}
		return smp.At(s.pos), true
	}
	s.pos = clamp(s.pos+speedPerHz*finite(freq, 0), 0, length)
	return smp.At(s.pos), true
}

// Process renders with a constant rate in Hz. The samples of out before the
// start time and all of out when the sample is missing or empty are left
// untouched.
func (s *Sampler) Process(out []float64, freq float64) {
	smp := s.lookup()
	if smp == nil {
		return
	}
	for i := range out {
		if v, ok := s.step(smp, freq); ok {
			out[i] = v
		}
	}
}

// ProcessSignal is Process with the rate read per sample from freq.
func (s *Sampler) ProcessSignal(out, freq []float64) {
	smp := s.lookup()
	if smp == nil {
		return
	}
	for i := range out {
		if v, ok := s.step(smp, freq[i]); ok {
			out[i] = v
		}
	}
}

// Scrubber maps a control signal in [0, 1] directly onto the position in a
// sample. Control values outside that range hold the previous position.
type Scrubber struct {
	store SampleStore
	id    int
	pos   float64
}

func NewScrubber(store SampleStore) *Scrubber {
	return &Scrubber{store: store}
}

func (s *Scrubber) SetSampleID(id int) { s.id = id }

func (s *Scrubber) Position() float64 { return s.pos }

func (s *Scrubber) Process(out, control []float64) {
	if s.store == nil {
		return
	}
	smp, ok := s.store.Lookup(s.id)
	if !ok || smp.Len() == 0 {
		return
	}
	length := float64(smp.Len())
	for i := range out {
		if c := control[i]; c >= 0 && c <= 1 {
			s.pos = c * length
		}
		out[i] = smp.At(s.pos)
	}
}

// SampleNode plays the sample selected by its first input at the rate of its
// second input (440 Hz plays at the original speed).
type SampleNode struct {
	node
	sampler *Sampler
}

func NewSampleNode(store SampleStore, sampleRate int) *SampleNode {
	return &SampleNode{node: newNode(KindSample, 2), sampler: NewSampler(store, sampleRate)}
}

func (s *SampleNode) Trigger(t float64) {
	s.triggerChildren(t)
	if s.ChildExists(0) {
		s.sampler.SetSampleID(int(finite(s.cv(0, 0), 0)))
	}
	s.sampler.SetStartTime(t)
}

func (s *SampleNode) Process(n int) {
	s.prepare(n)
	s.silence()
	rate, sig := s.input(1, defaultFreq)
	if sig != nil {
		s.sampler.ProcessSignal(s.out, sig)
		return
	}
	s.sampler.Process(s.out, rate)
}

// ScrubNode scrubs through the sample selected by its first input using its
// second input as the position. A constant position gives silence.
type ScrubNode struct {
	node
	scrubber *Scrubber
}

func NewScrubNode(store SampleStore) *ScrubNode {
	return &ScrubNode{node: newNode(KindScrub, 2), scrubber: NewScrubber(store)}
}

func (s *ScrubNode) Trigger(t float64) {
	s.triggerChildren(t)
	if s.ChildExists(0) {
		s.scrubber.SetSampleID(int(finite(s.cv(0, 0), 0)))
	}
}

func (s *ScrubNode) Process(n int) {
	s.prepare(n)
	s.silence()
	if control := s.signal(1); control != nil {
		s.scrubber.Process(s.out, control)
	}
}
