package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Pulses per quarter note
const PPQN = 960.

// Loop retriggers a player at fixed beat positions.
type Loop struct {
	Length int // loop length in pulses
	target Playable
	hits   []int // positions measured in PPQN from the start of the loop
}

func NewLoop(length float64, p Playable) *Loop {
	return &Loop{
		Length: int(math.Round(length * PPQN)),
		target: p,
	}
}

type Playable interface {
	PlayAt(offset int, delay float64) bool
}

// AddHit adds a trigger at position, in beats. Positions outside the loop are
// ignored.
func (l *Loop) AddHit(position float64) {
	pos := int(math.Round(position * PPQN))
	if pos < 0 || pos >= l.Length {
		return
	}
	l.hits = append(l.hits, pos)
}

// Sequencer triggers loops in time with a tempo. It runs on the audio thread
// and has to tick before the players it drives process their buffer.
type Sequencer struct {
	*Props
	bpm        *atomic.Value
	loops      *atomic.Value
	sampleRate float64
	pulses     float64 // pulses elapsed since the start, fraction included
}

const (
	PropBPM   = "bpm"
	PropLoops = "loops"
)

func NewSequencer(props *Props, sampleRate int) *Sequencer {
	return &Sequencer{
		Props:      props,
		sampleRate: float64(sampleRate),
		loops:      props.MustRegister(PropLoops, setLoops, map[string]*Loop{}),
		bpm:        props.MustRegister(PropBPM, setFloat64(1, 500), 120.0),
	}
}

func (s *Sequencer) Tick(numSamples int) {
	bpm := s.bpm.Load().(float64)
	loops := s.loops.Load().(map[string]*Loop)

	// A buffer rarely holds a whole number of pulses. The fraction is carried
	// into the next buffer so the loops never drift from the sample clock.
	numPulses := PPQN * (bpm / 60.) / (s.sampleRate / float64(numSamples))
	samplesPerPulse := s.sampleRate / ((bpm * PPQN) / 60.)
	start, end := s.pulses, s.pulses+numPulses

	for _, loop := range loops {
		if loop.Length <= 0 {
			continue
		}
		length := float64(loop.Length)
		// the loop iteration that contains start, and every later one the
		// buffer reaches
		base := math.Floor(start/length) * length
		if base > start {
			base -= length
		}
		for ; base < end; base += length {
			for _, hit := range loop.hits {
				pulse := base + float64(hit)
				if pulse >= start && pulse < end {
					loop.target.PlayAt(int(math.Round((pulse-start)*samplesPerPulse)), 0)
				}
			}
		}
	}
	s.pulses = end
}

func setLoops(v interface{}, dest *atomic.Value) error {
	if l, ok := v.(map[string]*Loop); ok {
		dest.Store(l)
		return nil
	}
	return fmt.Errorf("value is not a map of loops: %v", v)
}
