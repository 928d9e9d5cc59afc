package audio

import (
	"reflect"
	"testing"
)

type testPlayer struct {
	events []event
}

func (p *testPlayer) PlayAt(offset int, delay float64) bool {
	p.events = append(p.events, event{offset: offset, delay: delay})
	return true
}

func (p *testPlayer) flush() {
	p.events = nil
}

func TestSequencer(t *testing.T) {
	const sampleRate = 44100
	const bpm = 120.0
	const bufferSize = sampleRate // use a large buffer size to make testing easier
	player := &testPlayer{}

	seq := NewSequencer(NewProps(), sampleRate)
	if err := seq.Set(PropBPM, bpm); err != nil {
		t.Fatal(err)
	}

	loop := NewLoop(4, player)
	loop.AddHit(0)    // first beat
	loop.AddHit(1.25) // 2nd 16th note on second beat
	loop.AddHit(7)    // outside the loop

	if err := seq.Set(PropLoops, map[string]*Loop{
		"beat": loop,
	}); err != nil {
		t.Fatal(err)
	}

	seq.Tick(bufferSize)

	if want, got := []event{
		{offset: 0},
		{offset: 27563},
	}, player.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}

	player.flush()
	seq.Tick(bufferSize)

	if want, got := 0, len(player.events); want != got {
		t.Errorf("wanted zero events, got: %v", player.events)
	}

	player.flush()
	seq.Tick(bufferSize)

	if want, got := []event{
		{offset: 0},
		{offset: 27563},
	}, player.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestSequencerRepeat(t *testing.T) {
	const sampleRate = 44100
	player := &testPlayer{}
	seq := NewSequencer(NewProps(), sampleRate)

	// at 120 bpm one beat is 22050 samples
	loop := NewLoop(1, player)
	loop.AddHit(0.5)
	if err := seq.Set(PropLoops, map[string]*Loop{"half": loop}); err != nil {
		t.Fatal(err)
	}

	seq.Tick(sampleRate / 2) // first beat, hit at 11025
	seq.Tick(sampleRate / 2) // the loop starts over

	if want, got := []event{
		{offset: 11025},
		{offset: 11025},
	}, player.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestSequencerBPMRange(t *testing.T) {
	seq := NewSequencer(NewProps(), 44100)
	if err := seq.Set(PropBPM, 0.0); err == nil {
		t.Errorf("expected an error for bpm 0")
	}
	if err := seq.Set(PropBPM, "fast"); err == nil {
		t.Errorf("expected an error for a string bpm")
	}
}

func TestSequencerNoDrift(t *testing.T) {
	const sampleRate = 1000
	for _, size := range []int{7, 64, 100, 333} {
		player := &testPlayer{}
		seq := NewSequencer(NewProps(), sampleRate)
		if err := seq.Set(PropBPM, 60.0); err != nil {
			t.Fatal(err)
		}
		loop := NewLoop(1, player)
		loop.AddHit(0)
		loop.AddHit(0.95)
		if err := seq.Set(PropLoops, map[string]*Loop{"beat": loop}); err != nil {
			t.Fatal(err)
		}

		var frames []int
		for start := 0; start <= 2000; start += size {
			player.flush()
			seq.Tick(size)
			for _, ev := range player.events {
				frames = append(frames, start+ev.offset)
			}
		}
		// a beat is 1000 frames at 60 bpm
		if want, got := []int{0, 950, 1000, 1950, 2000}, frames[:5]; !reflect.DeepEqual(want, got) {
			t.Errorf("buffer size %d: want hits at %v, got %v", size, want, got)
		}
	}
}

func TestSequencerShortLoop(t *testing.T) {
	player := &testPlayer{}
	seq := NewSequencer(NewProps(), 1000)
	if err := seq.Set(PropBPM, 60.0); err != nil {
		t.Fatal(err)
	}
	loop := NewLoop(0.25, player)
	loop.AddHit(0)
	if err := seq.Set(PropLoops, map[string]*Loop{"fast": loop}); err != nil {
		t.Fatal(err)
	}
	// one buffer holds four iterations of the loop
	seq.Tick(1000)
	if want, got := []event{{offset: 0}, {offset: 250}, {offset: 500}, {offset: 750}}, player.events; !reflect.DeepEqual(want, got) {
		t.Errorf("wrong events:\nwant: %+v\ngot:  %+v", want, got)
	}
}
