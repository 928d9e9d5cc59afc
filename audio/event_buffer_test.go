package audio

import (
	"context"
	"reflect"
	"testing"
)

func TestEventBufferTake(t *testing.T) {
	buf := newEventBuffer(8)
	buf.push(event{offset: 2})
	buf.push(event{offset: 3})
	buf.push(event{offset: 1})

	events := buf.take(make([]event, 0, 2))
	if want, got := []event{{offset: 2}, {offset: 3}}, events; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}

	events = buf.take(events[:0])
	if want, got := []event{{offset: 1}}, events; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if got := buf.take(events[:0]); len(got) != 0 {
		t.Errorf("expected an empty buffer, got %v", got)
	}
}

func TestEventBuffer(t *testing.T) {
	buf := newEventBuffer(8)

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	var events []event
	go func() {
		batch := make([]event, 0, 4)
		for {
			select {
			case <-ctx.Done():
				for {
					batch = buf.take(batch[:0])
					if len(batch) == 0 {
						break
					}
					events = append(events, batch...)
				}
				done <- struct{}{}
				return
			default:
				batch = buf.take(batch[:0])
				events = append(events, batch...)
			}
		}
	}()

	numEvents := 20_000
	if testing.Short() {
		numEvents = 2_000
	}
	for n := 0; n < numEvents; n++ {
		buf.push(event{offset: n})
	}

	cancel()
	<-done

	if len(events) != numEvents {
		t.Errorf("wrong number of events: want %v, got %v", numEvents, len(events))
	}

	prev := -1
	for _, ev := range events {
		if want, got := prev+1, ev.offset; want != got {
			t.Errorf("discontinuous event offset: want: %v, got %v", want, ev.offset)
		}
		prev++
	}
}

func TestEventBufferTryPush(t *testing.T) {
	buf := newEventBuffer(2)
	if !buf.tryPush(event{offset: 1}) || !buf.tryPush(event{offset: 2}) {
		t.Fatal("expected room for two events")
	}
	if buf.tryPush(event{offset: 3}) {
		t.Errorf("pushed into a full buffer")
	}
	buf.take(make([]event, 0, 1))
	if !buf.tryPush(event{offset: 3}) {
		t.Errorf("expected room after reading")
	}
}
