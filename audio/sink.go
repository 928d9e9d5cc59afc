package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gordonklaus/portaudio"
)

type Source interface {
	Process([][]float32)
}

type Ticker interface {
	Tick(numSamples int)
}

const numChannels = 2

// Sink mixes its sources into the output device. Tickers run at the start of
// every buffer, before any source is processed.
type Sink struct {
	sources []Source
	tickers []Ticker
	out     output
}

type output interface {
	start() error
	stop() error
}

// Backends lists the supported output backends.
var Backends = []string{"portaudio", "oto"}

func NewSink(backend string, sampleRate, bufferSize int) (*Sink, error) {
	var s Sink
	switch backend {
	case "portaudio":
		out, err := newPortaudioOutput(&s, sampleRate, bufferSize)
		if err != nil {
			return nil, err
		}
		s.out = out
	case "oto":
		out, err := newOtoOutput(&s, sampleRate, bufferSize)
		if err != nil {
			return nil, err
		}
		s.out = out
	default:
		return nil, fmt.Errorf("unknown audio backend: %s", backend)
	}
	return &s, nil
}

func (s *Sink) Start() error {
	return s.out.start()
}

func (s *Sink) Stop() error {
	return s.out.stop()
}

// AddSources and AddTicker must be called before Start.
func (s *Sink) AddSources(sources ...Source) {
	s.sources = append(s.sources, sources...)
}

func (s *Sink) AddTicker(ticker Ticker) {
	s.tickers = append(s.tickers, ticker)
}

func (s *Sink) Process(samples [][]float32) {
	for i := range samples {
		for j := range samples[i] {
			samples[i][j] = 0.
		}
	}
	for _, ticker := range s.tickers {
		ticker.Tick(len(samples[0]))
	}
	for _, source := range s.sources {
		source.Process(samples)
	}
}

type portaudioOutput struct {
	stream *portaudio.Stream
}

func newPortaudioOutput(s *Sink, sampleRate, bufferSize int) (*portaudioOutput, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, numChannels, float64(sampleRate), bufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &portaudioOutput{stream: stream}, nil
}

func (p *portaudioOutput) start() error {
	return p.stream.Start()
}

func (p *portaudioOutput) stop() error {
	err := p.stream.Close()
	portaudio.Terminate()
	return err
}

// otoOutput pulls fixed size buffers from the sink and hands them to oto as
// interleaved little endian float32 frames.
type otoOutput struct {
	sink    *Sink
	ctx     *oto.Context
	player  *oto.Player
	buf     [][]float32
	pending []byte
	encoded []byte
	mu      sync.Mutex
}

func newOtoOutput(s *Sink, sampleRate, bufferSize int) (*otoOutput, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: numChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(float64(bufferSize) / float64(sampleRate) * float64(time.Second)),
	})
	if err != nil {
		return nil, err
	}
	<-ready
	o := &otoOutput{
		sink:    s,
		ctx:     ctx,
		buf:     make([][]float32, numChannels),
		encoded: make([]byte, bufferSize*numChannels*4),
	}
	for ch := range o.buf {
		o.buf[ch] = make([]float32, bufferSize)
	}
	return o, nil
}

func (o *otoOutput) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(o.pending) == 0 {
			o.render()
		}
		c := copy(p[n:], o.pending)
		o.pending = o.pending[c:]
		n += c
	}
	return n, nil
}

func (o *otoOutput) render() {
	o.sink.Process(o.buf)
	i := 0
	for frame := range o.buf[0] {
		for ch := range o.buf {
			binary.LittleEndian.PutUint32(o.encoded[i:], math.Float32bits(o.buf[ch][frame]))
			i += 4
		}
	}
	o.pending = o.encoded
}

func (o *otoOutput) start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		o.player = o.ctx.NewPlayer(o)
		o.player.Play()
	}
	return nil
}

func (o *otoOutput) stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}
