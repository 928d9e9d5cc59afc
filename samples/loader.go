package samples

import (
	"context"
	"io"
	"log"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/youpy/go-wav"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when a file to load does not exist.
var ErrNotFound = errors.New("sample file not found")

const maxConcurrentLoads = 4

type wavSource interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// Decode reads a WAV stream and mixes all channels down to mono.
func Decode(ctx context.Context, src wavSource) (*Sample, error) {
	r := wav.NewReader(src)
	format, err := r.Format()
	if err != nil {
		return nil, errors.Wrap(err, "read wav format")
	}
	channels := uint(format.NumChannels)
	if channels == 0 {
		return nil, errors.New("wav has no channels")
	}
	if channels > 2 {
		// go-wav only exposes the first two channels of a frame
		channels = 2
	}

	value := sampleValue(format)
	var frames []float64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read wav samples")
		}
		for _, s := range chunk {
			var sum float64
			for ch := uint(0); ch < channels; ch++ {
				sum += value(r.IntValue(s, ch))
			}
			frames = append(frames, sum/float64(channels))
		}
	}
	return New(frames, int(format.SampleRate)), nil
}

// sampleValue returns the conversion of decoded integers to [-1, 1]. go-wav
// scales float data by MaxInt32 and leaves 8 bit PCM unsigned.
func sampleValue(format *wav.WavFormat) func(int) float64 {
	if format.AudioFormat == wav.AudioFormatIEEEFloat {
		return func(v int) float64 { return float64(v) / math.MaxInt32 }
	}
	if format.BitsPerSample == 8 {
		return func(v int) float64 { return float64(v-128) / 128 }
	}
	full := math.Exp2(float64(format.BitsPerSample) - 1)
	return func(v int) float64 { return float64(v) / full }
}

// LoadFile decodes the WAV file at path.
func LoadFile(ctx context.Context, path string) (*Sample, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	smp, err := Decode(ctx, f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return smp, nil
}

// WriteWAV encodes frames as a 16 bit mono WAV stream. Values outside [-1, 1] are clipped.
func WriteWAV(w io.Writer, frames []float64, sampleRate int) error {
	const bits = 16
	const scale = 1<<(bits-1) - 1
	out := make([]wav.Sample, len(frames))
	for i, v := range frames {
		v = math.Max(-1, math.Min(1, v))
		out[i].Values[0] = int(math.Round(v * scale))
	}
	ww := wav.NewWriter(w, uint32(len(frames)), 1, uint32(sampleRate), bits)
	return errors.Wrap(ww.WriteSamples(out), "write wav samples")
}

// Loader fills a Store in the background. While a file is loading its id is
// reserved in the store, so lookups see a zero length sample instead of a
// partially decoded one.
type Loader struct {
	store *Store
}

func NewLoader(store *Store) *Loader {
	return &Loader{store: store}
}

// Load starts loading path into id and returns immediately. The returned channel
// receives the result once the sample is published (nil) or loading failed.
func (l *Loader) Load(ctx context.Context, id int, path string) <-chan error {
	done := make(chan error, 1)
	l.store.Reserve(id)
	go func() {
		done <- l.load(ctx, id, path)
		close(done)
	}()
	return done
}

// LoadAll loads every file of the id -> path mapping, a few at a time, and waits
// for all of them. The first failure cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, files map[int]string) error {
	for id := range files {
		l.store.Reserve(id)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for id, path := range files {
		id, path := id, path
		g.Go(func() error { return l.load(ctx, id, path) })
	}
	return g.Wait()
}

func (l *Loader) load(ctx context.Context, id int, path string) error {
	smp, err := LoadFile(ctx, path)
	if err != nil {
		log.Printf("loader: sample %d: %v", id, err)
		return errors.Wrapf(err, "load sample %d", id)
	}
	l.store.Put(id, smp)
	log.Printf("loader: sample %d ready (%d frames, %d Hz)", id, smp.Len(), smp.SampleRate())
	return nil
}
