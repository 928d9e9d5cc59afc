package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrdg/synthgraph/audio"
	"github.com/mrdg/synthgraph/samples"
)

// renderPreset plays a preset once from the start and writes secs seconds of
// it to a wav file, without an audio device.
func renderPreset(name string, store audio.SampleStore, sampleRate, bufferSize int, secs float64, file string) error {
	if secs <= 0 {
		return fmt.Errorf("render length must be positive: %v", secs)
	}
	g, err := audio.LoadPreset(name, store, sampleRate)
	if err != nil {
		return err
	}
	frames, err := renderGraph(g, sampleRate, bufferSize, int(secs*float64(sampleRate)))
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := samples.WriteWAV(f, frames, sampleRate); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", name, err)
	}
	return f.Close()
}

// renderGraph runs g through a player at 0 dB and returns n mono frames.
func renderGraph(g *audio.Graph, sampleRate, bufferSize, n int) ([]float64, error) {
	if bufferSize <= 0 {
		return nil, fmt.Errorf("buffer size must be positive: %d", bufferSize)
	}
	player := audio.NewPlayer(audio.NewProps(), sampleRate)
	if err := player.Set(audio.PropLevel, 0.0); err != nil {
		return nil, err
	}
	if err := player.SetPatch(g); err != nil {
		return nil, err
	}
	player.Play(0)

	buf := [][]float32{make([]float32, bufferSize), make([]float32, bufferSize)}
	out := make([]float64, 0, n+bufferSize)
	for len(out) < n {
		for ch := range buf {
			for i := range buf[ch] {
				buf[ch][i] = 0
			}
		}
		player.Process(buf)
		for _, v := range buf[0] {
			out = append(out, float64(v))
		}
	}
	return out[:n], nil
}

// renderTree prints the nodes below the root of g, one per line.
func renderTree(g *audio.Graph, w io.Writer) {
	g.Walk(func(depth, slot int, n audio.Node) {
		indent := strings.Repeat("  ", depth)
		var label string
		if depth > 0 {
			label = colorize(fmt.Sprintf("%d:", slot), colorMagenta) + " "
		}
		switch {
		case n == nil:
			fmt.Fprintf(w, "%s%s%s\n", indent, label, colorize("-", colorBlack))
		case n.IsTerminal():
			fmt.Fprintf(w, "%s%s%s\n", indent, label, colorize(fmt.Sprint(n.Value()), colorYellow))
		default:
			fmt.Fprintf(w, "%s%s%s\n", indent, label, colorize(describe(n), colorBlue))
		}
	})
}

// describe names a node together with its mode.
func describe(n audio.Node) string {
	switch n := n.(type) {
	case *audio.Osc:
		return "osc " + n.Shape().String()
	case *audio.LFO:
		return "lfo " + n.Shape().String()
	case *audio.Math:
		return n.Op().String()
	case *audio.Scale:
		return n.Mode().String()
	case *audio.Hold:
		return "hold " + n.Mode().String()
	case *audio.Filter:
		return "filter " + n.Mode().String()
	case *audio.Effect:
		return n.Type().String()
	}
	return n.Kind().String()
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
