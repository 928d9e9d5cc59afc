package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mrdg/synthgraph/audio"
	"github.com/mrdg/synthgraph/samples"
)

func main() {
	var (
		sampleRate = flag.Int("rate", audio.DefaultSampleRate, "sample rate in Hz")
		bufferSize = flag.Int("buffer", audio.DefaultBufferSize, "audio buffer size in frames")
		backend    = flag.String("backend", "portaudio", "audio backend: "+strings.Join(audio.Backends, ", "))
		files      = flag.String("samples", "", "glob of wav files, loaded as sample 0, 1, ... in sorted order")
		level      = flag.Float64("level", -6, "output level in dB")
		preset     = flag.String("preset", "", "patch to start with")
		run        = flag.String("run", "", "file with commands to run before the prompt")
		render     = flag.String("render", "", "render -preset for -seconds to this wav file and exit")
		seconds    = flag.Float64("seconds", 4, "length of -render")
	)
	flag.Parse()

	ctx := context.Background()
	store := samples.NewStore()
	loader := samples.NewLoader(store)

	if *files != "" {
		paths, err := filepath.Glob(*files)
		if err != nil {
			log.Fatal(err)
		}
		sort.Strings(paths)
		set := make(map[int]string, len(paths))
		for id, path := range paths {
			set[id] = path
		}
		if err := loader.LoadAll(ctx, set); err != nil {
			log.Fatal(err)
		}
	}

	if *render != "" {
		if *preset == "" {
			log.Fatal("-render needs a -preset")
		}
		if err := renderPreset(*preset, store, *sampleRate, *bufferSize, *seconds, *render); err != nil {
			log.Fatal(err)
		}
		return
	}

	player := audio.NewPlayer(audio.NewProps(), *sampleRate)
	if err := player.Set(audio.PropLevel, *level); err != nil {
		log.Fatal(err)
	}
	seq := audio.NewSequencer(audio.NewProps(), *sampleRate)

	env := &env{
		ctx:        ctx,
		store:      store,
		loader:     loader,
		player:     player,
		sequencer:  seq,
		sampleRate: *sampleRate,
		bufferSize: *bufferSize,
		devices: map[string]device{
			"player": player,
			"seq":    seq,
		},
	}
	if *preset != "" {
		if _, err := env.eval("patch " + *preset); err != nil {
			log.Fatal(err)
		}
	}

	sink, err := audio.NewSink(*backend, *sampleRate, *bufferSize)
	if err != nil {
		log.Fatal(err)
	}
	sink.AddTicker(seq)
	sink.AddSources(player)
	if err := sink.Start(); err != nil {
		log.Fatal(err)
	}
	defer sink.Stop()

	if *run != "" {
		if err := runScript(env, *run); err != nil {
			log.Fatal(err)
		}
	}

	if err := repl(env); err != nil {
		fmt.Println(err)
	}
}

func runScript(env *env, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := env.eval(line)
		if err != nil {
			return err
		}
		if result != "" {
			fmt.Println(result)
		}
	}
	return scanner.Err()
}
