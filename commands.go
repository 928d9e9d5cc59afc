package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrdg/synthgraph/audio"
)

type command struct {
	name     string
	run      func(*env, []string) (string, error)
	arity    int // -n means len(args) must be >= n
	optional int // number of trailing optional arguments
	usage    string
}

var commands []command

func init() {
	commands = []command{
		{"load", loadCommand, 2, 0, "load <id> <file>: load a wav file as sample id"},
		{"samples", samplesCommand, 0, 0, "samples: list loaded samples"},
		{"presets", presetsCommand, 0, 0, "presets: list patches"},
		{"show", showCommand, 1, 0, "show <preset>: print the node tree of a patch"},
		{"patch", patchCommand, 1, 0, "patch <preset>: swap in a patch"},
		{"play", playCommand, 1, 1, "play <preset> [delay]: swap in a patch and trigger it"},
		{"trigger", triggerCommand, 0, 1, "trigger [delay]: trigger the current patch"},
		{"level", levelCommand, 1, 0, "level <dB>: set the output level"},
		{"set", setCommand, 3, 0, "set <device> <prop> <value>: set a property"},
		{"get", getCommand, 2, 0, "get <device> <prop>: show a property"},
		{"loop", loopCommand, -3, 0, "loop <name> <beats> <pos>...: trigger the patch at beat positions"},
		{"unloop", unloopCommand, 1, 0, "unloop <name>: stop a loop"},
		{"render", renderCommand, 3, 0, "render <preset> <seconds> <file>: render a patch to a wav file"},
		{"help", helpCommand, 0, 0, "help: list commands"},
	}
}

func helpCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, cmd.usage)
	}
	return strings.Join(lines, "\n"), nil
}

func loadCommand(env *env, args []string) (string, error) {
	var id int
	var file string
	if err := readArgs(args, &id, &file); err != nil {
		return "", err
	}
	done := env.loader.Load(env.ctx, id, file)
	go func() {
		if err := <-done; err != nil {
			fmt.Printf("load %d: %v\n", id, err)
		}
	}()
	return fmt.Sprintf("loading %s as sample %d", file, id), nil
}

func samplesCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, id := range env.store.IDs() {
		smp, _ := env.store.Lookup(id)
		if smp.Len() == 0 {
			lines = append(lines, fmt.Sprintf("%3d  loading", id))
			continue
		}
		secs := float64(smp.Len()) / float64(smp.SampleRate())
		lines = append(lines, fmt.Sprintf("%3d  %d frames  %.2fs", id, smp.Len(), secs))
	}
	return strings.Join(lines, "\n"), nil
}

func presetsCommand(env *env, args []string) (string, error) {
	var lines []string
	for _, p := range audio.Presets() {
		lines = append(lines, fmt.Sprintf("%-8s %s", p.Name, p.Usage))
	}
	return strings.Join(lines, "\n"), nil
}

func showCommand(env *env, args []string) (string, error) {
	g, err := audio.LoadPreset(args[0], env.store, env.sampleRate)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderTree(g, &b)
	return strings.TrimRight(b.String(), "\n"), nil
}

func patchCommand(env *env, args []string) (string, error) {
	g, err := audio.LoadPreset(args[0], env.store, env.sampleRate)
	if err != nil {
		return "", err
	}
	return "", env.player.SetPatch(g)
}

func playCommand(env *env, args []string) (string, error) {
	if _, err := patchCommand(env, args[:1]); err != nil {
		return "", err
	}
	return triggerCommand(env, args[1:])
}

func triggerCommand(env *env, args []string) (string, error) {
	var delay float64
	if len(args) > 0 {
		if err := readArgs(args, &delay); err != nil {
			return "", err
		}
	}
	if delay < 0 {
		return "", fmt.Errorf("delay must not be negative: %v", delay)
	}
	env.player.Play(delay)
	return "", nil
}

func levelCommand(env *env, args []string) (string, error) {
	var db float64
	if err := readArgs(args, &db); err != nil {
		return "", err
	}
	return "", env.setProp("player", audio.PropLevel, db)
}

func setCommand(env *env, args []string) (string, error) {
	var dev, prop string
	if err := readArgs(args[:2], &dev, &prop); err != nil {
		return "", err
	}
	if f, err := strconv.ParseFloat(args[2], 64); err == nil {
		return "", env.setProp(dev, prop, f)
	}
	return "", env.setProp(dev, prop, strings.Trim(args[2], `"`))
}

func getCommand(env *env, args []string) (string, error) {
	var dev, prop string
	if err := readArgs(args, &dev, &prop); err != nil {
		return "", err
	}
	v, err := env.getProp(dev, prop)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func loopCommand(env *env, args []string) (string, error) {
	var name string
	var length float64
	if err := readArgs(args[:2], &name, &length); err != nil {
		return "", err
	}
	if length <= 0 {
		return "", fmt.Errorf("loop length must be positive: %v", length)
	}
	loop := audio.NewLoop(length, env.player)
	for _, arg := range args[2:] {
		var pos float64
		if err := readArgs([]string{arg}, &pos); err != nil {
			return "", err
		}
		loop.AddHit(pos)
	}
	return "", env.updateLoops(func(loops map[string]*audio.Loop) {
		loops[name] = loop
	})
}

func unloopCommand(env *env, args []string) (string, error) {
	name := args[0]
	return "", env.updateLoops(func(loops map[string]*audio.Loop) {
		delete(loops, name)
	})
}

// updateLoops copies the loop map so the audio thread never sees it change.
func (e *env) updateLoops(f func(map[string]*audio.Loop)) error {
	v, err := e.getProp("seq", audio.PropLoops)
	if err != nil {
		return err
	}
	old := v.(map[string]*audio.Loop)
	loops := make(map[string]*audio.Loop, len(old))
	for k, v := range old {
		loops[k] = v
	}
	f(loops)
	return e.setProp("seq", audio.PropLoops, loops)
}

func renderCommand(env *env, args []string) (string, error) {
	var preset, file string
	var secs float64
	if err := readArgs(args, &preset, &secs, &file); err != nil {
		return "", err
	}
	if err := renderPreset(preset, env.store, env.sampleRate, env.bufferSize, secs, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("wrote %s", file), nil
}
