package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/synthgraph/audio"
	"github.com/mrdg/synthgraph/samples"
)

type device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type env struct {
	ctx        context.Context
	store      *samples.Store
	loader     *samples.Loader
	player     *audio.Player
	sequencer  *audio.Sequencer
	devices    map[string]device
	sampleRate int
	bufferSize int
}

func (e *env) setProp(dev, prop string, v interface{}) error {
	d, ok := e.devices[dev]
	if !ok {
		return fmt.Errorf("unknown device: %s", dev)
	}
	return d.Set(prop, v)
}

func (e *env) getProp(dev, prop string) (interface{}, error) {
	d, ok := e.devices[dev]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", dev)
	}
	return d.Get(prop)
}

func (e *env) eval(input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", nil
	}
	name, args := fields[0], fields[1:]
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(args) < arity {
				return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(args))
			}
		} else if len(args) != cmd.arity && len(args) != cmd.arity+cmd.optional {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(args))
		}
		result, err := cmd.run(e, args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if result, err := env.eval(line); err != nil {
			fmt.Println(err)
		} else if result != "" {
			fmt.Println(result)
		}
	}
}

// readArgs converts args into the values pointed to by slots.
func readArgs(args []string, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		switch p := slots[n].(type) {
		case *string:
			*p = strings.Trim(arg, `"`)
		case *float64:
			f, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("argument error: expected a number, got %q", arg)
			}
			*p = f
		case *int:
			i, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("argument error: expected an integer, got %q", arg)
			}
			*p = i
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
