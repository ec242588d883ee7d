package main

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/smarthome-go/hmsrun/console"
	"github.com/smarthome-go/hmsrun/runner"
)

// Config holds the global flags shared by every subcommand.
type Config struct {
	Release   bool
	Timeout   time.Duration
	StackSize uint
	NoColor   bool
	Warnings  bool
	Verbose   bool
}

func newConfig(ctx *cli.Context) Config {
	return Config{
		Release:   ctx.Bool("release"),
		Timeout:   ctx.Duration("timeout"),
		StackSize: ctx.Uint("stack-size"),
		NoColor:   ctx.Bool("no-color"),
		Warnings:  ctx.Bool("warnings"),
		Verbose:   ctx.Bool("verbose"),
	}
}

func (self Config) Options() runner.CompilationOptions {
	level := runner.Debug
	if self.Release {
		level = runner.Release
	}

	return runner.CompilationOptions{
		OptimizationLevel: level,
		CallStackLimit:    self.StackSize,
	}
}

// Logger discards everything unless verbose output was requested.
func (self Config) Logger(writer io.Writer) *log.Logger {
	if !self.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(writer, "[hmsrun] ", log.Ltime|log.Lmicroseconds)
}

func (self Config) Console(out io.Writer, err io.Writer) *console.Console {
	if self.NoColor {
		return console.NewPlain(out, err)
	}
	return console.New(out, err)
}

// Context derives the context of a single invocation.
// A zero timeout leaves the run unbounded.
func (self Config) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}

	if self.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, self.Timeout)
}
