package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/smarthome-go/hmsrun/runner"
)

const programName = "hmsrun"
const version = "latest"

const (
	exitCompilationFailure = 1
	exitRuntimeFault       = 2
	exitCanceled           = 3
)

func fileValidator(ctx *cli.Context) error {
	if ctx.Args().Len() < 1 {
		return fmt.Errorf("Expected at least one argument <file>")
	}
	return nil
}

func newApp(stdout io.Writer, stderr io.Writer) *cli.App {
	// nolint:exhaustruct
	return &cli.App{
		Name:      programName,
		Usage:     "Compile and run Homescript programs",
		Version:   version,
		Compiled:  time.Now(),
		Writer:    stdout,
		ErrWriter: stderr,
		Authors: []*cli.Author{
			{
				Name:  "The Smarthome Authors",
				Email: "",
			},
		},
		// Exit codes are handled by `main` so that the app can be run in tests
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "release",
				Usage:   "Optimize the program before it is run",
				Aliases: []string{"r"},
				EnvVars: []string{"HMSRUN_RELEASE"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Cancel the program after this duration (0 disables the timeout)",
				Aliases: []string{"t"},
				EnvVars: []string{"HMSRUN_TIMEOUT"},
			},
			&cli.UintFlag{
				Name:    "stack-size",
				Usage:   "Maximum depth of nested function calls",
				Value:   runner.DefaultCallStackLimit,
				EnvVars: []string{"HMSRUN_STACK_SIZE"},
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Never color the output (also set if the NO_COLOR variable is present)",
			},
			&cli.BoolFlag{
				Name:    "warnings",
				Usage:   "Print compiler warnings before the program is run",
				Aliases: []string{"w"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Log compilation and execution timings",
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a Homescript file",
				ArgsUsage: "<file> [args...]",
				Before:    fileValidator,
				Action: func(c *cli.Context) error {
					filename := c.Args().First()

					file, err := os.ReadFile(filename)
					if err != nil {
						return err
					}

					return execute(c, filename, string(file), c.Args().Tail())
				},
			},
			{
				Name:      "eval",
				Usage:     "Run Homescript code passed on the command line",
				ArgsUsage: "<code> [args...]",
				Before: func(c *cli.Context) error {
					if c.Args().Len() < 1 {
						return fmt.Errorf("Expected at least one argument <code>")
					}
					return nil
				},
				Action: func(c *cli.Context) error {
					return execute(c, "eval", c.Args().First(), c.Args().Tail())
				},
			},
			{
				Name:      "check",
				Usage:     "Report every diagnostic of a Homescript file without running it",
				ArgsUsage: "<file>",
				Before:    fileValidator,
				Action: func(c *cli.Context) error {
					filename := c.Args().First()

					file, err := os.ReadFile(filename)
					if err != nil {
						return err
					}

					return check(c, filename, string(file))
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive session, every entry is run as its own program",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "history",
						Usage: "History file path (default: ~/.hmsrun_history)",
					},
				},
				Action: repl,
			},
			fuzzCommand(),
		},
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr)

	if err := app.Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		log.Fatal(err)
	}
}
