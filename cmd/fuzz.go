package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/smarthome-go/hmsrun/console"
	"github.com/smarthome-go/hmsrun/format"
	"github.com/smarthome-go/hmsrun/homescript"
	"github.com/smarthome-go/hmsrun/homescript/diagnostic"
	"github.com/smarthome-go/hmsrun/homescript/fuzzer"
	"github.com/smarthome-go/hmsrun/homescript/parser"
	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
	"github.com/smarthome-go/hmsrun/runner"
)

const satisfiedAfterDefault = 50

func fuzzCommand() *cli.Command {
	return &cli.Command{
		Name:    "fuzz",
		Aliases: []string{"f"},
		Usage:   "Generate and validate behavior preserving program variants",
		Subcommands: []*cli.Command{
			{
				Name:      "gen",
				Usage:     "Generate a fuzzing database from a file",
				ArgsUsage: "<file> <db-output>",
				Before: func(ctx *cli.Context) error {
					if ctx.Args().Len() != 2 {
						return fmt.Errorf("Expected exactly two arguments <file> <db-output>")
					}
					return nil
				},
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:    "seed",
						Usage:   "Random seed for the transformer",
						Aliases: []string{"s"},
					},
					&cli.UintFlag{
						Name:    "passes",
						Usage:   "Number of passes, each pass transforms the output of the previous one",
						Aliases: []string{"p"},
						Value:   1,
					},
					&cli.UintFlag{
						Name:    "pass-limit",
						Usage:   "The maximum number of output programs of each pass",
						Aliases: []string{"l"},
						Value:   1000,
					},
					&cli.UintFlag{
						Name:    "satisfied-after",
						Usage:   "The number of iterations to continue even though no new output was generated",
						Aliases: []string{"a"},
						Value:   satisfiedAfterDefault,
					},
					&cli.UintFlag{
						Name:    "num-workers",
						Usage:   "The number of workers to spawn (default is the number of CPUs)",
						Aliases: []string{"n"},
					},
				},
				Action: generateFuzzDB,
			},
			{
				Name:      "validate",
				Usage:     "Run every program of a fuzzing database and compare its outcome",
				ArgsUsage: "<db>",
				Before:    fileValidator,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:    "num-workers",
						Usage:   "The number of workers to spawn (default is the number of CPUs)",
						Aliases: []string{"n"},
					},
				},
				Action: func(ctx *cli.Context) error {
					return validateFuzzDB(ctx, ctx.Args().First(), numWorkers(ctx))
				},
			},
		},
	}
}

func numWorkers(ctx *cli.Context) uint {
	workers := ctx.Uint("num-workers")
	if workers == 0 {
		return uint(runtime.NumCPU())
	}
	return workers
}

func generateFuzzDB(ctx *cli.Context) error {
	config := newConfig(ctx)
	logger := config.Logger(ctx.App.ErrWriter)
	filename := ctx.Args().First()

	file, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	program, syntaxErr := parser.Parse(string(file), filename)
	if syntaxErr != nil {
		return fmt.Errorf("could not parse `%s`:\n%s", filename, diagnostic.FromSyntaxError(*syntaxErr).Display(string(file), false))
	}

	// Every generated program must reproduce this outcome
	reference, err := outcome(ctx.Context, config, filename, string(file))
	if err != nil {
		return err
	}

	db, err := createFuzzDB(ctx.Args().Get(1), filename, reference)
	if err != nil {
		return err
	}

	generator := fuzzer.NewGenerator(
		program,
		func(_ ast.Program, treeString string, hashSum string) error {
			return db.Add(hashSum, treeString)
		},
		ctx.Int64("seed"),
		ctx.Uint("passes"),
		ctx.Uint("satisfied-after"),
		ctx.Uint("pass-limit"),
		numWorkers(ctx),
		logger,
	)

	if err := generator.Gen(); err != nil {
		db.Close()
		return fmt.Errorf("fuzzing `%s` failed: %w", filename, err)
	}

	if err := db.Close(); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "Generated %d program(s) from `%s`\n", db.count, filename)
	return nil
}

// outcome runs `code` and renders everything a behavior preserving
// transformation must not change: the output, the result and the kind and
// message of a fault. Programs which do not compile yield an error.
func outcome(ctx context.Context, config Config, filename string, code string) (string, error) {
	out := new(bytes.Buffer)
	r := runner.New(homescript.NewCompiler(nil), console.NewPlain(out, io.Discard))

	runCtx, cancel := config.Context(ctx)
	defer cancel()

	result, err := runner.Execute[any](runCtx, r, runner.NewScriptContext(code, filename, nil, config.Options()))

	var compilationErr *runner.CompilationError
	var cancellationErr *runner.CancellationError
	var runtimeErr *runner.RuntimeError

	switch {
	case err == nil:
		return out.String() + "=> " + r.Formatter().FormatValue(result), nil
	case errors.As(err, &compilationErr):
		return "", fmt.Errorf("`%s` does not compile: %w", filename, err)
	case errors.As(err, &cancellationErr):
		return out.String() + "!! Canceled", nil
	case errors.As(err, &runtimeErr):
		return out.String() + "!! " + format.FaultKind(runtimeErr.Cause) + ": " + runtimeErr.Cause.Error(), nil
	default:
		return "", err
	}
}
