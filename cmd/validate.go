package main

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/smarthome-go/hmsrun/homescript/fuzzer"
)

const minRenderDelay = time.Millisecond * 250
const minProgressDelay = time.Second * 1

// brokenOutput describes a program whose outcome differs from the reference.
type brokenOutput struct {
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

func validateFuzzDB(ctx *cli.Context, filename string, numWorkers uint) error {
	config := newConfig(ctx)

	archive, err := zip.OpenReader(filename)
	if err != nil {
		return err
	}
	defer archive.Close()

	expected, hasExpected := "", false
	programs := make([]*zip.File, 0)
	for _, file := range archive.File {
		if file.Name == expectedFile {
			if expected, err = readZipFile(file); err != nil {
				return err
			}
			hasExpected = true
			continue
		}
		programs = append(programs, file)
	}

	if !hasExpected {
		return fmt.Errorf("`%s` is not a fuzzing database: `%s` is missing", filename, expectedFile)
	}

	// Read previous progress and filter out programs which were already checked
	progFileName := fmt.Sprintf("%s.prog.json", filename)
	prog, err := readProgress(ctx.App.ErrWriter, progFileName)
	if err != nil {
		return err
	}

	var success, failed uint
	pending := make([]*zip.File, 0)
	for _, file := range programs {
		outcome, found := prog.Completed[file.Name]
		switch {
		case !found:
			pending = append(pending, file)
		case outcome == nil:
			success++
		default:
			failed++
		}
	}

	if numWorkers == 0 {
		numWorkers = 1
	}
	chunkSize := (uint(len(pending)) + numWorkers - 1) / numWorkers
	chunks := fuzzer.ChunkInput[*zip.File](pending, chunkSize)

	results := make(chan workerProgress)
	wg := sync.WaitGroup{}
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []*zip.File) {
			defer wg.Done()
			worker(ctx.Context, config, chunk, expected, results)
		}(chunk)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	start := time.Now()
	lastRender := time.Time{}
	lastWrite := time.Time{}
	total := uint(len(programs))

	for result := range results {
		if result.broken == nil {
			success++
		} else {
			failed++
		}
		prog.Completed[result.filename] = result.broken

		if time.Since(lastRender) > minRenderDelay {
			lastRender = time.Now()
			printProgress(ctx.App.ErrWriter, success, failed, total, start)
		}

		if time.Since(lastWrite) > minProgressDelay {
			lastWrite = time.Now()
			if err := writeProgress(&prog, progFileName); err != nil {
				return err
			}
		}
	}

	printProgress(ctx.App.ErrWriter, success, failed, total, start)
	fmt.Fprintln(ctx.App.ErrWriter)

	if err := writeProgress(&prog, progFileName); err != nil {
		return err
	}

	broken := make([]string, 0)
	for name, output := range prog.Completed {
		if output != nil {
			broken = append(broken, name)
		}
	}
	sort.Strings(broken)

	if len(broken) == 0 {
		fmt.Fprintf(ctx.App.Writer, "All %d program(s) reproduce the reference outcome\n", total)
		return nil
	}

	errMsg := fmt.Sprintf("Found %d broken program(s)", len(broken))
	fmt.Fprintln(ctx.App.Writer, errMsg)
	for _, name := range broken {
		output := prog.Completed[name]
		if output.Error != "" {
			fmt.Fprintf(ctx.App.Writer, "- `%s` failed: %s\n", name, output.Error)
			continue
		}
		fmt.Fprintf(ctx.App.Writer, "- `%s` created wrong outcome `%s`\n", name, output.Outcome)
	}

	return errors.New(errMsg)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func printProgress(writer io.Writer, success uint, failed uint, total uint, start time.Time) {
	done := success + failed

	percent := 100.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100.0
	}

	// Time per percent multiplied by the percentage left
	remaining := time.Duration(0)
	if percent > 0 {
		remaining = time.Duration(float64(time.Since(start)) / percent * (100.0 - percent))
	}

	fmt.Fprintf(
		writer,
		"\r%3d%% completed | success: %5d; failed: %5d; remaining: %5d | elapsed: %s, ETA %s%s",
		int(percent),
		success,
		failed,
		total-done,
		fmtDuration(time.Since(start)),
		fmtDuration(remaining),
		strings.Repeat(" ", 4),
	)
}

//
// Progress file
//

type progressFile struct {
	// Maps a filename to an outcome, `nil` means the program is correct.
	// Filenames which are not in the map have not yet been processed.
	Completed map[string]*brokenOutput `json:"completed"`
}

func writeProgress(file *progressFile, filename string) error {
	data, err := json.Marshal(*file)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0600)
}

func readProgress(logWriter io.Writer, filename string) (progressFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(logWriter, "Progress file `%s` does not exist, creating new one...\n", filename)
			return progressFile{
				Completed: make(map[string]*brokenOutput),
			}, nil
		}
		return progressFile{}, err
	}

	var prog progressFile
	if err := json.Unmarshal(data, &prog); err != nil {
		return progressFile{}, err
	}

	if prog.Completed == nil {
		prog.Completed = make(map[string]*brokenOutput)
	}

	fmt.Fprintf(logWriter, "Progress file `%s` read successfully.\n", filename)
	return prog, nil
}

//
// Worker
//

type workerProgress struct {
	filename string
	broken   *brokenOutput
}

func worker(ctx context.Context, config Config, chunk []*zip.File, expected string, results chan<- workerProgress) {
	for _, file := range chunk {
		code, err := readZipFile(file)
		if err != nil {
			results <- workerProgress{filename: file.Name, broken: &brokenOutput{Error: err.Error()}}
			continue
		}

		actual, err := outcome(ctx, config, file.Name, code)
		switch {
		case err != nil:
			results <- workerProgress{filename: file.Name, broken: &brokenOutput{Error: err.Error()}}
		case actual != expected:
			results <- workerProgress{filename: file.Name, broken: &brokenOutput{Outcome: actual}}
		default:
			results <- workerProgress{filename: file.Name}
		}
	}
}
