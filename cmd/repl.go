package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/urfave/cli/v2"

	"github.com/smarthome-go/hmsrun/homescript/interpreter"
	"github.com/smarthome-go/hmsrun/homescript/interpreter/value"
	"github.com/smarthome-go/hmsrun/homescript/lexer"
)

const (
	replPrompt         = ">>> "
	replContinuePrompt = "... "
	replHistoryLimit   = 1000
	replFilename       = "repl"
)

func repl(ctx *cli.Context) error {
	historyFile := ctx.String("history")
	if historyFile == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			historyFile = filepath.Join(home, ".hmsrun_history")
		}
	}

	session := newSession(ctx)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            replPrompt,
		HistoryFile:       historyFile,
		HistoryLimit:      replHistoryLimit,
		AutoComplete:      newCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            ctx.App.Writer,
		Stderr:            ctx.App.ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("could not initialize line editor: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(ctx.App.ErrWriter, "%s %s REPL (type 'exit' to quit, Ctrl+D to exit)\n", programName, version)

	var multiLine strings.Builder
	inMultiLine := false

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				multiLine.Reset()
				inMultiLine = false
				rl.SetPrompt(replPrompt)
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("could not read input: %w", err)
		}

		if strings.HasSuffix(line, "\\") {
			multiLine.WriteString(strings.TrimSuffix(line, "\\"))
			multiLine.WriteString("\n")
			inMultiLine = true
			rl.SetPrompt(replContinuePrompt)
			continue
		}

		if inMultiLine {
			multiLine.WriteString(line)
			line = multiLine.String()
			multiLine.Reset()
			inMultiLine = false
			rl.SetPrompt(replPrompt)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		// Failed runs have already been printed, the session continues
		err = session.Evaluate(ctx.Context, replFilename, line, ctx.Args().Slice())
		if _, isRunFailure := exitError(err).(cli.ExitCoder); err != nil && !isRunFailure {
			return err
		}
	}
}

//
// Completion
//

type completer struct {
	candidates []string
}

func newCompleter() completer {
	candidates := []string{interpreter.ArgsIdent}
	for name := range interpreter.Builtins {
		candidates = append(candidates, name)
	}
	candidates = append(candidates, lexer.Keywords()...)
	candidates = append(candidates, value.ExceptionTypes...)
	sort.Strings(candidates)

	return completer{candidates: candidates}
}

// Complete returns every candidate starting with `word`, closest matches first.
func (self completer) Complete(word string) []string {
	if word == "" {
		return nil
	}

	ranks := fuzzy.RankFind(word, self.candidates)
	sort.Stable(ranks)

	out := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		if strings.HasPrefix(rank.Target, word) {
			out = append(out, rank.Target)
		}
	}
	return out
}

// Do implements `readline.AutoCompleter`.
func (self completer) Do(line []rune, pos int) ([][]rune, int) {
	word := currentWord(line[:pos])

	matches := self.Complete(word)
	out := make([][]rune, 0, len(matches))
	for _, match := range matches {
		out = append(out, []rune(strings.TrimPrefix(match, word)))
	}

	return out, len([]rune(word))
}

func currentWord(line []rune) string {
	start := len(line)
	for start > 0 {
		char := line[start-1]
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
			break
		}
		start--
	}
	return string(line[start:])
}
