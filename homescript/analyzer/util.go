package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/smarthome-go/hmsrun/homescript/errors"
)

// Suggestions are only made for names which are at most this many edits away.
const maxSuggestionDistance = 2

type variableOrigin uint8

const (
	normalVariableOrigin variableOrigin = iota
	parameterVariableOrigin
)

type variable struct {
	span   errors.Span
	origin variableOrigin
	used   bool
}

type scope struct {
	values map[string]*variable
	// declaration order, keeps diagnostics deterministic
	order []string
}

func newScope() scope {
	return scope{
		values: make(map[string]*variable),
		order:  make([]string, 0),
	}
}

func (self *Analyzer) pushScope() {
	self.scopes = append(self.scopes, newScope())
}

func (self *Analyzer) dropScope() {
	last := self.scopes[len(self.scopes)-1]
	self.scopes = self.scopes[:len(self.scopes)-1]

	// check for unused variables
	for _, key := range last.order {
		variable := last.values[key]
		if variable.used || strings.HasPrefix(key, "_") {
			continue
		}

		label := "Variable"
		if variable.origin == parameterVariableOrigin {
			label = "Parameter"
		}

		self.warn(
			fmt.Sprintf("%s '%s' is unused", label, key),
			[]string{fmt.Sprintf("If this is intentional, change the name to '_%s' to hide this message", key)},
			variable.span,
		)
	}
}

func (self *Analyzer) lookupVar(name string) (*variable, bool) {
	for idx := len(self.scopes) - 1; idx >= 0; idx-- {
		if found, ok := self.scopes[idx].values[name]; ok {
			return found, true
		}
	}
	return nil, false
}

func (self *Analyzer) addVar(name string, span errors.Span, origin variableOrigin) {
	if prev, exists := self.lookupVar(name); exists && !prev.used && !strings.HasPrefix(name, "_") {
		label := "variable"
		if prev.origin == parameterVariableOrigin {
			label = "parameter"
		}

		// variable is being shadowed, warn if the old variable was unused
		self.warn(
			fmt.Sprintf("Unused %s '%s'", label, name),
			nil,
			prev.span,
		)
		caser := cases.Title(language.AmericanEnglish)
		self.hint(
			fmt.Sprintf("%s '%s' shadowed here", caser.String(label), name),
			nil,
			span,
		)
		// only report it once
		prev.used = true
	}

	current := &self.scopes[len(self.scopes)-1]
	if _, exists := current.values[name]; !exists {
		current.order = append(current.order, name)
	}
	current.values[name] = &variable{
		span:   span,
		origin: origin,
		used:   false,
	}
}

// Returns every name which is visible at the current position.
func (self *Analyzer) visibleNames() []string {
	names := make([]string, 0)
	for _, scope := range self.scopes {
		names = append(names, scope.order...)
	}
	for name := range self.functions {
		names = append(names, name)
	}
	for name := range self.globals {
		names = append(names, name)
	}
	return names
}

// Returns a `did you mean` note if one of the candidates is similar to `name`.
func suggestion(name string, candidates []string) []string {
	sorted := append([]string{}, candidates...)
	sort.Strings(sorted)

	best := ""
	bestDistance := maxSuggestionDistance + 1

	for _, candidate := range sorted {
		if candidate == name {
			continue
		}
		distance := levenshtein.ComputeDistance(name, candidate)
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	if best == "" {
		return nil
	}
	return []string{fmt.Sprintf("did you mean '%s'?", best)}
}
