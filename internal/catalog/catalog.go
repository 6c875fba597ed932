// Package catalog holds the fixed table of chips that ship with
// Digital-Logic-Sim. These are atomic hardware abstractions: they have no
// definition file on disk and never decompose further. NAND is the single
// fundamental primitive and costs exactly one gate; every other builtin
// costs zero.
package catalog

import (
	"github.com/nandscan/nandscan/internal/models"
)

// NAND is the fundamental primitive every custom chip ultimately expands to.
const NAND = "NAND"

// builtins are the zero-cost builtin chip identifiers, grouped the way the
// simulator's palette groups them.
var builtins = []string{
	// Merge / Split
	"4-1BIT",
	"1-4BIT",
	"4-8BIT",
	"8-4BIT",
	"1-8BIT",
	"8-1BIT",
	// Display
	"LED",
	"7-SEGMENT",
	"RGB DISPLAY",
	"DOT DISPLAY",
	// Memory
	"ROM 256x16",
	// Basic
	"CLOCK",
	"PULSE",
	"KEY",
	"3-STATE BUFFER",
	// Bus
	"BUS-1",
	"BUS-4",
	"BUS-8",
}

var builtinSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(builtins))
	for _, name := range builtins {
		s[name] = struct{}{}
	}
	return s
}()

// Seed inserts every builtin plus NAND into a fresh graph, all pre-resolved.
// Must run before any resolution begins so primitives never hit storage.
func Seed(g models.ChipGraph) {
	g[NAND] = &models.Chip{Name: NAND, GateCount: 1, State: models.StateResolved}
	for _, name := range builtins {
		g[name] = &models.Chip{Name: name, State: models.StateResolved}
	}
}

// IsBuiltin reports whether name is a zero-cost builtin. NAND is not a
// builtin in this sense; use IsPrimitive to cover both.
func IsBuiltin(name string) bool {
	_, ok := builtinSet[name]
	return ok
}

// IsPrimitive reports whether name is pre-resolved by Seed, i.e. it is either
// a builtin or NAND itself. Primitives never appear as report lines.
func IsPrimitive(name string) bool {
	return name == NAND || IsBuiltin(name)
}

// Size returns the number of entries Seed inserts.
func Size() int {
	return len(builtins) + 1
}
