package models

import (
	"github.com/google/uuid"
)

// State tracks how far resolution has progressed for a chip. The InProgress
// state exists to turn cyclic definitions into reported errors instead of
// unbounded recursion.
type State int

const (
	StateUnvisited State = iota
	StateInProgress
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateUnvisited:
		return "unvisited"
	case StateInProgress:
		return "in_progress"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Chip is a named logic block with its computed NAND gate cost.
// GateCount is meaningful only once State == StateResolved; after that it
// never changes.
type Chip struct {
	Name      string `json:"name"`
	GateCount int    `json:"gate_count"`
	State     State  `json:"-"`
}

// Resolved reports whether the chip's gate count is final.
func (c *Chip) Resolved() bool {
	return c.State == StateResolved
}

// ChipGraph maps chip names to their resolution state. A graph belongs to
// exactly one project scan and is never shared across projects or goroutines.
type ChipGraph map[string]*Chip

// NewChipGraph returns an empty graph. Callers are expected to seed it with
// the primitive catalog before resolving anything.
func NewChipGraph() ChipGraph {
	return make(ChipGraph)
}

// Ensure returns the entry for name, inserting an unresolved zero-cost
// placeholder if the chip has not been seen yet.
func (g ChipGraph) Ensure(name string) *Chip {
	if c, ok := g[name]; ok {
		return c
	}
	c := &Chip{Name: name}
	g[name] = c
	return c
}

// SubChipRef is one occurrence of a chip inside another chip's definition.
// Multiplicity matters: a chip placed twice contributes its cost twice.
type SubChipRef struct {
	Name string `json:"Name"`
}

// ChipDefinition is the persisted description of a custom chip: the ordered
// list of sub-chips it directly contains.
type ChipDefinition struct {
	Name     string
	SubChips []SubChipRef
}

// Project is one save-game project directory.
type Project struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ProjectMetadata mirrors the fields of ProjectDescription.json that the
// scanner cares about.
type ProjectMetadata struct {
	EarliestCompatible string   `json:"DLSVersion_EarliestCompatible"`
	AllCustomChipNames []string `json:"AllCustomChipNames"`
}

// ChipError records a per-chip resolution failure. The chip's contribution is
// omitted from the totals but the rest of the project still scans.
type ChipError struct {
	Chip  string `json:"chip"`
	Error string `json:"error"`
}

// ProjectScanResult is the aggregate outcome of scanning one project.
type ProjectScanResult struct {
	ScanID     uuid.UUID   `json:"scan_id"`
	Project    Project     `json:"project"`
	Graph      ChipGraph   `json:"-"`
	TotalNAND  int         `json:"total_nand"`
	ChipErrors []ChipError `json:"chip_errors,omitempty"`
}
