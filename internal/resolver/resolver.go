// Package resolver implements the chip-dependency resolution engine: a
// memoized depth-first traversal that computes how many NAND gates a chip
// expands to. Nodes and edges are discovered lazily from the store; each
// distinct chip is loaded and summed at most once per graph.
package resolver

import (
	"github.com/nandscan/nandscan/internal/errors"
	"github.com/nandscan/nandscan/internal/logging"
	"github.com/nandscan/nandscan/internal/models"
	"github.com/nandscan/nandscan/internal/store"
)

// Resolver resolves chips against a single project's store. It carries no
// per-scan state of its own; all memoization lives in the graph, so one
// resolver may serve many Resolve calls against the same graph.
type Resolver struct {
	store store.Store
}

// New returns a resolver backed by the given store.
func New(st store.Store) *Resolver {
	return &Resolver{store: st}
}

// Resolve computes the NAND gate count of the named chip, recursively
// resolving every sub-chip it references. The graph must already be seeded
// with the primitive catalog.
//
// Memo hit: an already-resolved name returns immediately with no storage
// read. A chip found in progress on re-entry is a cycle and fails with
// ErrCyclicDefinition instead of recursing. On any failure the chip's entry
// is left unresolved; resolution is fail-fast, so siblings after the first
// failing sub-chip are never attempted.
func (r *Resolver) Resolve(name string, graph models.ChipGraph) error {
	if c, ok := graph[name]; ok {
		switch c.State {
		case models.StateResolved:
			return nil
		case models.StateInProgress:
			return errors.CyclicDefinition(name)
		}
	}

	entry := graph.Ensure(name)
	entry.State = models.StateInProgress

	def, err := r.store.LoadDefinition(name)
	if err != nil {
		entry.State = models.StateUnvisited
		return err
	}

	total := 0
	for _, ref := range def.SubChips {
		sub := graph.Ensure(ref.Name)
		if !sub.Resolved() {
			if err := r.Resolve(ref.Name, graph); err != nil {
				entry.State = models.StateUnvisited
				return err
			}
		}
		// Repeated references are additive: a chip placed twice counts twice.
		total += sub.GateCount
	}

	// Commit point: until here the entry stays unresolved even if some
	// sub-chips resolved fully.
	entry.GateCount = total
	entry.State = models.StateResolved

	logging.Debug("chip resolved", "chip", name, "gate_count", total, "sub_chips", len(def.SubChips))
	return nil
}
