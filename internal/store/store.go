// Package store loads persisted chip definitions from a project's save
// directory. Definitions are hand-authored or tool-authored JSON and treated
// as untrusted: every field the resolver depends on is validated here.
package store

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nandscan/nandscan/internal/errors"
	"github.com/nandscan/nandscan/internal/models"
)

// Store is the read-only accessor the resolver pulls chip definitions from.
type Store interface {
	// LoadDefinition returns the definition for a non-primitive chip.
	// Fails with ErrDefinitionNotFound when no file exists for the name and
	// ErrMalformedDefinition when the file cannot be used.
	LoadDefinition(name string) (*models.ChipDefinition, error)
}

// chipsDir is the sub-directory a project keeps its chip definitions in.
const chipsDir = "Chips"

// FSStore reads chip definitions from `<base>/Chips/<name>.json`.
type FSStore struct {
	base string
}

// NewFSStore returns a store rooted at a project directory.
func NewFSStore(base string) *FSStore {
	return &FSStore{base: base}
}

// LoadDefinition implements Store.
func (s *FSStore) LoadDefinition(name string) (*models.ChipDefinition, error) {
	path := filepath.Join(s.base, chipsDir, name+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.DefinitionNotFound(name)
		}
		return nil, errors.Wrapf(err, errors.TypeFileSystem, "failed to read chip file for %s", name)
	}

	return ParseDefinition(name, data)
}

// ParseDefinition validates raw definition JSON into a ChipDefinition.
// The SubChips field must be present and an array, and every entry must carry
// a string Name; anything else is a malformed definition.
func ParseDefinition(name string, data []byte) (*models.ChipDefinition, error) {
	var raw struct {
		SubChips json.RawMessage `json:"SubChips"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.MalformedDefinition(name, "invalid JSON")
	}
	if len(raw.SubChips) == 0 || string(raw.SubChips) == "null" {
		return nil, errors.MalformedDefinition(name, "SubChips missing")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw.SubChips, &entries); err != nil {
		return nil, errors.MalformedDefinition(name, "SubChips is not an array")
	}

	def := &models.ChipDefinition{
		Name:     name,
		SubChips: make([]models.SubChipRef, 0, len(entries)),
	}
	for _, entry := range entries {
		var ref struct {
			Name *string `json:"Name"`
		}
		if err := json.Unmarshal(entry, &ref); err != nil || ref.Name == nil {
			return nil, errors.MalformedDefinition(name, "sub-chip entry missing Name")
		}
		def.SubChips = append(def.SubChips, models.SubChipRef{Name: *ref.Name})
	}

	return def, nil
}
