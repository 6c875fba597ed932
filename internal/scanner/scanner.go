// Package scanner orchestrates the scan of a single project: load metadata,
// gate on version compatibility, seed a fresh graph with the primitive
// catalog, resolve every declared chip, and aggregate the totals.
package scanner

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/nandscan/nandscan/internal/catalog"
	"github.com/nandscan/nandscan/internal/errors"
	"github.com/nandscan/nandscan/internal/logging"
	"github.com/nandscan/nandscan/internal/models"
	"github.com/nandscan/nandscan/internal/resolver"
	"github.com/nandscan/nandscan/internal/store"
)

// VersionCeiling is the newest DLS save format this tool understands.
// Projects declaring an earliest-compatible version above it are skipped;
// a project exactly at the ceiling is accepted.
const VersionCeiling = "2.1.5"

// metadataFile is the project-level description every analyzable project carries.
const metadataFile = "ProjectDescription.json"

// Scanner scans projects. Safe for concurrent use across projects: every scan
// builds its own graph and store.
type Scanner struct {
	ceiling *semver.Version
}

// New returns a scanner gated at VersionCeiling.
func New() *Scanner {
	return &Scanner{ceiling: semver.MustParse(VersionCeiling)}
}

// Scan analyzes one project. A non-nil error means the project was skipped
// (metadata missing or unusable, incompatible version, or no custom chips);
// skips are diagnostics, not hard failures, and callers are expected to log
// them and continue. Per-chip resolution failures do not fail the scan; they
// are collected on the result and that chip's contribution is omitted.
func (s *Scanner) Scan(project models.Project) (*models.ProjectScanResult, error) {
	meta, err := s.loadMetadata(project)
	if err != nil {
		return nil, err
	}

	declared := meta.AllCustomChipNames
	if len(declared) == 0 {
		return nil, errors.MetadataError("no custom chips declared in %s", project.Name)
	}

	graph := models.NewChipGraph()
	catalog.Seed(graph)
	for _, name := range declared {
		graph.Ensure(name)
	}

	res := resolver.New(store.NewFSStore(project.Path))

	var chipErrs []models.ChipError
	for _, name := range declared {
		if err := res.Resolve(name, graph); err != nil {
			logging.Warn("chip resolution failed",
				"project", project.Name, "chip", name, "error", err)
			chipErrs = append(chipErrs, models.ChipError{Chip: name, Error: err.Error()})
		}
	}

	// Builtins are included in the sum; they contribute their fixed 0,
	// NAND its unit cost of 1. Unresolved entries contribute 0.
	total := 0
	for _, c := range graph {
		total += c.GateCount
	}

	return &models.ProjectScanResult{
		ScanID:     uuid.New(),
		Project:    project,
		Graph:      graph,
		TotalNAND:  total,
		ChipErrors: chipErrs,
	}, nil
}

// loadMetadata reads and gates ProjectDescription.json. Every failure mode is
// a skip condition: missing file, unreadable contents, invalid JSON, missing
// or unparseable version, version above the ceiling.
func (s *Scanner) loadMetadata(project models.Project) (*models.ProjectMetadata, error) {
	path := filepath.Join(project.Path, metadataFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.MetadataError("missing %s in %s", metadataFile, project.Name)
		}
		return nil, errors.Wrapf(err, errors.TypeMetadata, "failed to read metadata for %s", project.Name)
	}

	var meta models.ProjectMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, errors.TypeMetadata, "failed to parse metadata for %s", project.Name)
	}

	if meta.EarliestCompatible == "" {
		return nil, errors.MetadataError("missing DLSVersion_EarliestCompatible in %s", project.Name)
	}
	declared, err := semver.NewVersion(meta.EarliestCompatible)
	if err != nil {
		return nil, errors.MetadataError("invalid DLSVersion_EarliestCompatible %q in %s",
			meta.EarliestCompatible, project.Name)
	}
	if declared.GreaterThan(s.ceiling) {
		return nil, errors.MetadataError("incompatible version %s > %s in %s",
			declared, s.ceiling, project.Name)
	}

	return &meta, nil
}
