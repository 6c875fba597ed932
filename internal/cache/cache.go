// Package cache persists scan results between runs so unchanged projects are
// not re-resolved. Entries are keyed by project path and guarded by a
// fingerprint over the project's metadata and chip files; any edit to the
// save directory invalidates the entry.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/nandscan/nandscan/internal/catalog"
	"github.com/nandscan/nandscan/internal/models"
)

const bucketName = "scan_results"

// Cache is a bbolt-backed store of previous scan results.
type Cache struct {
	db   *bolt.DB
	path string
}

// entry is the persisted form of a clean scan: the fingerprint it is valid
// for plus the resolved custom-chip counts. Scans with unresolved chips are
// never cached.
type entry struct {
	Fingerprint string         `json:"fingerprint"`
	ScannedAt   time.Time      `json:"scanned_at"`
	TotalNAND   int            `json:"total_nand"`
	Chips       map[string]int `json:"chips"`
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", path, err)
	}
	return &Cache{db: db, path: path}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Fingerprint hashes the parts of a project directory the scan depends on:
// the metadata file and every chip definition (name, size, mtime).
func Fingerprint(projectPath string) (string, error) {
	h := sha256.New()

	meta, err := os.Stat(filepath.Join(projectPath, "ProjectDescription.json"))
	if err != nil {
		return "", fmt.Errorf("failed to stat project metadata: %w", err)
	}
	fmt.Fprintf(h, "meta:%d:%d\n", meta.Size(), meta.ModTime().UnixNano())

	chipsDir := filepath.Join(projectPath, "Chips")
	entries, err := os.ReadDir(chipsDir)
	if err != nil {
		// A project may declare chips it has no files for; the scan itself
		// reports that. Hash the absence so creating the dir invalidates.
		fmt.Fprintf(h, "chips:absent\n")
		return fmt.Sprintf("%x", h.Sum(nil)), nil
	}

	names := make([]string, 0, len(entries))
	infos := make(map[string]os.FileInfo, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return "", fmt.Errorf("failed to stat chip file %s: %w", e.Name(), err)
		}
		names = append(names, e.Name())
		infos[e.Name()] = info
	}
	sort.Strings(names)
	for _, name := range names {
		info := infos[name]
		fmt.Fprintf(h, "chip:%s:%d:%d\n", name, info.Size(), info.ModTime().UnixNano())
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Get returns the cached result for a project when the stored fingerprint
// matches, rebuilding the chip graph from the primitive catalog plus the
// stored counts.
func (c *Cache) Get(project models.Project, fingerprint string) (*models.ProjectScanResult, bool) {
	var e entry
	found := false

	c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		data := b.Get([]byte(project.Path))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil
		}
		found = true
		return nil
	})

	if !found || e.Fingerprint != fingerprint {
		return nil, false
	}

	graph := models.NewChipGraph()
	catalog.Seed(graph)
	for name, count := range e.Chips {
		graph[name] = &models.Chip{Name: name, GateCount: count, State: models.StateResolved}
	}

	return &models.ProjectScanResult{
		ScanID:    uuid.New(),
		Project:   project,
		Graph:     graph,
		TotalNAND: e.TotalNAND,
	}, true
}

// Put stores a scan result under the given fingerprint. Results with
// unresolved chips are skipped so a partial scan is never replayed as clean.
func (c *Cache) Put(result *models.ProjectScanResult, fingerprint string) error {
	if len(result.ChipErrors) > 0 {
		return nil
	}
	chips := make(map[string]int)
	for name, chip := range result.Graph {
		if catalog.IsPrimitive(name) {
			continue
		}
		if !chip.Resolved() {
			return nil
		}
		chips[name] = chip.GateCount
	}

	data, err := json.Marshal(entry{
		Fingerprint: fingerprint,
		ScannedAt:   time.Now().UTC(),
		TotalNAND:   result.TotalNAND,
		Chips:       chips,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return b.Put([]byte(result.Project.Path), data)
	})
}

// Len returns the number of cached projects.
func (c *Cache) Len() (int, error) {
	count := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		count = b.Stats().KeyN
		return nil
	})
	return count, err
}

// Clear drops every cached result.
func (c *Cache) Clear() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(bucketName)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(bucketName))
	})
}
