// Package projects discovers save-game projects under a game directory.
package projects

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/nandscan/nandscan/internal/errors"
	"github.com/nandscan/nandscan/internal/models"
)

// projectsDir is the sub-directory of the game directory that holds one
// folder per project.
const projectsDir = "Projects"

// Discover enumerates the project folders under gameDir, sorted by name.
// Inability to read the Projects directory at all is the one fatal startup
// condition, so the error propagates.
func Discover(gameDir string) ([]models.Project, error) {
	dir := filepath.Join(gameDir, projectsDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.TypeFileSystem, "failed to read project directory %s", dir)
	}

	var found []models.Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		found = append(found, models.Project{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// Find returns the project with the given name, or false when absent.
func Find(list []models.Project, name string) (models.Project, bool) {
	for _, p := range list {
		if p.Name == name {
			return p, true
		}
	}
	return models.Project{}, false
}
