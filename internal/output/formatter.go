package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/nandscan/nandscan/internal/catalog"
	"github.com/nandscan/nandscan/internal/models"
)

// Formatter renders a project scan result.
type Formatter interface {
	Format(result *models.ProjectScanResult, w io.Writer) error
}

// New creates the formatter for a format name.
func New(format string) (Formatter, error) {
	switch format {
	case "", "text":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, or yaml)", format)
	}
}

// customChips returns the non-primitive entries of the graph sorted by gate
// count descending, ties by name. Builtins and NAND never appear as report
// lines; NAND participates only as the unit cost inside the totals.
func customChips(result *models.ProjectScanResult) []*models.Chip {
	var chips []*models.Chip
	for name, c := range result.Graph {
		if catalog.IsPrimitive(name) {
			continue
		}
		chips = append(chips, c)
	}
	sort.Slice(chips, func(i, j int) bool {
		if chips[i].GateCount != chips[j].GateCount {
			return chips[i].GateCount > chips[j].GateCount
		}
		return chips[i].Name < chips[j].Name
	})
	return chips
}

// averageNAND is the project total divided by the number of custom chips.
func averageNAND(result *models.ProjectScanResult, customCount int) float64 {
	if customCount == 0 {
		return 0
	}
	return float64(result.TotalNAND) / float64(customCount)
}
