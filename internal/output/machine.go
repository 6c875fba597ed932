package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nandscan/nandscan/internal/models"
)

// report is the machine-readable view shared by the JSON and YAML formatters.
type report struct {
	ScanID    string             `json:"scan_id" yaml:"scan_id"`
	Project   string             `json:"project" yaml:"project"`
	Path      string             `json:"path" yaml:"path"`
	TotalNAND int                `json:"total_nand" yaml:"total_nand"`
	Chips     []reportChip       `json:"chips" yaml:"chips"`
	Errors    []models.ChipError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type reportChip struct {
	Name      string `json:"name" yaml:"name"`
	GateCount int    `json:"gate_count" yaml:"gate_count"`
	Resolved  bool   `json:"resolved" yaml:"resolved"`
}

func buildReport(result *models.ProjectScanResult) report {
	chips := customChips(result)
	r := report{
		ScanID:    result.ScanID.String(),
		Project:   result.Project.Name,
		Path:      result.Project.Path,
		TotalNAND: result.TotalNAND,
		Chips:     make([]reportChip, 0, len(chips)),
		Errors:    result.ChipErrors,
	}
	for _, c := range chips {
		r.Chips = append(r.Chips, reportChip{
			Name:      c.Name,
			GateCount: c.GateCount,
			Resolved:  c.Resolved(),
		})
	}
	return r
}

// JSONFormatter renders the scan result as indented JSON.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(result *models.ProjectScanResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildReport(result))
}

// YAMLFormatter renders the scan result as YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(result *models.ProjectScanResult, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(buildReport(result))
}
