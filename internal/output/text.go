package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nandscan/nandscan/internal/models"
)

// TextFormatter renders the human-readable report: project header, totals,
// then one aligned line per custom chip sorted by gate count descending,
// with deviation from the average and share of the total.
type TextFormatter struct{}

// Format implements Formatter.
func (f *TextFormatter) Format(result *models.ProjectScanResult, w io.Writer) error {
	chips := customChips(result)
	avg := averageNAND(result, len(chips))

	longestName := 0
	widestCount := 0
	for _, c := range chips {
		if len(c.Name) > longestName {
			longestName = len(c.Name)
		}
		if n := len(strconv.Itoa(c.GateCount)); n > widestCount {
			widestCount = n
		}
	}

	if _, err := fmt.Fprintf(w, "Project: %s\n", result.Project.Name); err != nil {
		return err
	}
	fmt.Fprintf(w, "Path: %s\n", result.Project.Path)
	fmt.Fprintf(w, "Total NAND: %d\n", result.TotalNAND)
	fmt.Fprintf(w, "Average NAND per chip: %.1f\n", avg)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w, "Chips:")

	for _, c := range chips {
		aboveAvg := 0.0
		if avg > 0 {
			aboveAvg = (float64(c.GateCount) - avg) / avg * 100
		}
		totalPercent := 0.0
		if result.TotalNAND > 0 {
			totalPercent = float64(c.GateCount) / float64(result.TotalNAND) * 100
		}
		_, err := fmt.Fprintf(w, "%s:%s %d,%s %+.1f%%, %.1f%%\n",
			c.Name,
			strings.Repeat(" ", longestName-len(c.Name)),
			c.GateCount,
			strings.Repeat(" ", widestCount-len(strconv.Itoa(c.GateCount))),
			aboveAvg,
			totalPercent,
		)
		if err != nil {
			return err
		}
	}

	if len(result.ChipErrors) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 40))
		fmt.Fprintf(w, "Unresolved chips: %d\n", len(result.ChipErrors))
		for _, ce := range result.ChipErrors {
			fmt.Fprintf(w, "  %s: %s\n", ce.Chip, ce.Error)
		}
	}

	return nil
}
