package scanner

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/nandscan/nandscan/internal/errors"
	"github.com/nandscan/nandscan/internal/models"
)

// writeProject builds a project fixture: metadata plus one definition file
// per chip.
func writeProject(t *testing.T, metadata string, chips map[string]string) models.Project {
	t.Helper()
	dir := t.TempDir()
	if metadata != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ProjectDescription.json"), []byte(metadata), 0644))
	}
	if len(chips) > 0 {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "Chips"), 0755))
		for name, content := range chips {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "Chips", name+".json"), []byte(content), 0644))
		}
	}
	return models.Project{Name: filepath.Base(dir), Path: dir}
}

func metadataJSON(version string, chips ...string) string {
	names := ""
	for i, c := range chips {
		if i > 0 {
			names += ", "
		}
		names += fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf(`{"DLSVersion_EarliestCompatible": %q, "AllCustomChipNames": [%s]}`, version, names)
}

func TestScanXORProject(t *testing.T) {
	project := writeProject(t, metadataJSON("2.1.0", "XOR"), map[string]string{
		"XOR": `{"SubChips": [{"Name": "NAND"}, {"Name": "NAND"}, {"Name": "NAND"}, {"Name": "NAND"}]}`,
	})

	res, err := New().Scan(project)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Graph["XOR"].GateCount)
	// The sum covers every graph entry: XOR's 4 plus NAND's own unit cost.
	assert.Equal(t, 5, res.TotalNAND)
	assert.Empty(t, res.ChipErrors)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", res.ScanID.String())
}

func TestScanReusesSharedChips(t *testing.T) {
	project := writeProject(t, metadataJSON("2.1.5", "ADDER", "XOR"), map[string]string{
		"XOR":   `{"SubChips": [{"Name": "NAND"}, {"Name": "NAND"}, {"Name": "NAND"}, {"Name": "NAND"}]}`,
		"ADDER": `{"SubChips": [{"Name": "XOR"}, {"Name": "XOR"}, {"Name": "NAND"}]}`,
	})

	res, err := New().Scan(project)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Graph["XOR"].GateCount)
	assert.Equal(t, 9, res.Graph["ADDER"].GateCount)
	assert.Equal(t, 14, res.TotalNAND) // 9 + 4 + NAND's 1
}

func TestVersionGate(t *testing.T) {
	tests := []struct {
		version string
		skipped bool
	}{
		{"1.0.0", false},
		{"2.1.4", false},
		{"2.1.5", false}, // boundary is inclusive
		{"2.1.6", true},
		{"2.2.0", true},
		{"3.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			project := writeProject(t, metadataJSON(tt.version, "BUF"), map[string]string{
				"BUF": `{"SubChips": [{"Name": "NAND"}]}`,
			})

			res, err := New().Scan(project)
			if tt.skipped {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, xerrors.ErrMetadata))
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 1, res.Graph["BUF"].GateCount)
			}
		})
	}
}

func TestScanSkipConditions(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
	}{
		{"missing metadata", ""},
		{"invalid json", `{broken`},
		{"missing version", `{"AllCustomChipNames": ["A"]}`},
		{"unparseable version", metadataJSON("not-a-version", "A")},
		{"zero chips", metadataJSON("2.0.0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := writeProject(t, tt.metadata, nil)

			res, err := New().Scan(project)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, xerrors.ErrMetadata), "got %v", err)
			assert.Nil(t, res)
		})
	}
}

func TestBrokenChipDoesNotAbortProject(t *testing.T) {
	project := writeProject(t, metadataJSON("2.0.0", "GOOD", "BROKEN", "ALSO-GOOD"), map[string]string{
		"GOOD":      `{"SubChips": [{"Name": "NAND"}, {"Name": "NAND"}]}`,
		"BROKEN":    `{"SubChips": "oops"}`,
		"ALSO-GOOD": `{"SubChips": [{"Name": "GOOD"}]}`,
	})

	res, err := New().Scan(project)
	require.NoError(t, err)

	require.Len(t, res.ChipErrors, 1)
	assert.Equal(t, "BROKEN", res.ChipErrors[0].Chip)

	assert.Equal(t, 2, res.Graph["GOOD"].GateCount)
	assert.Equal(t, 2, res.Graph["ALSO-GOOD"].GateCount)
	assert.False(t, res.Graph["BROKEN"].Resolved())
	// BROKEN contributes nothing; 2 + 2 + NAND's 1.
	assert.Equal(t, 5, res.TotalNAND)
}

func TestMissingChipFileReported(t *testing.T) {
	project := writeProject(t, metadataJSON("2.0.0", "PHANTOM"), map[string]string{})

	res, err := New().Scan(project)
	require.NoError(t, err)

	require.Len(t, res.ChipErrors, 1)
	assert.Equal(t, "PHANTOM", res.ChipErrors[0].Chip)
	assert.False(t, res.Graph["PHANTOM"].Resolved())
	assert.Equal(t, 1, res.TotalNAND) // only NAND's seed cost
}

func TestCyclicProjectReportsError(t *testing.T) {
	project := writeProject(t, metadataJSON("2.0.0", "LOOP-A"), map[string]string{
		"LOOP-A": `{"SubChips": [{"Name": "LOOP-B"}]}`,
		"LOOP-B": `{"SubChips": [{"Name": "LOOP-A"}]}`,
	})

	res, err := New().Scan(project)
	require.NoError(t, err)

	require.Len(t, res.ChipErrors, 1)
	assert.Equal(t, "LOOP-A", res.ChipErrors[0].Chip)
	assert.Contains(t, res.ChipErrors[0].Error, "cyclic")
}

func TestBuiltinsResolveWithoutFiles(t *testing.T) {
	// Display and clock builtins have no definition files; only NAND counts.
	project := writeProject(t, metadataJSON("2.1.5", "BLINKER"), map[string]string{
		"BLINKER": `{"SubChips": [{"Name": "CLOCK"}, {"Name": "LED"}, {"Name": "NAND"}]}`,
	})

	res, err := New().Scan(project)
	require.NoError(t, err)

	assert.Empty(t, res.ChipErrors)
	assert.Equal(t, 1, res.Graph["BLINKER"].GateCount)
	assert.Equal(t, 2, res.TotalNAND)
}
