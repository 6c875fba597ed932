package store

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/nandscan/nandscan/internal/errors"
	"github.com/nandscan/nandscan/internal/models"
)

func writeChip(t *testing.T, base, name, content string) {
	t.Helper()
	dir := filepath.Join(base, "Chips")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0644))
}

func TestLoadDefinition(t *testing.T) {
	base := t.TempDir()
	writeChip(t, base, "XOR", `{
		"Name": "XOR",
		"SubChips": [
			{"Name": "NAND", "ID": 0},
			{"Name": "NAND", "ID": 1},
			{"Name": "NAND", "ID": 2},
			{"Name": "NAND", "ID": 3}
		]
	}`)

	def, err := NewFSStore(base).LoadDefinition("XOR")
	require.NoError(t, err)

	assert.Equal(t, "XOR", def.Name)
	require.Len(t, def.SubChips, 4)
	for _, ref := range def.SubChips {
		assert.Equal(t, "NAND", ref.Name)
	}
}

func TestLoadDefinitionPreservesOrder(t *testing.T) {
	base := t.TempDir()
	writeChip(t, base, "MIX", `{"SubChips": [{"Name": "B"}, {"Name": "A"}, {"Name": "B"}]}`)

	def, err := NewFSStore(base).LoadDefinition("MIX")
	require.NoError(t, err)
	assert.Equal(t, []models.SubChipRef{{Name: "B"}, {Name: "A"}, {Name: "B"}}, def.SubChips)
}

func TestLoadDefinitionEmptySubChips(t *testing.T) {
	base := t.TempDir()
	writeChip(t, base, "EMPTY", `{"SubChips": []}`)

	def, err := NewFSStore(base).LoadDefinition("EMPTY")
	require.NoError(t, err)
	assert.Empty(t, def.SubChips)
}

func TestLoadDefinitionMissingFile(t *testing.T) {
	base := t.TempDir()

	_, err := NewFSStore(base).LoadDefinition("NOPE")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, xerrors.ErrDefinitionNotFound))
}

func TestLoadDefinitionMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{not json`},
		{"subchips missing", `{"Name": "X"}`},
		{"subchips null", `{"SubChips": null}`},
		{"subchips not array", `{"SubChips": 42}`},
		{"subchips object", `{"SubChips": {"Name": "NAND"}}`},
		{"entry missing name", `{"SubChips": [{"ID": 7}]}`},
		{"entry name not string", `{"SubChips": [{"Name": 7}]}`},
		{"entry name null", `{"SubChips": [{"Name": null}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			writeChip(t, base, "BAD", tt.content)

			_, err := NewFSStore(base).LoadDefinition("BAD")
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, xerrors.ErrMalformedDefinition), "got %v", err)
		})
	}
}
