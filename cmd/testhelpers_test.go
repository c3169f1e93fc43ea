package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// testRows is a MAIZ requirement set for loam and clay at every input level.
func testRows() model.RequirementRows {
	var rows model.RequirementRows
	for _, lvl := range []int{1, 3, 4, 5} {
		for _, sqiCode := range []int{1, 2, 3} {
			rows.Texture = append(rows.Texture,
				model.TextureRequirement{CropID: "MAIZ", InputLevel: lvl, SQICode: sqiCode, TextureClassID: 8, TextureClass: "loam", Score: 80},
				model.TextureRequirement{CropID: "MAIZ", InputLevel: lvl, SQICode: sqiCode, TextureClassID: 1, TextureClass: "clay", Score: 50},
			)
		}
	}
	for _, sqiCode := range []int{3, 7} {
		rows.Property = append(rows.Property,
			model.PropertyRequirement{CropID: "MAIZ", InputLevel: 4, SQICode: sqiCode, Property: "rd", Value: 100, Score: 100},
			model.PropertyRequirement{CropID: "MAIZ", InputLevel: 4, SQICode: sqiCode, Property: "rd", Value: 0, Score: 50},
			model.PropertyRequirement{CropID: "MAIZ", InputLevel: 4, SQICode: sqiCode, Property: "cf", Value: 0, Score: 100},
			model.PropertyRequirement{CropID: "MAIZ", InputLevel: 4, SQICode: sqiCode, Property: "cf", Value: 30, Score: 60},
		)
	}
	return rows
}

func writeTablesJSON(t *testing.T, dir string) string {
	t.Helper()
	data, err := json.Marshal(testRows())
	require.NoError(t, err)
	path := filepath.Join(dir, "tables.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const loamProfileYAML = `id: P1
crop: MAIZ
input_level: L
layers:
  - {texture: loam, coarse_fragments: 0, bottom_depth: 30}
  - {texture: loam, coarse_fragments: 40, bottom_depth: 100}
`
