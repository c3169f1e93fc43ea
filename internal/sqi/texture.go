package sqi

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Texture class identifiers used by the GAEZ texture requirement tables.
const (
	TextureClay          = 1
	TextureSiltyClay     = 2
	TextureSiltyClayLoam = 3
	TextureClayLoam      = 4
	TextureSilt          = 5
	TextureSiltLoam      = 6
	TextureSandyClay     = 7
	TextureLoam          = 8
	TextureSandyClayLoam = 9
	TextureSandyLoam     = 10
	TextureLoamySand     = 11
	TextureSand          = 12
)

var textureNames = [...]string{
	TextureClay:          "clay",
	TextureSiltyClay:     "silty clay",
	TextureSiltyClayLoam: "silty clay loam",
	TextureClayLoam:      "clay loam",
	TextureSilt:          "silt",
	TextureSiltLoam:      "silt loam",
	TextureSandyClay:     "sandy clay",
	TextureLoam:          "loam",
	TextureSandyClayLoam: "sandy clay loam",
	TextureSandyLoam:     "sandy loam",
	TextureLoamySand:     "loamy sand",
	TextureSand:          "sand",
}

var textureIDs = func() map[string]int {
	m := make(map[string]int, len(textureNames)-1)
	for id, name := range textureNames {
		if name != "" {
			m[name] = id
		}
	}
	return m
}()

// ClassifyTexture maps a texture label to its class id (1-12). Matching is
// case-insensitive and otherwise exact.
func ClassifyTexture(label string) (int, error) {
	// Casers are stateful; a fresh one keeps this safe across goroutines.
	// Lowering rather than folding keeps "ſand" and similar labels unknown.
	if id, ok := textureIDs[cases.Lower(language.Und).String(label)]; ok {
		return id, nil
	}
	return 0, &UnknownTextureClassError{Label: label}
}

// TextureName returns the canonical lower-case label for a class id, or ""
// for ids outside 1-12.
func TextureName(id int) string {
	if id < 1 || id >= len(textureNames) {
		return ""
	}
	return textureNames[id]
}
