// Package profile reads soil profile files (YAML or JSON) for scoring.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// File is one profile document. Crop, InputLevel and WeightScheme are
// optional defaults that command-line flags override.
type File struct {
	ID             string            `yaml:"id" json:"id"`
	Crop           string            `yaml:"crop,omitempty" json:"crop,omitempty"`
	InputLevel     string            `yaml:"input_level,omitempty" json:"input_level,omitempty"`
	WeightScheme   int               `yaml:"weight_scheme,omitempty" json:"weight_scheme,omitempty"`
	ReferenceDepth *float64          `yaml:"reference_depth" json:"reference_depth"`
	Layers         []model.SoilLayer `yaml:"layers" json:"layers"`

	// Path is the file the document was read from.
	Path string `yaml:"-" json:"-"`
}

// Profile converts the document to a SoilProfile. defaultDepth replaces a
// missing or NaN (".nan") reference depth; zero or negative selects
// model.DefaultReferenceDepth.
func (f File) Profile(defaultDepth float64) model.SoilProfile {
	rd := f.ReferenceDepth
	if (rd == nil || math.IsNaN(*rd)) && defaultDepth > 0 {
		rd = &defaultDepth
	}
	return model.NewProfile(f.ID, f.Layers, rd)
}

// Load reads every profile document in a file. YAML files may hold several
// documents separated by "---"; JSON files hold one object or an array of
// objects. Documents without an id are named after the file.
func Load(path string) ([]File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "profile: read %s", path)
	}

	var docs []File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		docs, err = decodeYAML(data)
	case ".json":
		docs, err = decodeJSON(data)
	default:
		return nil, eris.Errorf("profile: unsupported file type %q (want .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "profile: parse %s", path)
	}
	if len(docs) == 0 {
		return nil, eris.Errorf("profile: %s contains no profiles", path)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range docs {
		docs[i].Path = path
		if docs[i].ID == "" {
			docs[i].ID = base
			if len(docs) > 1 {
				docs[i].ID = fmt.Sprintf("%s#%d", base, i+1)
			}
		}
	}
	return docs, nil
}

func decodeYAML(data []byte) ([]File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var docs []File
	for {
		var f File
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, f)
	}
}

func decodeJSON(data []byte) ([]File, error) {
	data = bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if len(data) > 0 && data[0] == '[' {
		var docs []File
		if err := dec.Decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return []File{f}, nil
}

// Glob expands a pattern (with "**" support) to profile files, sorted. A
// pattern without glob characters is returned as-is if it exists.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, eris.Wrapf(err, "profile: glob %q", pattern)
	}

	var out []string
	for _, m := range matches {
		switch strings.ToLower(filepath.Ext(m)) {
		case ".yaml", ".yml", ".json":
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, eris.Errorf("profile: no profile files match %q", pattern)
	}
	sort.Strings(out)
	return out, nil
}
