package reqtable

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// Kind identifies one of the four requirement tables.
type Kind string

const (
	KindTexture  Kind = "texture"
	KindProperty Kind = "property"
	KindPhase    Kind = "phase"
	KindDrainage Kind = "drainage"
)

// Kinds lists the requirement tables in import order.
var Kinds = []Kind{KindTexture, KindProperty, KindPhase, KindDrainage}

var kindByName = map[string]Kind{
	"texture":     KindTexture,
	TableTexture:  KindTexture,
	"property":    KindProperty,
	"profile":     KindProperty,
	TableProperty: KindProperty,
	"phase":       KindPhase,
	TablePhase:    KindPhase,
	"drainage":    KindDrainage,
	TableDrainage: KindDrainage,
}

// ParseKind resolves a table name ("texture", "gaez_text_req_rf", ...) to a
// Kind. Matching ignores case.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return "", eris.Errorf("reqtable: unknown requirement table %q", name)
}

// ReadFile loads requirement rows from a workbook (.xlsx, one sheet per
// table), a JSON document shaped like model.RequirementRows, or a single CSV
// file whose base name names the table (e.g. "texture.csv" or
// "gaez_profile_req_rf.csv").
func ReadFile(path string) (model.RequirementRows, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		return ReadWorkbook(path)
	case ".json":
		return readJSON(path)
	case ".csv":
		kind, err := ParseKind(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err != nil {
			return model.RequirementRows{}, err
		}
		f, err := os.Open(path)
		if err != nil {
			return model.RequirementRows{}, eris.Wrapf(err, "reqtable: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		var rows model.RequirementRows
		if err := ReadCSV(f, kind, &rows); err != nil {
			return model.RequirementRows{}, eris.Wrapf(err, "reqtable: read %s", path)
		}
		return rows, nil
	default:
		return model.RequirementRows{}, eris.Errorf("reqtable: unsupported file type %q", ext)
	}
}

func readJSON(path string) (model.RequirementRows, error) {
	var rows model.RequirementRows
	data, err := os.ReadFile(path)
	if err != nil {
		return rows, eris.Wrapf(err, "reqtable: read %s", path)
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return rows, eris.Wrapf(err, "reqtable: unmarshal %s", path)
	}
	if err := validateAll(rows); err != nil {
		return model.RequirementRows{}, eris.Wrapf(err, "reqtable: validate %s", path)
	}
	return rows, nil
}

// ReadCSV decodes a CSV table with a header row and appends the rows to
// into. Header names are matched case-insensitively against the column
// names of the store schema; unknown columns are ignored.
func ReadCSV(r io.Reader, kind Kind, into *model.RequirementRows) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return decodeKind(cr, kind, into)
}

// ReadWorkbook reads every sheet whose name is a known table name. Other
// sheets are ignored; a workbook with no known sheets is an error.
func ReadWorkbook(path string) (model.RequirementRows, error) {
	var rows model.RequirementRows

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return rows, eris.Wrap(err, "xlsx: open file")
	}

	found := 0
	for _, sheet := range f.Sheets {
		kind, err := ParseKind(sheet.Name)
		if err != nil {
			continue
		}
		found++
		sr := &sheetReader{rows: sheetToStrings(sheet)}
		if err := decodeKind(sr, kind, &rows); err != nil {
			return rows, eris.Wrapf(err, "xlsx: sheet %q", sheet.Name)
		}
	}
	if found == 0 {
		return rows, eris.Errorf("xlsx: %s has no requirement sheets (want %v)", path, Kinds)
	}
	return rows, nil
}

func decodeKind(r csvutil.Reader, kind Kind, into *model.RequirementRows) error {
	var err error
	switch kind {
	case KindTexture:
		var rows []model.TextureRequirement
		if rows, err = decode[model.TextureRequirement](r); err == nil {
			err = validateRows(rows, 2, textureFields)
			into.Texture = append(into.Texture, rows...)
		}
	case KindProperty:
		var rows []model.PropertyRequirement
		if rows, err = decode[model.PropertyRequirement](r); err == nil {
			err = validateRows(rows, 2, propertyFields)
			into.Property = append(into.Property, rows...)
		}
	case KindPhase:
		var rows []model.PhaseRequirement
		if rows, err = decode[model.PhaseRequirement](r); err == nil {
			err = validateRows(rows, 2, phaseFields)
			into.Phase = append(into.Phase, rows...)
		}
	case KindDrainage:
		var rows []model.DrainageRequirement
		if rows, err = decode[model.DrainageRequirement](r); err == nil {
			err = validateRows(rows, 2, drainageFields)
			into.Drainage = append(into.Drainage, rows...)
		}
	default:
		return eris.Errorf("reqtable: unknown requirement table %q", kind)
	}
	return err
}

func decode[T any](r csvutil.Reader) ([]T, error) {
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	dec, err := csvutil.NewDecoder(r, header...)
	if err != nil {
		return nil, eris.Wrap(err, "csv: new decoder")
	}

	var out []T
	for {
		var v T
		if err := dec.Decode(&v); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "csv: decode row %d", len(out)+2)
		}
		out = append(out, v)
	}
	return out, nil
}

// validateRows rejects rows without a crop id or with a score outside 0-100.
// first is the line or index reported for rows[0].
func validateRows[T any](rows []T, first int, fields func(T) (string, float64)) error {
	for i, r := range rows {
		crop, score := fields(r)
		if crop == "" {
			return eris.Errorf("row %d: crop_id is empty", i+first)
		}
		if math.IsNaN(score) || score < 0 || score > 100 {
			return eris.Errorf("row %d: score %.2f outside 0-100", i+first, score)
		}
	}
	return nil
}

// validateAll applies validateRows to every table of a decoded bundle,
// numbering rows from 1.
func validateAll(rows model.RequirementRows) error {
	if err := validateRows(rows.Texture, 1, textureFields); err != nil {
		return eris.Wrapf(err, "%s", KindTexture)
	}
	if err := validateRows(rows.Property, 1, propertyFields); err != nil {
		return eris.Wrapf(err, "%s", KindProperty)
	}
	if err := validateRows(rows.Phase, 1, phaseFields); err != nil {
		return eris.Wrapf(err, "%s", KindPhase)
	}
	if err := validateRows(rows.Drainage, 1, drainageFields); err != nil {
		return eris.Wrapf(err, "%s", KindDrainage)
	}
	return nil
}

func textureFields(x model.TextureRequirement) (string, float64)   { return x.CropID, x.Score }
func propertyFields(x model.PropertyRequirement) (string, float64) { return x.CropID, x.Score }
func phaseFields(x model.PhaseRequirement) (string, float64)       { return x.CropID, x.Score }
func drainageFields(x model.DrainageRequirement) (string, float64) { return x.CropID, x.Score }

// sheetReader adapts spreadsheet rows to csvutil.Reader. Blank rows are
// skipped and data rows are padded or cut to the header width, since
// spreadsheets drop trailing empty cells.
type sheetReader struct {
	rows  [][]string
	next  int
	width int
}

func (s *sheetReader) Read() ([]string, error) {
	for s.next < len(s.rows) {
		row := s.rows[s.next]
		s.next++
		if blank(row) {
			continue
		}
		if s.width == 0 {
			for len(row) > 0 && strings.TrimSpace(row[len(row)-1]) == "" {
				row = row[:len(row)-1]
			}
			s.width = len(row)
			return row, nil
		}
		out := make([]string, s.width)
		copy(out, row)
		return out, nil
	}
	return nil, io.EOF
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func sheetToStrings(sheet *xlsx.Sheet) [][]string {
	out := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		out = append(out, cells)
	}
	return out
}
