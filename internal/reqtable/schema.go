package reqtable

import "github.com/sells-group/gaez-sqi/internal/model"

// Table names, following the GAEZ rain-fed requirement tables.
const (
	TableTexture  = "gaez_text_req_rf"
	TableProperty = "gaez_profile_req_rf"
	TablePhase    = "gaez_phase_req_rf"
	TableDrainage = "gaez_drainage_req_rf"
)

var (
	textureColumns  = []string{"crop_id", "crop", "input_level", "sqi_code", "text_class_id", "text_class", "score"}
	propertyColumns = []string{"crop_id", "crop", "input_level", "sqi_code", "property", "property_value", "score", "unit", "property_id", "property_text"}
	phaseColumns    = []string{"crop_id", "crop", "input_level", "sqi_code", "property", "phase_id", "phase", "score"}
	drainageColumns = []string{"crop_id", "crop", "input_level", "sqi_code", "pscl", "drain_num", "drain", "score"}

	textureKeys  = []string{"crop_id", "input_level", "sqi_code", "text_class_id"}
	propertyKeys = []string{"crop_id", "input_level", "sqi_code", "property", "property_value"}
	phaseKeys    = []string{"crop_id", "input_level", "sqi_code", "phase_id"}
	drainageKeys = []string{"crop_id", "input_level", "sqi_code", "pscl", "drain_num"}
)

// migration is valid for both SQLite and PostgreSQL.
const migration = `
CREATE TABLE IF NOT EXISTS gaez_text_req_rf (
	crop_id       TEXT NOT NULL,
	crop          TEXT NOT NULL DEFAULT '',
	input_level   INTEGER NOT NULL,
	sqi_code      INTEGER NOT NULL,
	text_class_id INTEGER NOT NULL,
	text_class    TEXT NOT NULL DEFAULT '',
	score         DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (crop_id, input_level, sqi_code, text_class_id)
);

CREATE TABLE IF NOT EXISTS gaez_profile_req_rf (
	crop_id        TEXT NOT NULL,
	crop           TEXT NOT NULL DEFAULT '',
	input_level    INTEGER NOT NULL,
	sqi_code       INTEGER NOT NULL,
	property       TEXT NOT NULL,
	property_value DOUBLE PRECISION NOT NULL,
	score          DOUBLE PRECISION NOT NULL,
	unit           TEXT NOT NULL DEFAULT '',
	property_id    INTEGER NOT NULL DEFAULT 0,
	property_text  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (crop_id, input_level, sqi_code, property, property_value)
);

CREATE TABLE IF NOT EXISTS gaez_phase_req_rf (
	crop_id     TEXT NOT NULL,
	crop        TEXT NOT NULL DEFAULT '',
	input_level INTEGER NOT NULL,
	sqi_code    INTEGER NOT NULL,
	property    TEXT NOT NULL DEFAULT '',
	phase_id    INTEGER NOT NULL,
	phase       TEXT NOT NULL DEFAULT '',
	score       DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (crop_id, input_level, sqi_code, phase_id)
);

CREATE TABLE IF NOT EXISTS gaez_drainage_req_rf (
	crop_id     TEXT NOT NULL,
	crop        TEXT NOT NULL DEFAULT '',
	input_level INTEGER NOT NULL,
	sqi_code    INTEGER NOT NULL,
	pscl        TEXT NOT NULL DEFAULT '',
	drain_num   INTEGER NOT NULL,
	drain       TEXT NOT NULL DEFAULT '',
	score       DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (crop_id, input_level, sqi_code, pscl, drain_num)
);
`

const (
	selectTexture  = `SELECT crop_id, crop, input_level, sqi_code, text_class_id, text_class, score FROM gaez_text_req_rf`
	selectProperty = `SELECT crop_id, crop, input_level, sqi_code, property, property_value, score, unit, property_id, property_text FROM gaez_profile_req_rf`
	selectPhase    = `SELECT crop_id, crop, input_level, sqi_code, property, phase_id, phase, score FROM gaez_phase_req_rf`
	selectDrainage = `SELECT crop_id, crop, input_level, sqi_code, pscl, drain_num, drain, score FROM gaez_drainage_req_rf`

	orderTexture  = ` ORDER BY input_level, sqi_code, text_class_id`
	orderProperty = ` ORDER BY input_level, sqi_code, property, property_value DESC`
	orderPhase    = ` ORDER BY input_level, sqi_code, phase_id`
	orderDrainage = ` ORDER BY input_level, sqi_code, drain_num`
)

func textureRecord(r model.TextureRequirement) []any {
	return []any{r.CropID, r.Crop, r.InputLevel, r.SQICode, r.TextureClassID, r.TextureClass, r.Score}
}

func propertyRecord(r model.PropertyRequirement) []any {
	return []any{r.CropID, r.Crop, r.InputLevel, r.SQICode, r.Property, r.Value, r.Score, r.Unit, r.PropertyID, r.PropertyText}
}

func phaseRecord(r model.PhaseRequirement) []any {
	return []any{r.CropID, r.Crop, r.InputLevel, r.SQICode, r.Property, r.PhaseID, r.Phase, r.Score}
}

func drainageRecord(r model.DrainageRequirement) []any {
	return []any{r.CropID, r.Crop, r.InputLevel, r.SQICode, r.PSCL, r.DrainNum, r.Drain, r.Score}
}

func records[T any](rows []T, fn func(T) []any) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out
}
