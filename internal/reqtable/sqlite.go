package reqtable

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// filterClause returns "WHERE crop_id = ? AND input_level IN (?, ...)" and
// its arguments.
func filterClause(cropID string, levels []int) (string, []any) {
	marks := make([]string, len(levels))
	args := make([]any, 0, len(levels)+1)
	args = append(args, cropID)
	for i, l := range levels {
		marks[i] = "?"
		args = append(args, l)
	}
	return fmt.Sprintf(" WHERE crop_id = ? AND input_level IN (%s)", strings.Join(marks, ", ")), args
}

func querySQLite[T any](ctx context.Context, db *sql.DB, base, order, cropID string, levels []int,
	scan func(*sql.Rows) (T, error)) ([]T, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	where, args := filterClause(cropID, levels)
	rows, err := db.QueryContext(ctx, base+where+order, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query requirements")
	}
	defer rows.Close() //nolint:errcheck

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan requirement")
		}
		out = append(out, v)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate requirements")
}

func (s *SQLiteStore) TextureRequirements(ctx context.Context, cropID string, levels []int) ([]model.TextureRequirement, error) {
	return querySQLite(ctx, s.db, selectTexture, orderTexture, cropID, levels, func(rows *sql.Rows) (model.TextureRequirement, error) {
		var r model.TextureRequirement
		err := rows.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.TextureClassID, &r.TextureClass, &r.Score)
		return r, err
	})
}

func (s *SQLiteStore) PropertyRequirements(ctx context.Context, cropID string, levels []int) ([]model.PropertyRequirement, error) {
	return querySQLite(ctx, s.db, selectProperty, orderProperty, cropID, levels, func(rows *sql.Rows) (model.PropertyRequirement, error) {
		var r model.PropertyRequirement
		err := rows.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.Property, &r.Value, &r.Score, &r.Unit, &r.PropertyID, &r.PropertyText)
		return r, err
	})
}

func (s *SQLiteStore) PhaseRequirements(ctx context.Context, cropID string, levels []int) ([]model.PhaseRequirement, error) {
	return querySQLite(ctx, s.db, selectPhase, orderPhase, cropID, levels, func(rows *sql.Rows) (model.PhaseRequirement, error) {
		var r model.PhaseRequirement
		err := rows.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.Property, &r.PhaseID, &r.Phase, &r.Score)
		return r, err
	})
}

func (s *SQLiteStore) DrainageRequirements(ctx context.Context, cropID string, levels []int) ([]model.DrainageRequirement, error) {
	return querySQLite(ctx, s.db, selectDrainage, orderDrainage, cropID, levels, func(rows *sql.Rows) (model.DrainageRequirement, error) {
		var r model.DrainageRequirement
		err := rows.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.PSCL, &r.DrainNum, &r.Drain, &r.Score)
		return r, err
	})
}

func (s *SQLiteStore) Crops(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT crop_id FROM gaez_text_req_rf ORDER BY crop_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list crops")
	}
	defer rows.Close() //nolint:errcheck

	var crops []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan crop")
		}
		crops = append(crops, c)
	}
	return crops, eris.Wrap(rows.Err(), "sqlite: iterate crops")
}

// upsertSQL builds an INSERT ... ON CONFLICT DO UPDATE statement with
// positional ? placeholders.
func upsertSQL(table string, cols, keys []string) string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	marks := make([]string, len(cols))
	var sets []string
	for i, c := range cols {
		marks[i] = "?"
		if !isKey[c] {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "),
		strings.Join(keys, ", "), strings.Join(sets, ", "))
}

func (s *SQLiteStore) SaveRequirements(ctx context.Context, rows model.RequirementRows) (int64, error) {
	if rows.Len() == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	batches := []struct {
		table string
		cols  []string
		keys  []string
		recs  [][]any
	}{
		{TableTexture, textureColumns, textureKeys, records(rows.Texture, textureRecord)},
		{TableProperty, propertyColumns, propertyKeys, records(rows.Property, propertyRecord)},
		{TablePhase, phaseColumns, phaseKeys, records(rows.Phase, phaseRecord)},
		{TableDrainage, drainageColumns, drainageKeys, records(rows.Drainage, drainageRecord)},
	}

	var n int64
	for _, b := range batches {
		if len(b.recs) == 0 {
			continue
		}
		stmt, err := tx.PrepareContext(ctx, upsertSQL(b.table, b.cols, b.keys))
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: prepare upsert %s", b.table)
		}
		for _, rec := range b.recs {
			if _, err := stmt.ExecContext(ctx, rec...); err != nil {
				stmt.Close() //nolint:errcheck
				return 0, eris.Wrapf(err, "sqlite: upsert %s", b.table)
			}
			n++
		}
		stmt.Close() //nolint:errcheck
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit requirements")
	}
	return n, nil
}
