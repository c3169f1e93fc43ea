package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Batch is a set of rows to upsert into one table.
type Batch struct {
	Table        string   // target table, optionally schema-qualified ("gaez.gaez_text_req_rf")
	Columns      []string // columns in row order
	ConflictKeys []string // columns of the primary key / unique constraint
	Rows         [][]any
}

func (b Batch) validate() error {
	if len(b.Columns) == 0 {
		return eris.Errorf("db: upsert %s: no columns specified", b.Table)
	}
	if len(b.ConflictKeys) == 0 {
		return eris.Errorf("db: upsert %s: no conflict keys specified", b.Table)
	}
	return nil
}

// UpsertBatches writes every batch in a single transaction. Each batch is
// COPYed into a temp table and merged with INSERT ... ON CONFLICT DO UPDATE.
// Empty batches are skipped. Returns the total rows affected.
func UpsertBatches(ctx context.Context, pool Pool, batches ...Batch) (int64, error) {
	var pending []Batch
	for _, b := range batches {
		if len(b.Rows) == 0 {
			continue
		}
		if err := b.validate(); err != nil {
			return 0, err
		}
		pending = append(pending, b)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var total int64
	for _, b := range pending {
		n, err := upsertInTx(ctx, tx, b)
		if err != nil {
			return 0, err
		}
		total += n
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return total, nil
}

func upsertInTx(ctx context.Context, tx pgx.Tx, b Batch) (int64, error) {
	temp := tempTableName(b.Table)

	create := fmt.Sprintf("CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{temp}.Sanitize(), sanitizeTable(b.Table))
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: create temp table for %s", b.Table)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{temp}, b.Columns, pgx.CopyFromRows(b.Rows)); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: COPY into temp table for %s", b.Table)
	}

	tag, err := tx.Exec(ctx, mergeSQL(b, temp))
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: INSERT ON CONFLICT for %s", b.Table)
	}
	return tag.RowsAffected(), nil
}

// mergeSQL builds the INSERT ... SELECT ... ON CONFLICT statement. When every
// column is part of the key the conflict action is DO NOTHING.
func mergeSQL(b Batch, temp string) string {
	isKey := make(map[string]bool, len(b.ConflictKeys))
	for _, k := range b.ConflictKeys {
		isKey[k] = true
	}
	var sets []string
	for _, c := range b.Columns {
		if isKey[c] {
			continue
		}
		id := pgx.Identifier{c}.Sanitize()
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", id, id))
	}

	action := "DO NOTHING"
	if len(sets) > 0 {
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	cols := quoteAndJoin(b.Columns)
	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) %s",
		sanitizeTable(b.Table), cols, cols, pgx.Identifier{temp}.Sanitize(),
		quoteAndJoin(b.ConflictKeys), action)
}

func tempTableName(table string) string {
	return "_tmp_upsert_" + strings.ReplaceAll(table, ".", "_")
}

// sanitizeTable quotes a table name, splitting an optional schema prefix.
func sanitizeTable(table string) string {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return pgx.Identifier{schema, name}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
