package reqtable

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/gaez-sqi/internal/db"
	"github.com/sells-group/gaez-sqi/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 4
	pgxCfg.MinConns = 1
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			pgxCfg.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			pgxCfg.MinConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, migration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

const pgFilter = ` WHERE crop_id = $1 AND input_level = ANY($2)`

func queryPostgres[T any](ctx context.Context, pool db.Pool, base, order, cropID string, levels []int,
	scan func(pgx.CollectableRow) (T, error)) ([]T, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	rows, err := pool.Query(ctx, base+pgFilter+order, cropID, levels)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query requirements")
	}
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan requirements")
	}
	return out, nil
}

func (s *PostgresStore) TextureRequirements(ctx context.Context, cropID string, levels []int) ([]model.TextureRequirement, error) {
	return queryPostgres(ctx, s.pool, selectTexture, orderTexture, cropID, levels, func(row pgx.CollectableRow) (model.TextureRequirement, error) {
		var r model.TextureRequirement
		err := row.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.TextureClassID, &r.TextureClass, &r.Score)
		return r, err
	})
}

func (s *PostgresStore) PropertyRequirements(ctx context.Context, cropID string, levels []int) ([]model.PropertyRequirement, error) {
	return queryPostgres(ctx, s.pool, selectProperty, orderProperty, cropID, levels, func(row pgx.CollectableRow) (model.PropertyRequirement, error) {
		var r model.PropertyRequirement
		err := row.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.Property, &r.Value, &r.Score, &r.Unit, &r.PropertyID, &r.PropertyText)
		return r, err
	})
}

func (s *PostgresStore) PhaseRequirements(ctx context.Context, cropID string, levels []int) ([]model.PhaseRequirement, error) {
	return queryPostgres(ctx, s.pool, selectPhase, orderPhase, cropID, levels, func(row pgx.CollectableRow) (model.PhaseRequirement, error) {
		var r model.PhaseRequirement
		err := row.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.Property, &r.PhaseID, &r.Phase, &r.Score)
		return r, err
	})
}

func (s *PostgresStore) DrainageRequirements(ctx context.Context, cropID string, levels []int) ([]model.DrainageRequirement, error) {
	return queryPostgres(ctx, s.pool, selectDrainage, orderDrainage, cropID, levels, func(row pgx.CollectableRow) (model.DrainageRequirement, error) {
		var r model.DrainageRequirement
		err := row.Scan(&r.CropID, &r.Crop, &r.InputLevel, &r.SQICode, &r.PSCL, &r.DrainNum, &r.Drain, &r.Score)
		return r, err
	})
}

func (s *PostgresStore) Crops(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT crop_id FROM gaez_text_req_rf ORDER BY crop_id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list crops")
	}
	crops, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return crops, eris.Wrap(err, "postgres: scan crops")
}

func (s *PostgresStore) SaveRequirements(ctx context.Context, rows model.RequirementRows) (int64, error) {
	n, err := db.UpsertBatches(ctx, s.pool,
		db.Batch{Table: TableTexture, Columns: textureColumns, ConflictKeys: textureKeys, Rows: records(rows.Texture, textureRecord)},
		db.Batch{Table: TableProperty, Columns: propertyColumns, ConflictKeys: propertyKeys, Rows: records(rows.Property, propertyRecord)},
		db.Batch{Table: TablePhase, Columns: phaseColumns, ConflictKeys: phaseKeys, Rows: records(rows.Phase, phaseRecord)},
		db.Batch{Table: TableDrainage, Columns: drainageColumns, ConflictKeys: drainageKeys, Rows: records(rows.Drainage, drainageRecord)},
	)
	return n, eris.Wrap(err, "postgres: save requirements")
}
