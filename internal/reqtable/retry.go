package reqtable

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// RetryConfig controls retries of store reads with exponential backoff.
type RetryConfig struct {
	MaxAttempts    int           // total attempts including the first; default 3
	InitialBackoff time.Duration // default 200ms
	MaxBackoff     time.Duration // default 5s
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Second
	}
	return c
}

// Retrying is a Provider that retries reads failing with transient errors
// (see IsTransient). Other errors are returned immediately.
type Retrying struct {
	next  Provider
	cfg   RetryConfig
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrying wraps next with retries.
func NewRetrying(next Provider, cfg RetryConfig) *Retrying {
	return &Retrying{next: next, cfg: cfg.withDefaults(), sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retry[T any](ctx context.Context, r *Retrying, table string, fn func(context.Context) ([]T, error)) ([]T, error) {
	delay := r.cfg.InitialBackoff
	for attempt := 1; ; attempt++ {
		rows, err := fn(ctx)
		if err == nil || attempt >= r.cfg.MaxAttempts || ctx.Err() != nil || !IsTransient(err) {
			return rows, err
		}

		zap.L().Warn("reqtable: retrying read",
			zap.String("table", table),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		// Half the delay plus up to half again of jitter.
		wait := delay/2 + rand.N(delay/2+1)
		if r.sleep(ctx, wait) != nil {
			return nil, err
		}
		delay = min(delay*2, r.cfg.MaxBackoff)
	}
}

func (r *Retrying) TextureRequirements(ctx context.Context, cropID string, levels []int) ([]model.TextureRequirement, error) {
	return retry(ctx, r, TableTexture, func(ctx context.Context) ([]model.TextureRequirement, error) {
		return r.next.TextureRequirements(ctx, cropID, levels)
	})
}

func (r *Retrying) PropertyRequirements(ctx context.Context, cropID string, levels []int) ([]model.PropertyRequirement, error) {
	return retry(ctx, r, TableProperty, func(ctx context.Context) ([]model.PropertyRequirement, error) {
		return r.next.PropertyRequirements(ctx, cropID, levels)
	})
}

func (r *Retrying) PhaseRequirements(ctx context.Context, cropID string, levels []int) ([]model.PhaseRequirement, error) {
	return retry(ctx, r, TablePhase, func(ctx context.Context) ([]model.PhaseRequirement, error) {
		return r.next.PhaseRequirements(ctx, cropID, levels)
	})
}

func (r *Retrying) DrainageRequirements(ctx context.Context, cropID string, levels []int) ([]model.DrainageRequirement, error) {
	return retry(ctx, r, TableDrainage, func(ctx context.Context) ([]model.DrainageRequirement, error) {
		return r.next.DrainageRequirements(ctx, cropID, levels)
	})
}

// IsTransient reports whether a store error is worth retrying: connection
// failures and timeouts, PostgreSQL errors in the connection, transaction
// rollback and resource classes, and SQLite busy or locked errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), // connection exception
			strings.HasPrefix(pgErr.Code, "53"), // insufficient resources
			pgErr.Code == "40001",               // serialization failure
			pgErr.Code == "40P01",               // deadlock
			pgErr.Code == "57P01":               // admin shutdown
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{"database is locked", "sqlite_busy", "connection reset by peer", "broken pipe", "i/o timeout"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
