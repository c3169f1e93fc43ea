package reqtable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// countingProvider counts calls and can be told to fail.
type countingProvider struct {
	Provider
	textureCalls atomic.Int64
	fail         atomic.Bool
}

func (p *countingProvider) TextureRequirements(ctx context.Context, cropID string, levels []int) ([]model.TextureRequirement, error) {
	p.textureCalls.Add(1)
	if p.fail.Load() {
		return nil, errors.New("boom")
	}
	return p.Provider.TextureRequirements(ctx, cropID, levels)
}

func TestCached_MemoizesPerKey(t *testing.T) {
	inner := &countingProvider{Provider: NewMemory(sampleRows())}
	c := NewCached(inner)
	ctx := context.Background()

	for range 3 {
		rows, err := c.TextureRequirements(ctx, "MAIZ", []int{1, 3, 4})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	}
	assert.Equal(t, int64(1), inner.textureCalls.Load())

	_, err := c.TextureRequirements(ctx, "MAIZ", []int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, int64(2), inner.textureCalls.Load())
	assert.Equal(t, 2, c.Len())

	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestCached_CachesEmptyResults(t *testing.T) {
	inner := &countingProvider{Provider: NewMemory(sampleRows())}
	c := NewCached(inner)

	for range 2 {
		rows, err := c.TextureRequirements(context.Background(), "RICE", []int{1})
		require.NoError(t, err)
		assert.Empty(t, rows)
	}
	assert.Equal(t, int64(1), inner.textureCalls.Load())
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{Provider: NewMemory(sampleRows())}
	inner.fail.Store(true)
	c := NewCached(inner)
	ctx := context.Background()

	_, err := c.TextureRequirements(ctx, "MAIZ", []int{1})
	require.Error(t, err)

	inner.fail.Store(false)
	rows, err := c.TextureRequirements(ctx, "MAIZ", []int{1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(2), inner.textureCalls.Load())
}

func TestCached_ConcurrentReaders(t *testing.T) {
	c := NewCached(NewMemory(sampleRows()))
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := Fetch(context.Background(), c, "MAIZ", []int{1, 3, 4})
			assert.NoError(t, err)
			assert.Len(t, rows.Property, 3)
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}

// gatedProvider blocks texture loads until release is closed and records
// the context error seen after release.
type gatedProvider struct {
	Provider
	started chan struct{}
	release chan struct{}
	calls   atomic.Int64
	ctxErr  atomic.Value
}

func (p *gatedProvider) TextureRequirements(ctx context.Context, cropID string, levels []int) ([]model.TextureRequirement, error) {
	if p.calls.Add(1) == 1 {
		close(p.started)
	}
	<-p.release
	p.ctxErr.Store(fmt.Sprint(ctx.Err()))
	return p.Provider.TextureRequirements(ctx, cropID, levels)
}

func TestCached_CancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &gatedProvider{
		Provider: NewMemory(sampleRows()),
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	c := NewCached(inner)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.TextureRequirements(ctxA, "MAIZ", []int{1, 3, 4})
		errA <- err
	}()
	<-inner.started

	type result struct {
		rows []model.TextureRequirement
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		rows, err := c.TextureRequirements(context.Background(), "MAIZ", []int{1, 3, 4})
		resB <- result{rows, err}
	}()

	cancelA()
	err := <-errA
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	close(inner.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Len(t, b.rows, 2)
	assert.Equal(t, int64(1), inner.calls.Load())
	assert.Equal(t, "<nil>", inner.ctxErr.Load())
	assert.Equal(t, 1, c.Len())
}
