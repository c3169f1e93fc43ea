package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/gaez-sqi/internal/model"
	"github.com/sells-group/gaez-sqi/internal/sqi"
)

// fakeScorer fails for profile ids listed in fail and tracks concurrency.
type fakeScorer struct {
	fail     map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeScorer) Score(_ context.Context, req sqi.Request) (*model.SQIScoreSet, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if f.fail[req.Profile.ID] {
		return nil, errors.New("boom")
	}
	return &model.SQIScoreSet{ProfileID: req.Profile.ID, CropID: req.CropID}, nil
}

func requests(ids ...string) []sqi.Request {
	out := make([]sqi.Request, len(ids))
	for i, id := range ids {
		out[i] = sqi.Request{Profile: model.SoilProfile{ID: id}, CropID: "MAIZ", InputLevel: model.InputLevelLow}
	}
	return out
}

func TestScoreBatch_KeepsOrderAndSkipsFailures(t *testing.T) {
	s := &fakeScorer{fail: map[string]bool{"c": true}}

	results, stats, err := scoreBatch(context.Background(), zap.NewNop(), s, requests("a", "b", "c", "d", "e"), 2)
	require.NoError(t, err)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ProfileID
	}
	assert.Equal(t, []string{"a", "b", "d", "e"}, ids)
	assert.Equal(t, int64(4), stats.Succeeded)
	assert.Equal(t, int64(1), stats.Failed)
	assert.LessOrEqual(t, s.peak.Load(), int32(2))
}

func TestScoreBatch_Empty(t *testing.T) {
	results, stats, err := scoreBatch(context.Background(), zap.NewNop(), &fakeScorer{}, nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, stats.Succeeded)
}

func TestScoreBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := scoreBatch(ctx, zap.NewNop(), &fakeScorer{}, requests("a", "b"), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectRequests(t *testing.T) {
	dir := t.TempDir()
	good := writeProfile(t, dir, "good.yaml", loamProfileYAML)
	noCrop := writeProfile(t, dir, "nocrop.yaml", "id: X\nlayers: []\n")
	broken := writeProfile(t, dir, "broken.json", "{not json")

	reqs, failed := collectRequests(zap.NewNop(), []string{good, noCrop, broken}, requestFlags{}, 120)
	require.Len(t, reqs, 1)
	assert.Equal(t, "P1", reqs[0].Profile.ID)
	assert.Equal(t, 2, failed)

	// A flag-level crop rescues the profile without one.
	reqs, failed = collectRequests(zap.NewNop(), []string{noCrop}, requestFlags{Crop: "MAIZ", InputLevel: "H"}, 120)
	require.Len(t, reqs, 1)
	assert.Zero(t, failed)
	assert.Equal(t, model.InputLevelHigh, reqs[0].InputLevel)
}
