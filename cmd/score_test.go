package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gaez-sqi/internal/config"
	"github.com/sells-group/gaez-sqi/internal/model"
	"github.com/sells-group/gaez-sqi/internal/profile"
	"github.com/sells-group/gaez-sqi/internal/reqtable"
	"github.com/sells-group/gaez-sqi/internal/sqi"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = "gaez.db"
	c.Scoring.WeightScheme = 1
	c.Scoring.Normalization = "weight_sum"
	c.Scoring.DefaultReferenceDepth = 120
	c.Batch.MaxConcurrentProfiles = 4
	c.Cache.Enabled = true
	return c
}

func TestBuildRequest(t *testing.T) {
	rd := 80.0
	doc := profile.File{
		ID: "P1", Crop: "MAIZ", InputLevel: "L", WeightScheme: 2, ReferenceDepth: &rd,
		Layers: []model.SoilLayer{{Texture: "loam", BottomDepth: 30}},
	}

	req, err := buildRequest(doc, requestFlags{}, 120)
	require.NoError(t, err)
	assert.Equal(t, "MAIZ", req.CropID)
	assert.Equal(t, model.InputLevelLow, req.InputLevel)
	assert.Equal(t, 2, req.WeightScheme)
	assert.InDelta(t, 80, req.Profile.ReferenceDepth, 1e-9)

	req, err = buildRequest(doc, requestFlags{Crop: "WHEA", InputLevel: "H", Scheme: 1}, 120)
	require.NoError(t, err)
	assert.Equal(t, "WHEA", req.CropID)
	assert.Equal(t, model.InputLevelHigh, req.InputLevel)
	assert.Equal(t, 1, req.WeightScheme)
}

func TestBuildRequest_DefaultDepth(t *testing.T) {
	doc := profile.File{ID: "P", Crop: "MAIZ", InputLevel: "I", Layers: []model.SoilLayer{{Texture: "clay", BottomDepth: 30}}}
	req, err := buildRequest(doc, requestFlags{}, 90)
	require.NoError(t, err)
	assert.InDelta(t, 90, req.Profile.ReferenceDepth, 1e-9)
	assert.Zero(t, req.WeightScheme)
}

func TestBuildRequest_Errors(t *testing.T) {
	_, err := buildRequest(profile.File{ID: "P", InputLevel: "L"}, requestFlags{}, 120)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no crop")

	_, err = buildRequest(profile.File{ID: "P", Crop: "MAIZ"}, requestFlags{}, 120)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input level")

	_, err = buildRequest(profile.File{ID: "P", Crop: "MAIZ"}, requestFlags{InputLevel: "low"}, 120)
	assert.True(t, errors.Is(err, sqi.ErrInvalidInputLevel))
}

func TestInitProvider_TablesFile(t *testing.T) {
	path := writeTablesJSON(t, t.TempDir())

	p, closeFn, err := initProvider(context.Background(), testConfig(), path)
	require.NoError(t, err)
	defer closeFn()

	_, cached := p.(*reqtable.Cached)
	assert.True(t, cached)

	rows, err := reqtable.Fetch(context.Background(), p, "MAIZ", []int{1, 3, 4})
	require.NoError(t, err)
	assert.Len(t, rows.Texture, 18)
	assert.Len(t, rows.Property, 8)
}

func TestInitProvider_FileDriverWithoutCache(t *testing.T) {
	c := testConfig()
	c.Store.Driver = "file"
	c.Store.TablesPath = writeTablesJSON(t, t.TempDir())
	c.Cache.Enabled = false

	p, closeFn, err := initProvider(context.Background(), c, "")
	require.NoError(t, err)
	defer closeFn()

	_, mem := p.(*reqtable.Memory)
	assert.True(t, mem)
}

func TestInitProvider_SQLiteStore(t *testing.T) {
	c := testConfig()
	c.Store.DatabaseURL = filepath.Join(t.TempDir(), "gaez.db")
	c.Cache.Enabled = false

	p, closeFn, err := initProvider(context.Background(), c, "")
	require.NoError(t, err)
	defer closeFn()

	_, retrying := p.(*reqtable.Retrying)
	assert.True(t, retrying)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	_, err := initStore(context.Background(), config.StoreConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestScoreProfileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	docs, err := profile.Load(writeProfile(t, dir, "p1.yaml", loamProfileYAML))
	require.NoError(t, err)

	p, closeFn, err := initProvider(context.Background(), testConfig(), writeTablesJSON(t, dir))
	require.NoError(t, err)
	defer closeFn()

	cfg = testConfig()
	scorer, err := newScorer(p)
	require.NoError(t, err)

	req, err := buildRequest(docs[0], requestFlags{}, cfg.Scoring.DefaultReferenceDepth)
	require.NoError(t, err)
	res, err := scorer.Score(context.Background(), req)
	require.NoError(t, err)

	// Weights [0.02, 1.8]; rd 120 scores 100 for SQ3 and SQ7.
	// Layer 2 cf 40 scores 60: SQ3 = 100*60/100, SQ7 = mean(60, mean(100, 80)) = 75.
	wsum := 1.82
	assert.InDelta(t, 80, *res.SQ1, 1e-9)
	assert.InDelta(t, (0.02*80+1.8*60)/wsum, res.SQ3, 1e-9)
	assert.InDelta(t, (0.02*90+1.8*75)/wsum, res.SQ7, 1e-9)
}

func TestNewScorer_BadNormalization(t *testing.T) {
	cfg = testConfig()
	cfg.Scoring.Normalization = "median"
	_, err := newScorer(reqtable.NewMemory(testRows()))
	assert.Error(t, err)
}
