package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gaez-sqi/internal/model"
	"github.com/sells-group/gaez-sqi/internal/profile"
	"github.com/sells-group/gaez-sqi/internal/reqtable"
	"github.com/sells-group/gaez-sqi/internal/sqi"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a soil profile for a crop and input level",
	Long: `Score the profiles in a YAML or JSON profile file.

Crop, input level and weighting scheme may be set in the profile file; the
flags below override them. Requirement tables come from the configured store
unless --tables names a workbook, JSON or CSV file.

Examples:
  # Score one profile for maize at low input
  score --profile p1.yaml --crop MAIZ --input-level L

  # High input, weighting scheme 2, with per-layer detail
  score --profile p1.yaml --crop MAIZ --input-level H --scheme 2 --explain

  # Use a requirement workbook instead of the database
  score --profile p1.yaml --crop MAIZ --input-level I --tables gaez_tables.xlsx --format json`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("profile", "", "profile file (.yaml, .yml or .json)")
	addRequestFlags(scoreCmd)
	_ = scoreCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(scoreCmd)
}

// requestFlags are the per-request overrides shared by score and batch.
type requestFlags struct {
	Crop       string
	InputLevel string
	Scheme     int
	Tables     string
	Format     string
	Output     string
	Explain    bool
}

func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("crop", "", "crop id, e.g. MAIZ (overrides profile file)")
	f.String("input-level", "", "input level L, I or H (overrides profile file)")
	f.Int("scheme", 0, "depth weighting scheme 1 or 2 (0=profile file or config)")
	f.String("tables", "", "requirement tables file (.xlsx, .json or .csv) instead of the store")
	f.String("format", "table", "output format: table, csv or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("explain", false, "include per-layer scores")
}

func readRequestFlags(cmd *cobra.Command) requestFlags {
	var rf requestFlags
	f := cmd.Flags()
	rf.Crop, _ = f.GetString("crop")
	rf.InputLevel, _ = f.GetString("input-level")
	rf.Scheme, _ = f.GetInt("scheme")
	rf.Tables, _ = f.GetString("tables")
	rf.Format, _ = f.GetString("format")
	rf.Output, _ = f.GetString("output")
	rf.Explain, _ = f.GetBool("explain")
	return rf
}

// buildRequest merges a profile document with command-line overrides.
func buildRequest(doc profile.File, rf requestFlags, defaultDepth float64) (sqi.Request, error) {
	crop := rf.Crop
	if crop == "" {
		crop = doc.Crop
	}
	if crop == "" {
		return sqi.Request{}, eris.Errorf("profile %s: no crop (set --crop or crop in the file)", doc.ID)
	}

	level := rf.InputLevel
	if level == "" {
		level = doc.InputLevel
	}
	if level == "" {
		return sqi.Request{}, eris.Errorf("profile %s: no input level (set --input-level or input_level in the file)", doc.ID)
	}
	lvl, err := sqi.ParseInputLevel(level)
	if err != nil {
		return sqi.Request{}, err
	}

	scheme := rf.Scheme
	if scheme == 0 {
		scheme = doc.WeightScheme
	}

	return sqi.Request{
		Profile:      doc.Profile(defaultDepth),
		CropID:       crop,
		InputLevel:   lvl,
		WeightScheme: scheme,
	}, nil
}

func newScorer(p reqtable.Provider) (*sqi.Scorer, error) {
	norm, err := sqi.ParseNormalization(cfg.Scoring.Normalization)
	if err != nil {
		return nil, err
	}
	return sqi.NewScorer(p, sqi.Options{
		WeightScheme:  cfg.Scoring.WeightScheme,
		Normalization: norm,
	}), nil
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("score"); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("profile")
	rf := readRequestFlags(cmd)
	if err := validateFormat(rf.Format); err != nil {
		return eris.Wrap(err, "score")
	}

	docs, err := profile.Load(path)
	if err != nil {
		return err
	}

	provider, closeProvider, err := initProvider(ctx, cfg, rf.Tables)
	if err != nil {
		return err
	}
	defer closeProvider()

	scorer, err := newScorer(provider)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "score"))

	results := make([]*model.SQIScoreSet, 0, len(docs))
	for _, doc := range docs {
		req, err := buildRequest(doc, rf, cfg.Scoring.DefaultReferenceDepth)
		if err != nil {
			return eris.Wrapf(err, "score: %s", path)
		}
		res, err := scorer.Score(ctx, req)
		if err != nil {
			return eris.Wrapf(err, "score: profile %s", doc.ID)
		}
		log.Info("profile scored",
			zap.String("profile", res.ProfileID),
			zap.String("crop", res.CropID),
			zap.Float64("sr", res.SoilRating),
		)
		results = append(results, res)
	}

	return outputResults(results, rf.Format, rf.Output, rf.Explain)
}
