package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/gaez-sqi/internal/model"
	"github.com/sells-group/gaez-sqi/internal/profile"
	"github.com/sells-group/gaez-sqi/internal/sqi"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every profile matching a glob pattern",
	Long: `Score many profile files concurrently.

The pattern supports "**" for recursive matching. Profiles that fail to load
or score are logged and skipped; the remaining results are written in file
order.

Examples:
  batch --profiles 'profiles/**/*.yaml' --crop MAIZ --input-level H --format csv --output maize_h.csv`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("profiles", "", "glob pattern for profile files (required)")
	f.Int("concurrency", 0, "profiles scored in parallel (0=batch.max_concurrent_profiles)")
	addRequestFlags(batchCmd)
	_ = batchCmd.MarkFlagRequired("profiles")

	rootCmd.AddCommand(batchCmd)
}

// profileScorer is the part of sqi.Scorer used by batch scoring.
type profileScorer interface {
	Score(ctx context.Context, req sqi.Request) (*model.SQIScoreSet, error)
}

// batchStats counts batch outcomes.
type batchStats struct {
	Succeeded int64
	Failed    int64
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("score"); err != nil {
		return err
	}

	pattern, _ := cmd.Flags().GetString("profiles")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = cfg.Batch.MaxConcurrentProfiles
	}
	rf := readRequestFlags(cmd)
	if err := validateFormat(rf.Format); err != nil {
		return eris.Wrap(err, "batch")
	}

	runID := uuid.New().String()
	log := zap.L().With(zap.String("command", "batch"), zap.String("run_id", runID))

	paths, err := profile.Glob(pattern)
	if err != nil {
		return err
	}
	reqs, loadFailed := collectRequests(log, paths, rf, cfg.Scoring.DefaultReferenceDepth)

	provider, closeProvider, err := initProvider(ctx, cfg, rf.Tables)
	if err != nil {
		return err
	}
	defer closeProvider()

	scorer, err := newScorer(provider)
	if err != nil {
		return err
	}

	start := time.Now()
	log.Info("processing batch",
		zap.Int("files", len(paths)),
		zap.Int("profiles", len(reqs)),
		zap.Int("concurrency", concurrency),
	)

	results, stats, err := scoreBatch(ctx, log, scorer, reqs, concurrency)
	if err != nil {
		return eris.Wrap(err, "batch")
	}
	stats.Failed += int64(loadFailed)

	log.Info("batch complete",
		zap.Int64("succeeded", stats.Succeeded),
		zap.Int64("failed", stats.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)

	return outputResults(results, rf.Format, rf.Output, rf.Explain)
}

// collectRequests loads every profile file and builds its scoring requests.
// Files or documents that cannot be used are logged and counted.
func collectRequests(log *zap.Logger, paths []string, rf requestFlags, defaultDepth float64) ([]sqi.Request, int) {
	var reqs []sqi.Request
	failed := 0
	for _, path := range paths {
		docs, err := profile.Load(path)
		if err != nil {
			failed++
			log.Error("profile load failed", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, doc := range docs {
			req, err := buildRequest(doc, rf, defaultDepth)
			if err != nil {
				failed++
				log.Error("profile skipped", zap.String("path", path), zap.String("profile", doc.ID), zap.Error(err))
				continue
			}
			reqs = append(reqs, req)
		}
	}
	return reqs, failed
}

// scoreBatch scores requests with at most concurrency in flight. Individual
// scoring failures are logged and counted without aborting the batch; only
// context cancellation returns an error. Results keep request order.
func scoreBatch(ctx context.Context, log *zap.Logger, s profileScorer, reqs []sqi.Request, concurrency int) ([]*model.SQIScoreSet, batchStats, error) {
	if len(reqs) == 0 {
		log.Info("no profiles to score")
		return nil, batchStats{}, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	slots := make([]*model.SQIScoreSet, len(reqs))
	var succeeded, failed atomic.Int64

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Score(gctx, req)
			if err != nil {
				failed.Add(1)
				log.Error("profile scoring failed",
					zap.String("profile", req.Profile.ID),
					zap.String("crop", req.CropID),
					zap.Error(err),
				)
				return nil // don't abort batch on individual failure
			}
			succeeded.Add(1)
			slots[i] = res
			return nil
		})
	}

	stats := func() batchStats {
		return batchStats{Succeeded: succeeded.Load(), Failed: failed.Load()}
	}
	if err := g.Wait(); err != nil {
		return nil, stats(), err
	}

	results := make([]*model.SQIScoreSet, 0, len(reqs))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}
	return results, stats(), nil
}
