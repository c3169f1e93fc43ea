package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gaez-sqi/internal/model"
	"github.com/sells-group/gaez-sqi/internal/reqtable"
	"github.com/sells-group/gaez-sqi/internal/sqi"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage GAEZ crop requirement tables",
}

var tablesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the requirement tables in the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("tables"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "tables migrate")
		}
		zap.L().Info("requirement tables migrated", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

var tablesImportCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import requirement rows from workbooks, JSON or CSV files",
	Long: `Import requirement rows into the configured store.

A workbook (.xlsx) holds one sheet per table, named texture, property (or
profile), phase and drainage, or by the GAEZ table names (gaez_text_req_rf,
gaez_profile_req_rf, gaez_phase_req_rf, gaez_drainage_req_rf). A CSV file is
one table named by its base name. Existing rows with the same key are
replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("tables"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "tables import: migrate")
		}

		n, err := importTables(ctx, st, args)
		if err != nil {
			return err
		}
		zap.L().Info("import complete", zap.Int64("rows", n), zap.Int("files", len(args)))
		return nil
	},
}

var tablesCropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "List crops with requirement tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("tables"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		crops, err := st.Crops(ctx)
		if err != nil {
			return eris.Wrap(err, "tables crops")
		}
		for _, c := range crops {
			fmt.Println(c)
		}
		return nil
	},
}

var tablesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective requirement ratings for a crop and input level",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("score"); err != nil {
			return err
		}

		crop, _ := cmd.Flags().GetString("crop")
		level, _ := cmd.Flags().GetString("input-level")
		tablesPath, _ := cmd.Flags().GetString("tables")

		lvl, err := sqi.ParseInputLevel(level)
		if err != nil {
			return err
		}
		codes, err := sqi.InputLevelCodes(lvl)
		if err != nil {
			return err
		}

		provider, closeProvider, err := initProvider(ctx, cfg, tablesPath)
		if err != nil {
			return err
		}
		defer closeProvider()

		rows, err := reqtable.Fetch(ctx, provider, crop, codes)
		if err != nil {
			return err
		}
		return printRequirements(os.Stdout, crop, lvl, codes, rows)
	},
}

func init() {
	f := tablesShowCmd.Flags()
	f.String("crop", "", "crop id (required)")
	f.String("input-level", "", "input level L, I or H (required)")
	f.String("tables", "", "requirement tables file instead of the store")
	_ = tablesShowCmd.MarkFlagRequired("crop")
	_ = tablesShowCmd.MarkFlagRequired("input-level")

	tablesCmd.AddCommand(tablesMigrateCmd, tablesImportCmd, tablesCropsCmd, tablesShowCmd)
	rootCmd.AddCommand(tablesCmd)
}

// rowSaver is the part of reqtable.Store used by imports.
type rowSaver interface {
	SaveRequirements(ctx context.Context, rows model.RequirementRows) (int64, error)
}

// importTables reads each file and saves its rows. Returns the total number
// of rows written.
func importTables(ctx context.Context, st rowSaver, paths []string) (int64, error) {
	var total int64
	for _, path := range paths {
		rows, err := reqtable.ReadFile(path)
		if err != nil {
			return total, eris.Wrapf(err, "tables import: %s", path)
		}
		n, err := st.SaveRequirements(ctx, rows)
		if err != nil {
			return total, eris.Wrapf(err, "tables import: save %s", path)
		}
		zap.L().Info("imported requirement file",
			zap.String("path", path),
			zap.Int("texture", len(rows.Texture)),
			zap.Int("property", len(rows.Property)),
			zap.Int("phase", len(rows.Phase)),
			zap.Int("drainage", len(rows.Drainage)),
			zap.Int64("written", n),
		)
		total += n
	}
	return total, nil
}

var shownSQICodes = []int{sqi.SQINutrientAvailability, sqi.SQINutrientRetention, sqi.SQIRootingConditions, sqi.SQIWorkability}

// printRequirements renders the ratings the scorer would use: texture
// ratings per SQI code and the rd/cf threshold tables.
func printRequirements(w io.Writer, crop string, lvl model.InputLevel, codes []int, rows model.RequirementRows) error {
	t := sqi.NewTables(rows, codes)

	codeStrs := make([]string, len(codes))
	for i, c := range codes {
		codeStrs[i] = fmt.Sprintf("%d", c)
	}
	if _, err := fmt.Fprintf(w, "Crop %s, input level %s (table levels %s)\n\n", crop, lvl, strings.Join(codeStrs, ",")); err != nil {
		return eris.Wrap(err, "write requirements")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-18s", "Texture")
	for _, code := range shownSQICodes {
		fmt.Fprintf(&b, " %7s", fmt.Sprintf("SQI%d", code))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 18+8*len(shownSQICodes)))
	b.WriteString("\n")
	for class := sqi.TextureClay; class <= sqi.TextureSand; class++ {
		fmt.Fprintf(&b, "%-18s", textureTitle(class))
		for _, code := range shownSQICodes {
			if score, err := t.TextureScore(code, class); err == nil {
				fmt.Fprintf(&b, " %7.1f", score)
			} else {
				fmt.Fprintf(&b, " %7s", "-")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\nThresholds\n")
	for _, code := range []int{sqi.SQIRootingConditions, sqi.SQIWorkability} {
		for _, prop := range []string{model.PropertyReferenceDepth, model.PropertyCoarseFragments} {
			steps := t.PropertySteps(code, prop)
			parts := make([]string, len(steps))
			for i, s := range steps {
				parts[i] = fmt.Sprintf(">=%g: %.1f", s.Threshold, s.Score)
			}
			if len(parts) == 0 {
				parts = []string{"-"}
			}
			fmt.Fprintf(&b, "  SQI%d %-3s %s\n", code, prop, strings.Join(parts, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "write requirements")
}
