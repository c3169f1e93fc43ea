package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gaez-sqi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gaez-sqi",
	Short: "GAEZ soil quality index scoring",
	Long: `Scores soil profiles against GAEZ crop requirement tables.

Computes the soil quality indices SQ1 (nutrient availability), SQ2 (nutrient
retention), SQ3 (rooting conditions) and SQ7 (workability) for a crop and
input level, and combines them into a single soil rating (SR).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
