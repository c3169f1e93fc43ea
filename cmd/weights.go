package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/gaez-sqi/internal/sqi"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Print the depth weight vectors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scheme, _ := cmd.Flags().GetInt("scheme")
		schemes := []int{sqi.WeightScheme1, sqi.WeightScheme2}
		if scheme != 0 {
			schemes = []int{scheme}
		}
		return printWeights(os.Stdout, schemes)
	},
}

func init() {
	weightsCmd.Flags().Int("scheme", 0, "weighting scheme 1 or 2 (0=both)")
	rootCmd.AddCommand(weightsCmd)
}

func printWeights(w io.Writer, schemes []int) error {
	for _, scheme := range schemes {
		if _, err := fmt.Fprintf(w, "Scheme %d\n", scheme); err != nil {
			return eris.Wrap(err, "write weights")
		}
		for n := sqi.MinLayers; n <= sqi.MaxLayers; n++ {
			weights, err := sqi.DepthWeights(n, scheme)
			if err != nil {
				return err
			}
			parts := make([]string, len(weights))
			var sum float64
			for i, wt := range weights {
				parts[i] = fmt.Sprintf("%.3f", wt)
				sum += wt
			}
			if _, err := fmt.Fprintf(w, "  %d layers: [%s] sum=%.2f\n", n, strings.Join(parts, ", "), sum); err != nil {
				return eris.Wrap(err, "write weights")
			}
		}
	}
	return nil
}
