package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/gaez-sqi/internal/model"
	"github.com/sells-group/gaez-sqi/internal/sqi"
)

var outputFormats = []string{"table", "csv", "json"}

func validateFormat(format string) error {
	for _, f := range outputFormats {
		if format == f {
			return nil
		}
	}
	return eris.Errorf("--format must be one of %s (got %q)", strings.Join(outputFormats, ", "), format)
}

// outputResults writes results to outputPath, or stdout when empty.
func outputResults(results []*model.SQIScoreSet, format, outputPath string, explain bool) error {
	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}
	return writeResults(w, results, format, explain)
}

func writeResults(w io.Writer, results []*model.SQIScoreSet, format string, explain bool) error {
	switch format {
	case "csv":
		return writeResultsCSV(w, results)
	case "json":
		return writeResultsJSON(w, results, explain)
	case "table":
		return writeResultsTable(w, results, explain)
	default:
		return eris.Errorf("unsupported format %q", format)
	}
}

// optional formats a nullable score; nil renders as an empty string.
func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func writeResultsCSV(w io.Writer, results []*model.SQIScoreSet) error {
	cw := csv.NewWriter(w)

	header := []string{"profile_id", "crop_id", "input_level", "weight_scheme", "sq1", "sq2", "sq3", "sq7", "sr"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "write CSV header")
	}

	for _, r := range results {
		row := []string{
			r.ProfileID,
			r.CropID,
			string(r.InputLevel),
			strconv.Itoa(r.WeightScheme),
			optional(r.SQ1),
			optional(r.SQ2),
			fmt.Sprintf("%.2f", r.SQ3),
			fmt.Sprintf("%.2f", r.SQ7),
			fmt.Sprintf("%.2f", r.SoilRating),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write CSV row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "flush CSV")
}

func writeResultsJSON(w io.Writer, results []*model.SQIScoreSet, explain bool) error {
	out := results
	if !explain {
		out = make([]*model.SQIScoreSet, len(results))
		for i, r := range results {
			cp := *r
			cp.Layers = nil
			out[i] = &cp
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(out), "write JSON")
}

func writeResultsTable(w io.Writer, results []*model.SQIScoreSet, explain bool) error {
	header := fmt.Sprintf("%-20s %-6s %-5s %-6s %7s %7s %7s %7s %7s\n",
		"Profile", "Crop", "Input", "Scheme", "SQ1", "SQ2", "SQ3", "SQ7", "SR")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 82)); err != nil {
		return eris.Wrap(err, "write table separator")
	}

	for _, r := range results {
		id := truncate(r.ProfileID, 20)
		line := fmt.Sprintf("%-20s %-6s %-5s %-6d %7s %7s %7.2f %7.2f %7.2f\n",
			id, r.CropID, r.InputLevel, r.WeightScheme, optional(r.SQ1), optional(r.SQ2), r.SQ3, r.SQ7, r.SoilRating)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "write table row")
		}
		if explain {
			if err := writeLayerDetail(w, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeLayerDetail(w io.Writer, r *model.SQIScoreSet) error {
	if _, err := fmt.Fprintf(w, "    rd score: SQ3 %.1f, SQ7 %.1f\n", r.RDScoreSQ3, r.RDScoreSQ7); err != nil {
		return eris.Wrap(err, "write layer detail")
	}
	for _, l := range r.Layers {
		fert := l.SQ1
		if fert == nil {
			fert = l.SQ2
		}
		line := fmt.Sprintf("    %d %-16s w=%-6.3f fert=%-6s txt=%-6.1f cf3=%-6.1f cf7=%-6.1f sq3=%-6.2f (%s) sq7=%-6.2f (%s)\n",
			l.Index, textureTitle(l.TextureClass), l.Weight, optional(fert), l.TextureScore, l.CoarseFragScore,
			l.SQ7CoarseScore, l.SQ3, l.SQ3Limiting, l.SQ7, l.SQ7Limiting)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "write layer detail")
		}
	}
	return nil
}

// textureTitle returns a display name such as "Sandy Clay Loam".
func textureTitle(class int) string {
	return titleCase(sqi.TextureName(class))
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
