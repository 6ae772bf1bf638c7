package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"godescribe/adapters/excel"
	"godescribe/adapters/render"
	"godescribe/domain/dataset"
	"godescribe/internal"
	analysis "godescribe/internal/analysis/describe"
	"godescribe/internal/analysis/histogram"
	"godescribe/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// answerFeatures are histogrammed when no feature is named
var answerFeatures = []string{"Arithmancy", "Care of Magical Creatures"}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "godescribe",
		Short:         "Descriptive statistics for tabular datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newDescribeCmd(), newHistogramCmd())
	return rootCmd
}

func newDescribeCmd() *cobra.Command {
	var label, format string
	var workers int

	cmd := &cobra.Command{
		Use:   "describe <dataset.csv|dataset.xlsx>",
		Short: "Print count, mean, std, quartiles, mode and kurtosis of every numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("label") {
				label = cfg.Describe.LabelColumn
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Describe.Workers
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			return runDescribe(cmd.Context(), cmd.OutOrStdout(), args[0], analysis.Config{LabelColumn: label, Workers: workers}, f)
		},
	}

	cmd.Flags().StringVar(&label, "label", analysis.DefaultLabelColumn, "Label column excluded from statistics")
	cmd.Flags().StringVar(&format, "format", string(render.FormatText), "Output format: text, json, markdown or html")
	cmd.Flags().IntVar(&workers, "workers", 0, "Columns computed concurrently (0 = GOMAXPROCS)")
	return cmd
}

func newHistogramCmd() *cobra.Command {
	var bins int
	var group string

	cmd := &cobra.Command{
		Use:   "histogram <dataset> [feature|all]",
		Short: "Print per-group bin counts of one feature, or of every feature",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			hc := histogram.Config{GroupColumn: cfg.Describe.HistogramGroupColumn, Bins: cfg.Describe.HistogramBins}
			if cmd.Flags().Changed("bins") {
				hc.Bins = bins
			}
			if cmd.Flags().Changed("group") {
				hc.GroupColumn = group
			}
			if hc.Bins < 1 {
				return fmt.Errorf("--bins must be at least 1")
			}
			feature := ""
			if len(args) == 2 {
				feature = args[1]
			}
			return runHistogram(cmd.OutOrStdout(), args[0], feature, hc)
		},
	}

	cmd.Flags().IntVar(&bins, "bins", histogram.DefaultBins, "Number of equal-width bins")
	cmd.Flags().StringVar(&group, "group", analysis.DefaultLabelColumn, "Column whose values split the histogram")
	return cmd
}

func loadTable(path string) (*dataset.Table, error) {
	reader, err := excel.NewDataReader(path, excel.DefaultReaderConfig())
	if err != nil {
		return nil, err
	}
	return reader.ReadTable()
}

func runDescribe(ctx context.Context, w io.Writer, path string, cfg analysis.Config, format render.Format) error {
	table, err := loadTable(path)
	if err != nil {
		return err
	}
	engine := analysis.NewEngine(cfg, internal.DefaultLogger)
	report, err := engine.Describe(ctx, table)
	if err != nil {
		return err
	}
	return render.Write(w, report, format)
}

func runHistogram(w io.Writer, path, feature string, cfg histogram.Config) error {
	table, err := loadTable(path)
	if err != nil {
		return err
	}
	builder := histogram.NewBuilder(cfg, internal.DefaultLogger)

	var histograms []*histogram.Histogram
	switch feature {
	case "all":
		histograms, err = builder.All(table)
		if err != nil {
			return err
		}
	case "":
		for _, name := range answerFeatures {
			h, err := builder.Feature(table, name)
			if err != nil {
				return err
			}
			histograms = append(histograms, h)
		}
	default:
		h, err := builder.Feature(table, feature)
		if err != nil {
			return err
		}
		histograms = append(histograms, h)
	}

	for _, h := range histograms {
		printHistogram(w, h)
	}
	return nil
}

// printHistogram writes one line per group with its bin counts
func printHistogram(w io.Writer, h *histogram.Histogram) {
	fmt.Fprintf(w, "%s Distribution\n", h.Feature)
	if len(h.Edges) > 1 {
		fmt.Fprintf(w, "%-15s%.6f .. %.6f (%d bins)\n", "range", h.Edges[0], h.Edges[len(h.Edges)-1], len(h.Edges)-1)
	}
	for _, g := range h.Groups {
		counts := make([]string, len(g.Counts))
		for i, c := range g.Counts {
			counts[i] = fmt.Sprint(c)
		}
		fmt.Fprintf(w, "%-15s%s\n", g.Name, strings.Join(counts, " "))
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
}
