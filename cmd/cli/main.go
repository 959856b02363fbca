package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"multistats/adapters/excel"
	"multistats/app"
	"multistats/domain/sample"
	"multistats/internal"
	"multistats/internal/analysis/summary"
	"multistats/internal/config"
	"multistats/internal/errors"
	"multistats/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
	logger := internal.NewConsoleLogger(internal.ParseLogLevel(cfg.LogLevel))

	rootCmd := &cobra.Command{
		Use:           "multistats",
		Short:         "Descriptive statistics and annotated charts for numeric data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSummarizeCmd(cfg, logger),
		newScatterCmd(cfg, logger),
		newReportCmd(cfg, logger),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(errors.ExitCode(err))
	}
}

type summarizeFlags struct {
	file      string
	sheet     string
	columns   []string
	title     string
	titleSize float64
	width     float64
	height    float64
	outDir    string
	format    string
	output    string
}

func (f *summarizeFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "CSV or XLSX file to read")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet name for XLSX input (default: first sheet)")
	cmd.Flags().StringSliceVarP(&f.columns, "column", "c", nil, "Column to summarize (repeatable)")
	cmd.Flags().StringVar(&f.title, "title", "", "Chart title (default: none)")
	cmd.Flags().Float64Var(&f.titleSize, "title-size", cfg.Summary.TitleFontSize, "Title font size in points")
	cmd.Flags().Float64Var(&f.width, "width", cfg.Summary.FigureWidth, "Figure width in inches")
	cmd.Flags().Float64Var(&f.height, "height", cfg.Summary.FigureHeight, "Figure height in inches (5 or less becomes 6)")
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", cfg.Output.Dir, "Directory for chart files")
	cmd.Flags().StringVar(&f.format, "format", cfg.Output.Format, "Chart format: png, jpg, svg or pdf")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("column")
}

func newSummarizeCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	var flags summarizeFlags

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Compute statistics and outliers and draw a box plot / histogram chart per column",
		Long: `Compute count, mean, std, quartiles, median, mode, kurtosis, skewness and
box-plot outliers for each column, and write one annotated chart per column.

Example: multistats summarize -f data.csv -c price -c weight --title "Prices" -o charts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := runSummarize(cmd.Context(), cfg, logger, flags)
			if err != nil {
				return err
			}
			return printSections(cmd.OutOrStdout(), flags.output, sections)
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&flags.output, "output", "json", "Statistics output on stdout: json or yaml")
	return cmd
}

func newReportCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	var flags summarizeFlags
	var name string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize columns and write charts plus Markdown, HTML and YAML reports",
		Long: `Run summarize and collect the results into <name>.md, <name>.html and
<name>.yaml in the output directory, next to the chart files.

Example: multistats report -f data.xlsx -c revenue -o out --name revenue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := runSummarize(cmd.Context(), cfg, logger, flags)
			if err != nil {
				return err
			}
			return writeReport(flags.outDir, name, flags.title, sections, logger)
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&name, "name", "report", "Base name of the report files")
	return cmd
}

func newScatterCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	var file, sheet, out, output string
	var columns []string
	var width, height, fontSize float64

	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Draw a scatter matrix annotated with pairwise Pearson correlations",
		Long: `Compute the pairwise-complete Pearson correlation of every column pair and
draw a scatter matrix with histograms on the diagonal.

Example: multistats scatter -f data.csv --columns a,b,c --out matrix.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := excel.NewDataReader(file, logger).WithSheet(sheet).ReadTable()
			if err != nil {
				return errors.Wrapf(err, "reading %s", file)
			}
			if len(columns) > 0 {
				if tbl, err = tbl.Select(columns...); err != nil {
					return err
				}
			}

			svc := app.NewCorrelationServiceWith(nil, cfg.CorrelationRender(), logger)
			chart, corr, err := svc.PlotCorrelations(tbl,
				app.WithCorrelationFigureSize(width, height), app.WithFontSize(fontSize))
			if err != nil {
				return err
			}
			if err := chart.Save(out); err != nil {
				return errors.Wrapf(err, "saving %s", out)
			}
			logger.Info("wrote scatter matrix to %s", out)

			return printCorrelations(cmd.OutOrStdout(), output, corr)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or XLSX file to read")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for XLSX input (default: first sheet)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to include (default: all)")
	cmd.Flags().Float64Var(&width, "width", cfg.Correlation.FigureWidth, "Figure width in inches")
	cmd.Flags().Float64Var(&height, "height", cfg.Correlation.FigureHeight, "Figure height in inches (5 or less becomes 6)")
	cmd.Flags().Float64Var(&fontSize, "font-size", cfg.Correlation.FontSize, "Correlation annotation size in points")
	cmd.Flags().StringVar(&out, "out", filepath.Join(cfg.Output.Dir, "scatter_matrix."+cfg.Output.Format), "Chart output path")
	cmd.Flags().StringVar(&output, "output", "json", "Correlation output on stdout: json, yaml or md")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// runSummarize reads the file once and summarizes the requested columns
// concurrently, writing one chart per column.
func runSummarize(ctx context.Context, cfg *config.Config, logger *internal.Logger, flags summarizeFlags) ([]report.Section, error) {
	tbl, err := excel.NewDataReader(flags.file, logger).WithSheet(flags.sheet).ReadTable()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", flags.file)
	}
	if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
		return nil, errors.IOError(flags.outDir, err)
	}

	computer := summary.NewComputerWithWhisker(cfg.Summary.Whisker)
	svc := app.NewSummarizerServiceWith(computer, cfg.SummaryRender(), logger)
	sections := make([]report.Section, len(flags.columns))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Output.Workers)
	for i, name := range flags.columns {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col, ok := tbl.Column(name)
			if !ok {
				return errors.InvalidInput(fmt.Sprintf("column %q not found in %s", name, flags.file))
			}

			res, err := svc.Summarize(col.Present(), name,
				app.WithTitle(flags.title),
				app.WithTitleFontSize(flags.titleSize),
				app.WithFigureSize(flags.width, flags.height))
			if err != nil {
				return err
			}

			chartFile := chartFileName(name, flags.format)
			if err := res.Chart.Save(filepath.Join(flags.outDir, chartFile)); err != nil {
				return errors.Wrapf(err, "saving chart for %s", name)
			}
			logger.Info("wrote %s (%d outliers)", chartFile, len(res.Outliers))

			sections[i] = report.Section{
				Variable:    name,
				Fingerprint: res.Fingerprint,
				Statistics:  res.Statistics,
				Outliers:    res.Outliers,
				ChartFile:   chartFile,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sections, nil
}

func printSections(w io.Writer, format string, sections []report.Section) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return report.WriteYAML(w, sections...)
	case "json":
		type entry struct {
			Variable    string             `json:"variable"`
			Fingerprint string             `json:"fingerprint"`
			Statistics  *sample.Statistics `json:"statistics"`
			Outliers    sample.OutlierSet  `json:"outliers"`
			Chart       string             `json:"chart"`
		}
		out := make([]entry, len(sections))
		for i, s := range sections {
			out[i] = entry{s.Variable, s.Fingerprint.String(), s.Statistics, s.Outliers, s.ChartFile}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown output format %q", format))
	}
}

func printCorrelations(w io.Writer, format string, corr *sample.CorrelationMatrix) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return report.WriteCorrelationYAML(w, corr)
	case "md", "markdown":
		_, err := w.Write(report.CorrelationMarkdown(corr))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(corr)
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown output format %q", format))
	}
}

func writeReport(dir, name, title string, sections []report.Section, logger *internal.Logger) error {
	if title == "" {
		title = "Summary report"
	}
	md := report.Markdown(title, sections...)

	files := map[string][]byte{
		name + ".md":   md,
		name + ".html": report.HTML(title, md),
	}
	for file, content := range files {
		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return errors.IOError(path, err)
		}
	}

	path := filepath.Join(dir, name+".yaml")
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(path, err)
	}
	defer f.Close()
	if err := report.WriteYAML(f, sections...); err != nil {
		return errors.IOError(path, err)
	}

	logger.Info("wrote report %s.{md,html,yaml} to %s", name, dir)
	return nil
}

func chartFileName(column, format string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, column)
	return safe + "." + strings.TrimPrefix(strings.ToLower(format), ".")
}
