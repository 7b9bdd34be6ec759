package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/merhi-odg/roi-monitor/internal/dataset"
	"github.com/merhi-odg/roi-monitor/internal/params"
	"github.com/merhi-odg/roi-monitor/internal/reporting"
	"github.com/merhi-odg/roi-monitor/internal/roi"
	"github.com/merhi-odg/roi-monitor/internal/sink"
	"github.com/merhi-odg/roi-monitor/internal/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const defaultWorkers = 4

var (
	runParamsPath    string
	runFormat        string
	runOutputDir     string
	runJUnitPath     string
	runWorkers       int
	runFailOnLoss    bool
	runBlobAccount   string
	runBlobContainer string
	runBlobPrefix    string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <batch> [batch ...]",
		Short: "Compute actual ROI for one or more batches of scored records",
		Long: `Compute the actual ROI of each batch file.

Batches may be CSV (.csv), JSON arrays (.json) or JSON Lines (.jsonl, .ndjson),
optionally gzip (.gz) or zstd (.zst) compressed. The model parameters are
loaded once and shared by every batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&runParamsPath, "params", "p", params.DefaultFileName, "Model parameters file (JSON or YAML)")
	cmd.Flags().StringVarP(&runFormat, "format", "f", "", "Output format: table or json (default: table on a terminal, json otherwise)")
	cmd.Flags().StringVarP(&runOutputDir, "output", "o", "", "Directory to write one <batch>.json report per batch")
	cmd.Flags().StringVar(&runJUnitPath, "junit", "", "Write results as JUnit XML to this file")
	cmd.Flags().IntVar(&runWorkers, "workers", defaultWorkers, "Number of batches scored concurrently")
	cmd.Flags().BoolVar(&runFailOnLoss, "fail-on-loss", false, "Exit with status 1 when any batch has a negative actual ROI")
	cmd.Flags().StringVar(&runBlobAccount, "blob-account", "", "Azure Storage account URL to upload reports to")
	cmd.Flags().StringVar(&runBlobContainer, "blob-container", "", "Azure Storage container for uploaded reports")
	cmd.Flags().StringVar(&runBlobPrefix, "blob-prefix", "", "Blob name prefix for uploaded reports")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := resolveFormat(runFormat, out)
	if err != nil {
		return err
	}
	if (runBlobAccount == "") != (runBlobContainer == "") {
		return fmt.Errorf("--blob-account and --blob-container must be used together")
	}

	cfg, err := params.LoadFile(runParamsPath)
	if err != nil {
		return err
	}

	var progress func(done, total int)
	stopSpinner := func() {}
	if format == "table" && isTerminal(cmd.ErrOrStderr()) {
		sp := spinner.Start(cmd.ErrOrStderr(), fmt.Sprintf("Scoring %d batch(es)", len(args)))
		progress = func(done, total int) {
			sp.SetMessage(fmt.Sprintf("Scoring batches (%d/%d)", done, total))
		}
		stopSpinner = sp.Stop
	}

	results, err := scoreBatches(ctx, cfg, args, runWorkers, progress)
	stopSpinner()
	if err != nil {
		return err
	}

	sinks, err := buildSinks(format, out)
	if err != nil {
		return err
	}

	for _, res := range results {
		if format == "table" {
			fmt.Fprintln(out, reporting.FormatSummaryReport(res)) //nolint:errcheck
		}
		if err := sinks.Publish(ctx, res.Name, res.Report); err != nil {
			return fmt.Errorf("publishing %s: %w", res.Name, err)
		}
	}

	if runJUnitPath != "" {
		if err := reporting.WriteJUnitXML(results, runJUnitPath); err != nil {
			return fmt.Errorf("failed to write JUnit XML: %w", err)
		}
		slog.Info("JUnit XML written", "path", runJUnitPath)
	}

	if runFailOnLoss {
		var losing []string
		for _, res := range results {
			if res.Report.ActualROI < 0 {
				losing = append(losing, res.Name)
			}
		}
		if len(losing) > 0 {
			return &LossError{Message: fmt.Sprintf("negative actual ROI in %d batch(es): %s", len(losing), strings.Join(losing, ", "))}
		}
	}

	return nil
}

// scoreBatches loads and scores every batch concurrently. Results are in
// argument order. The first failure cancels the remaining batches. progress,
// when set, is called after each batch completes.
func scoreBatches(ctx context.Context, cfg *params.Configuration, paths []string, workers int, progress func(done, total int)) ([]*reporting.BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	names := batchNames(paths)
	results := make([]*reporting.BatchResult, len(paths))
	var completed atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			records, err := dataset.Load(path)
			if err != nil {
				return err
			}

			breakdown, err := roi.Summarize(records, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = &reporting.BatchResult{
				Name:       names[i],
				Timestamp:  start.UTC(),
				DurationMs: time.Since(start).Milliseconds(),
				Report:     roi.NewReport(breakdown, cfg),
				Breakdown:  breakdown,
			}
			slog.Debug("Scored batch", "path", path, "records", breakdown.Records, "actual_roi", breakdown.ActualROI)
			if progress != nil {
				progress(int(completed.Add(1)), len(paths))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildSinks(format string, out io.Writer) (sink.Multi, error) {
	var sinks sink.Multi

	if format == "json" {
		sinks = append(sinks, sink.NewWriterSink(out))
	}

	if runOutputDir != "" {
		fs, err := sink.NewFileSink(runOutputDir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}

	if runBlobAccount != "" {
		bs, err := sink.NewBlobSink(runBlobAccount, runBlobContainer, runBlobPrefix)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, bs)
	}

	return sinks, nil
}

func resolveFormat(format string, out io.Writer) (string, error) {
	switch format {
	case "table", "json":
		return format, nil
	case "":
		if isTerminal(out) {
			return "table", nil
		}
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported format %q: must be table or json", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// batchNames derives a report name for each batch path from its file name
// without data and compression extensions. Repeated names get a numeric
// suffix so reports do not overwrite each other.
func batchNames(paths []string) []string {
	names := make([]string, len(paths))
	seen := make(map[string]int, len(paths))

	for i, p := range paths {
		name := filepath.Base(p)
		for _, ext := range []string{".gz", ".zst"} {
			name = strings.TrimSuffix(name, ext)
		}
		name = strings.TrimSuffix(name, filepath.Ext(name))

		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		names[i] = name
	}
	return names
}
