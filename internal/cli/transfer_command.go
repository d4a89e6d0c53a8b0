package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"emoji-transfer/internal/reportfile"
	"emoji-transfer/internal/settings"
	"emoji-transfer/internal/transfer"

	"go.uber.org/zap"
)

func runTransfer(args []string) error {
	return transferCommand(args, defaultIO())
}

func transferCommand(args []string, cio commandIO) error {
	fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	destToken := fs.String("dest-token", "", "destination workspace token, must start with xoxs- (prompted when empty)")
	batchSize := fs.Int("batch-size", settings.DefaultBatchSize, "emoji uploaded concurrently per batch")
	secondsPerBatch := fs.Int("seconds-per-batch", settings.DefaultSecondsPerBatch, "seconds between batch starts")
	batchInterval := fs.Duration("batch-interval", 0, "time between batch starts (overrides --seconds-per-batch)")
	preview := fs.String("preview", "", "preview the emoji set before uploading: auto|yes|no")
	yes := fs.Bool("yes", false, "skip the preview and transfer immediately")
	dryRun := fs.Bool("dry-run", false, "list and plan only; do not upload")
	jsonOut := fs.Bool("json", false, "print JSON report")
	reportFile := fs.String("report-file", "", "also write the JSON report to this path")

	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg, err := common.resolve()
	if err != nil {
		return err
	}
	if flagWasSet(fs, "dest-token") {
		cfg.DestinationToken = strings.TrimSpace(*destToken)
	}
	if flagWasSet(fs, "batch-size") {
		if *batchSize <= 0 {
			return errors.New("--batch-size must be >= 1")
		}
		cfg.BatchSize = *batchSize
	}
	if flagWasSet(fs, "seconds-per-batch") {
		cfg.SecondsPerBatch = *secondsPerBatch
	}
	if flagWasSet(fs, "preview") {
		cfg.Preview = *preview
	}
	if flagWasSet(fs, "report-file") {
		cfg.ReportFile = strings.TrimSpace(*reportFile)
	}
	cfg = settings.Normalize(cfg)
	if err := settings.Validate(cfg); err != nil {
		return err
	}

	interval := cfg.BatchInterval()
	if flagWasSet(fs, "batch-interval") {
		if *batchInterval < 0 {
			return errors.New("--batch-interval must be >= 0")
		}
		interval = *batchInterval
	}

	logger, err := newLogger(common, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := newSlackClient(cfg)
	reporters := transfer.MultiReporter{transfer.LogReporter{Logger: logger}}
	if !*jsonOut {
		reporters = append(reporters, newConsoleReporter(cio.Out, cio.Live))
	}

	showPreview, askPreview := previewEnabled(cfg.Preview, *yes, cio.Interactive)
	orch := &transfer.Orchestrator{
		Lister:   client,
		Fetcher:  client,
		Creator:  client,
		Prompter: newPrompter(cio, cfg.SourceToken, cfg.DestinationToken),
		Reporter: reporters,
		Clock:    transfer.SystemClock(),
		Logger:   logger,
		Options: transfer.Options{
			Preview:       showPreview,
			AskPreview:    askPreview,
			DryRun:        *dryRun,
			BatchSize:     cfg.BatchSize,
			BatchInterval: interval,
		},
	}

	logger.Info("transfer invoked",
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("batch_interval", interval),
		zap.Bool("dry_run", *dryRun),
	)

	report, err := orch.Run(context.Background())
	if err != nil {
		logger.Error("transfer failed", zap.Error(err))
		return err
	}

	if cfg.ReportFile != "" && !report.Aborted {
		if err := reportfile.Write(cfg.ReportFile, reportDocument(report)); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", cfg.ReportFile))
	}

	if *jsonOut {
		if err := printJSON(cio.Out, report); err != nil {
			return err
		}
	} else {
		switch {
		case report.Aborted:
			fmt.Fprintln(cio.Out, "Exiting...")
		case report.DryRun:
			printDryRun(cio, report, interval)
		}
	}

	if report.HasFailures() {
		return fmt.Errorf("transfer finished with %d failure(s)", report.Failed)
	}
	return nil
}

// previewEnabled resolves the preview mode into whether to show the
// preview and whether to ask first. auto asks only when a person is at the
// terminal; --yes always wins.
func previewEnabled(mode string, assumeYes, interactive bool) (show, ask bool) {
	if assumeYes {
		return false, false
	}
	switch mode {
	case settings.PreviewYes:
		return true, false
	case settings.PreviewNo:
		return false, false
	default:
		return false, interactive
	}
}

func reportDocument(report transfer.Report) reportfile.Document {
	return reportfile.Document{
		RunID:      report.RunID,
		FinishedAt: reportfile.Stamp(time.Now()),
		DryRun:     report.DryRun,
		Planned:    report.Planned,
		Processed:  report.Processed,
		Succeeded:  report.Succeeded,
		Failed:     report.Failed,
		Bytes:      report.Bytes,
		ElapsedMS:  report.Elapsed.Milliseconds(),
		Skipped:    report.Skipped,
		Outcomes:   report.Outcomes,
	}
}

func printDryRun(cio commandIO, report transfer.Report, interval time.Duration) {
	fmt.Fprintln(cio.Out, reportTitleStyle.Render("dry run: nothing uploaded"))
	fmt.Fprintf(cio.Out, "emoji: %d\n", report.Planned)
	fmt.Fprintf(cio.Out, "batches: %d\n", report.Batches)
	fmt.Fprintf(cio.Out, "skipped: %d\n", len(report.Skipped))
	if report.Batches > 1 {
		fmt.Fprintf(cio.Out, "last batch starts after: %s\n", time.Duration(report.Batches-1)*interval)
	}
}
