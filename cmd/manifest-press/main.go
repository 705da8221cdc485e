package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/swanseaprintco/manifest-press/internal/catalog"
	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/compose"
	"github.com/swanseaprintco/manifest-press/internal/export"
	"github.com/swanseaprintco/manifest-press/internal/extract"
	"github.com/swanseaprintco/manifest-press/internal/jobfile"
	"github.com/swanseaprintco/manifest-press/internal/journal"
	"github.com/swanseaprintco/manifest-press/internal/output"
	"github.com/swanseaprintco/manifest-press/internal/pages"
	"github.com/swanseaprintco/manifest-press/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func newLogger(cfg *common.Config, levelOverride string) *slog.Logger {
	level := slog.LevelInfo
	name := cfg.Logging.Level
	if levelOverride != "" {
		name = levelOverride
	}
	switch name {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func main() {
	var (
		jobPath  = flag.String("job", "", "batch job file (required)")
		out      = flag.String("out", "", "output folder (overrides the job file)")
		logLevel = flag.String("log-level", "", "log level: debug|info|warn|error")
	)
	flag.Parse()

	if *jobPath == "" {
		printError("Error: --job is required\n")
		os.Exit(1)
	}

	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg, *logLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	job, err := jobfile.Load(*jobPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *out != "" {
		job.OutputFolder = *out
	}

	templates, err := extract.LoadTemplates()
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	templateName := job.Template
	if templateName == "" {
		templateName = cfg.Pipeline.Template
	}
	tmpl, ok := templates[templateName]
	if !ok {
		printError("Error: unknown manifest template %q\n", templateName)
		os.Exit(1)
	}

	cat, err := catalog.LoadFile(job.SKUFile)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	lookups, err := catalog.LoadLookups(job.DescFile, job.PriceFile, job.CustomersFile)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "skus", cat.Len(), "file", job.SKUFile)

	batch, err := pages.NewLoader(logger).Load(job.PagesDir, job.LabelsDir, job.AssetFolder, job.PackName)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	// The journal is best-effort: if it cannot be opened the run proceeds
	// without one.
	var jnl *journal.Journal
	if cfg.Journal.Enabled && cfg.Journal.Path != "" {
		jnl, err = journal.Open(cfg.Journal.Path, logger)
		if err != nil {
			logger.Warn("journal unavailable", "error", err)
			jnl = nil
		} else {
			defer jnl.Close()
		}
	}

	p := pipeline.New(
		tmpl,
		catalog.NewEnricher(cat),
		compose.NewComposer(cfg.Compose.ThumbnailSize, logger),
		logger,
		pipeline.WithComposeWorkers(cfg.Pipeline.ComposeWorkers),
	)

	var runID uuid.UUID
	if jnl != nil {
		runID = jnl.Begin(batch.Ref)
	}

	result, runErr := run(ctx, p, batch, job, lookups, logger)
	if runErr != nil {
		if jnl != nil {
			jnl.Fail(runID, runErr)
		}
		printError("Error: %v\n", runErr)
		os.Exit(1)
	}
	if jnl != nil {
		jnl.Finish(runID, len(result.Pages), len(result.PickListRows), result.MissingAssets)
	}
	printSummary(batch.Ref, job.OutputFolder, result)
}

// run executes the pipeline and writes every batch output.
func run(ctx context.Context, p *pipeline.Pipeline, batch *pages.Batch, job *jobfile.Job, lookups *catalog.Lookups, logger *slog.Logger) (*pipeline.BatchResult, error) {
	result, err := p.Run(ctx, batch.Pages, job.TargetAssetFolder)
	if err != nil {
		return nil, err
	}

	if err := output.NewWriter(logger).WritePDF(result.Pages, filepath.Join(job.OutputFolder, "output.pdf")); err != nil {
		return nil, err
	}

	exporter := export.NewService(logger)
	pickList, err := exporter.BuildPickList(result.PickListRows)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(job.OutputFolder, "pick_list.xlsx"), pickList, 0644); err != nil {
		return nil, fmt.Errorf("write pick list: %w", err)
	}

	invoice, err := exporter.BuildInvoice(result.InvoiceRows, lookups, batch.Ref, time.Now())
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(job.OutputFolder, "invoice.xlsx"), invoice, 0644); err != nil {
		return nil, fmt.Errorf("write invoice: %w", err)
	}

	return result, nil
}

func printSummary(ref, outputFolder string, result *pipeline.BatchResult) {
	fmt.Printf("Batch %s complete!\n", ref)
	fmt.Printf("- Pages: %d\n", len(result.Pages))
	fmt.Printf("- Pick list lines: %d\n", len(result.PickListRows))
	fmt.Printf("- Output: %s\n", outputFolder)
	for _, w := range result.Warnings {
		fmt.Printf("- Warning: %s\n", w)
	}
	for _, path := range result.MissingAssets {
		fmt.Printf("- PNG not found: %s\n", path)
	}
}
