package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jusbr/pje-segmenter/internal/orchestrator"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
	"github.com/jusbr/pje-segmenter/internal/pjlog"
)

const version = "1.0.0"

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "doctor":
			if err := doctorCommand(args[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "doctor: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		case "version":
			fmt.Printf("pipeline version %s\n", version)
			os.Exit(0)
		}
	}
	os.Exit(run(args))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	source := fs.String("source", "", "PDF file or directory of PDFs to process")
	output := fs.String("output", "output", "Output directory")
	resume := fs.String("resume", "", "Path to a .checkpoint.json to resume from (bypasses --source)")
	verbose := fs.Bool("verbose", false, "Enable debug-level logging")
	rulesPath := fs.String("rules", "", "Path to a classifier rules YAML file (default: built-in)")
	mislabelPath := fs.String("qc-rules", "", "Path to a QC mislabel rules YAML file (default: built-in)")
	logFile := fs.String("log-file", "", "Path to a rotating log file (default: stderr only)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := pjlog.Init(pjlog.Options{
		Level:      level,
		Pretty:     true,
		File:       *logFile,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 28,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		return 1
	}
	log := pjlog.Get()

	if *resume == "" && *source == "" {
		fmt.Fprintln(os.Stderr, "error: --source is required unless --resume is given")
		fs.Usage()
		return 1
	}

	cfg := pconfig.DefaultConfig()
	orch, err := orchestrator.New(cfg, *log, *rulesPath, *mislabelPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize orchestrator")
		return 1
	}

	outputDir := *output
	absOutput, err := filepath.Abs(outputDir)
	if err == nil {
		outputDir = absOutput
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Error().Err(err).Msg("failed to create output directory")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	interrupted := make(chan struct{})
	go func() {
		<-sigCh
		log.Warn().Msg("interrupt received, finishing current stage then exiting")
		orch.RequestStop()
		close(interrupted)
	}()

	batch, err := orch.RunBatch(ctx, *source, outputDir, *resume)
	if err != nil {
		log.Error().Err(err).Msg("pipeline run failed")
		return 1
	}

	log.Info().
		Int("pdf_count", batch.PDFCount).
		Int("passed", batch.Summary.Passed).
		Int("flagged", batch.Summary.Flagged).
		Int("rejected", batch.Summary.Rejected).
		Msg("batch complete")

	select {
	case <-interrupted:
		return 130
	default:
	}
	return 0
}
