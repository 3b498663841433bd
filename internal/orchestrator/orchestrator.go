// Package orchestrator implements C10: sequencing C1-C9 for each source
// PDF, checkpointing between stages, graceful SIGINT/SIGTERM handling, and
// batch report accumulation, per SPEC_FULL.md 4.10 and 5.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jusbr/pje-segmenter/internal/checkpoint"
	"github.com/jusbr/pje-segmenter/internal/classify"
	"github.com/jusbr/pje-segmenter/internal/dedupe"
	"github.com/jusbr/pje-segmenter/internal/export"
	"github.com/jusbr/pje-segmenter/internal/extract"
	"github.com/jusbr/pje-segmenter/internal/intake"
	"github.com/jusbr/pje-segmenter/internal/jsonutil"
	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
	"github.com/jusbr/pje-segmenter/internal/pjreport"
	"github.com/jusbr/pje-segmenter/internal/profiler"
	"github.com/jusbr/pje-segmenter/internal/qc"
	"github.com/jusbr/pje-segmenter/internal/reclassify"
	"github.com/jusbr/pje-segmenter/internal/router"
	"github.com/jusbr/pje-segmenter/internal/runner"
	"github.com/jusbr/pje-segmenter/internal/segment"
)

// subdirs is the per-PDF seven-directory skeleton, per SPEC_FULL.md 4.10.
var subdirs = []string{"intake", "profiles", "routes", "extracted", "segments", "markdown", "review"}

// Capability is one external binary the orchestrator checks for at start.
type Capability struct {
	Name      string
	Binaries  []string // any one present satisfies the capability
	Available bool
	Found     string
}

// Orchestrator sequences the pipeline stages across a batch of PDFs.
type Orchestrator struct {
	cfg         pconfig.Config
	log         zerolog.Logger
	classifier  *classify.Classifier
	qcValidator *qc.Validator
	runner      *runner.Runner
	interrupted int32
}

// New constructs an Orchestrator. rulesPath/mislabelPath may be empty to
// use the compiled-in defaults.
func New(cfg pconfig.Config, log zerolog.Logger, rulesPath, mislabelPath string) (*Orchestrator, error) {
	classifier, err := classify.LoadRules(cfg, rulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier rules: %w", err)
	}
	validator, err := qc.NewValidator(cfg, mislabelPath)
	if err != nil {
		return nil, fmt.Errorf("load qc rules: %w", err)
	}
	return &Orchestrator{cfg: cfg, log: log, classifier: classifier, qcValidator: validator, runner: runner.New()}, nil
}

// RequestStop sets the interrupted flag, checked between stages.
func (o *Orchestrator) RequestStop() {
	atomic.StoreInt32(&o.interrupted, 1)
}

func (o *Orchestrator) stopRequested() bool {
	return atomic.LoadInt32(&o.interrupted) == 1
}

// CheckCapabilities probes for every external binary the pipeline can use,
// per SPEC_FULL.md 6. Missing optional capabilities are not fatal; callers
// consult the returned slice to decide which routes must downgrade.
func (o *Orchestrator) CheckCapabilities() []Capability {
	caps := []Capability{
		{Name: "fast-parse", Binaries: []string{"pdftotext"}},
		{Name: "rasterize", Binaries: []string{"pdftoppm"}},
		{Name: "ocr", Binaries: []string{"tesseract"}},
		{Name: "rotate", Binaries: []string{"sips", "convert"}},
		{Name: "page-count", Binaries: []string{"pdfinfo"}},
	}
	for i := range caps {
		for _, bin := range caps[i].Binaries {
			if path, err := o.runner.LookPath(bin); err == nil {
				caps[i].Available = true
				caps[i].Found = path
				break
			}
		}
	}
	return caps
}

// RunBatch processes every PDF under source (file or directory) and writes
// a batch-report.json under outputDir in addition to each PDF's own
// subfolder, per SPEC_FULL.md 4.10.
func (o *Orchestrator) RunBatch(ctx context.Context, source, outputDir string, resumeFrom string) (model.BatchReport, error) {
	batch := model.BatchReport{
		GeneratedAt: time.Now().UTC(),
		SourcePath:  source,
	}

	var files []string
	var err error
	if resumeFrom != "" {
		files, err = filesFromResume(resumeFrom)
	} else {
		files, err = intake.ListPDFs(source, true)
	}
	if err != nil {
		return batch, fmt.Errorf("enumerate source PDFs: %w", err)
	}

	caps := o.CheckCapabilities()
	limitations := limitationsFromCapabilities(caps)

	extractedTexts := make(map[string]string, len(files))

	for _, file := range files {
		if o.stopRequested() {
			o.log.Warn().Str("file", file).Msg("interrupted before processing; stopping batch")
			break
		}

		docDir := filepath.Join(outputDir, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		report, text, err := o.runSinglePDF(ctx, file, docDir, limitations)
		if err != nil {
			o.log.Error().Err(err).Str("file", file).Msg("pipeline failed for file")
			report.Limitations = append(report.Limitations, "processing error: "+err.Error())
			report.ReviewNeeded = true
		}
		extractedTexts[file] = text
		batch.AddReport(report)
	}

	if pairs := dedupe.BatchNearDuplicates(extractedTexts, dedupe.DefaultNearDuplicateMaxDistance); len(pairs) > 0 {
		for _, p := range pairs {
			note := fmt.Sprintf("near-duplicate content detected between %s and %s (hamming distance %d)", p.FileA, p.FileB, p.Distance)
			o.log.Info().Msg(note)
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return batch, fmt.Errorf("create output dir: %w", err)
	}
	if err := pjreport.WriteBatchReport(batch, filepath.Join(outputDir, "batch-report.json")); err != nil {
		return batch, err
	}

	return batch, nil
}

// runSinglePDF sequences C1-C9 for one PDF, checkpointing after each stage,
// and returns its PipelineReport plus its cleaned full text (for batch-level
// near-duplicate detection).
func (o *Orchestrator) runSinglePDF(ctx context.Context, file, docDir string, limitations []string) (model.PipelineReport, string, error) {
	start := time.Now()
	report := model.PipelineReport{SourceFile: file, Limitations: append([]string{}, limitations...)}

	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(docDir, sub), 0o755); err != nil {
			return report, "", fmt.Errorf("create %s dir: %w", sub, err)
		}
	}

	var cp model.Checkpoint
	if checkpoint.Exists(docDir) {
		loaded, err := checkpoint.Load(docDir)
		if err == nil {
			cp = loaded
		}
	}
	if cp.PipelineVersion == "" {
		cp = model.Checkpoint{PipelineVersion: o.cfg.PipelineVersion, Source: file, StartedAt: time.Now().UTC()}
	}

	ex := extract.New(o.cfg, docDir)
	prof := profiler.New(o.cfg)
	seg := segment.New(o.cfg)
	exp := export.New(o.cfg)

	pageCount, err := ex.CountPages(ctx, file)
	if err != nil || pageCount == 0 {
		pageCount = 1
	}

	// Stage 1: fast per-page extract feeding profiler/classifier.
	fastPages, err := ex.FastParsePerPage(ctx, file, pageCount)
	if err != nil {
		return report, "", fmt.Errorf("fast-parse: %w", err)
	}
	cp = checkpoint.MarkStageComplete(cp, 1, "extract-fast", model.StageResult{Status: "ok", DurationMs: time.Since(start).Milliseconds()})
	if err := checkpoint.Write(docDir, cp); err != nil {
		o.log.Warn().Err(err).Msg("checkpoint write failed")
	}
	if o.stopRequested() {
		return report, "", nil
	}

	// Stage 2: quality profiling + document classification.
	docProfile := prof.ProfileDocument(fastPages)
	docProfile.HasTextLayer = docProfile.ReadabilityScore > 0
	fullFastText := joinPages(fastPages)
	docClass := o.classifier.Classify(fullFastText)
	report.ProfileQualityTier = docProfile.QualityTier
	report.ProfileReadability = docProfile.ReadabilityScore
	cp = checkpoint.MarkStageComplete(cp, 2, "profile-classify", model.StageResult{Status: "ok", DurationMs: time.Since(start).Milliseconds()})
	checkpoint.Write(docDir, cp)
	if o.stopRequested() {
		return report, "", nil
	}

	// Stage 3: routing.
	docRoute := router.RouteDocument(file, docProfile)
	pageRoutes := router.RouteAllPages(docProfile)
	for _, c := range o.CheckCapabilities() {
		if (c.Name == "rasterize" || c.Name == "ocr") && !c.Available {
			for i := range pageRoutes {
				if pageRoutes[i].NeedsOCR {
					pageRoutes[i].Method = model.RouteFastParse
					pageRoutes[i].NeedsOCR = false
				}
			}
		}
	}
	report.RouteMethod = docRoute.Method
	cp = checkpoint.MarkStageComplete(cp, 3, "route", model.StageResult{Status: "ok", DurationMs: time.Since(start).Milliseconds()})
	checkpoint.Write(docDir, cp)
	if o.stopRequested() {
		return report, "", nil
	}

	// Stage 4: hybrid re-extraction, then repetitive-content stripping.
	extraction := ex.ExtractHybrid(ctx, file, fastPages, pageRoutes, prof.GarbageScore)
	extraction.Classification = &docClass
	cleanedPages := prof.StripRepetitiveContent(extraction.Pages)
	report.ExtractMethod = extraction.Method
	report.ExtractConfidence = extraction.OverallConfidence
	report.ExtractOCRPages = len(extraction.OCRPages)
	if extraction.FallbackTriggered {
		report.Limitations = append(report.Limitations, "extraction confidence fell back below threshold")
	}
	cp = checkpoint.MarkStageComplete(cp, 4, "extract-hybrid", model.StageResult{Status: "ok", DurationMs: time.Since(start).Milliseconds()})
	checkpoint.Write(docDir, cp)
	if o.stopRequested() {
		return report, "", nil
	}

	// Stage 5: segmentation + L1/L2 reclassification.
	segments := seg.Segment(cleanedPages, docClass)
	if warnings := segment.ValidateCoverage(segments, pageCount); len(warnings) > 0 {
		report.Limitations = append(report.Limitations, warnings...)
	}
	pageText := func(s model.Segment) string {
		var b strings.Builder
		for _, p := range cleanedPages {
			if p.PageNumber >= s.PageStart && p.PageNumber <= s.PageEnd {
				b.WriteString(p.Text)
				b.WriteString("\n")
			}
		}
		return b.String()
	}
	segments = reclassify.ReclassifySegments(o.cfg, segments, o.classifier, pageText, docClass)
	report.SegmentCount = len(segments)
	report.SegmentTypeCounts = segmentTypeHistogram(segments)
	cp = checkpoint.MarkStageComplete(cp, 5, "segment-reclassify", model.StageResult{Status: "ok", DurationMs: time.Since(start).Milliseconds()})
	checkpoint.Write(docDir, cp)
	if o.stopRequested() {
		return report, "", nil
	}

	// Stage 6: export + QC.
	idx, err := exp.ExportDocument(filepath.Join(docDir, "markdown"), segments, cleanedPages, filepath.Base(file), file, extraction, func() time.Time { return time.Now().UTC() })
	if err != nil {
		return report, "", fmt.Errorf("export: %w", err)
	}
	report.ExportedFileCount = idx.TotalFiles

	qcReport, err := o.qcValidator.ValidateDocument(filepath.Join(docDir, "markdown"), pageCount)
	if err != nil {
		return report, "", fmt.Errorf("qc: %w", err)
	}
	report.QC = qcReport.Summary
	if qcReport.Summary.Rejected > 0 {
		report.ReviewNeeded = true
		report.ReviewReasons = append(report.ReviewReasons, fmt.Sprintf("%d segment(s) rejected by QC", qcReport.Summary.Rejected))
		if err := copyRejectedToReview(docDir, qcReport); err != nil {
			o.log.Warn().Err(err).Msg("failed to copy rejected files to review/")
		}
	}
	if len(qcReport.CoverageIssues) > 0 {
		report.Limitations = append(report.Limitations, qcReport.CoverageIssues...)
	}

	cp = checkpoint.MarkStageComplete(cp, 6, "export-qc", model.StageResult{Status: "ok", DurationMs: time.Since(start).Milliseconds()})
	checkpoint.Write(docDir, cp)

	report.DurationMs = time.Since(start).Milliseconds()

	reportPath := filepath.Join(docDir, "pipeline-report.json")
	if err := pjreport.WritePipelineReport(report, reportPath); err != nil {
		return report, "", err
	}

	return report, joinPages(cleanedPages), nil
}

func copyRejectedToReview(docDir string, qcReport qc.Report) error {
	reviewDir := filepath.Join(docDir, "review")
	for _, f := range qcReport.Files {
		if f.Status != qc.StatusRejected {
			continue
		}
		src := filepath.Join(docDir, "markdown", f.File)
		data, err := os.ReadFile(src)
		if err != nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(reviewDir, f.File), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func joinPages(pages []model.Page) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func segmentTypeHistogram(segments []model.Segment) map[string]int {
	out := make(map[string]int)
	for _, s := range segments {
		out[s.DocType]++
	}
	return out
}

func limitationsFromCapabilities(caps []Capability) []string {
	var out []string
	for _, c := range caps {
		if !c.Available {
			out = append(out, fmt.Sprintf("capability %q unavailable; affected routes downgrade to fast-parse", c.Name))
		}
	}
	return out
}

// filesFromResume reloads the file list from the checkpoint's source,
// re-deriving it via a fresh sorted directory listing rather than trusting
// any previously persisted order, per SPEC_FULL.md 5's resume invariant.
func filesFromResume(checkpointPath string) ([]string, error) {
	var cp model.Checkpoint
	if err := jsonutil.ReadInto(checkpointPath, &cp); err != nil {
		return nil, fmt.Errorf("read resume checkpoint: %w", err)
	}
	files, err := intake.ListPDFs(cp.Source, true)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
