package pjreport

import (
	"path/filepath"
	"testing"

	"github.com/jusbr/pje-segmenter/internal/jsonutil"
	"github.com/jusbr/pje-segmenter/internal/model"
)

func TestWriteBatchReport_SummaryIsAdditiveAcrossReports(t *testing.T) {
	var batch model.BatchReport
	batch.AddReport(model.PipelineReport{SourceFile: "a.pdf", QC: model.QCSummary{Passed: 3, Flagged: 1}})
	batch.AddReport(model.PipelineReport{SourceFile: "b.pdf", QC: model.QCSummary{Passed: 2, Rejected: 1}})

	if batch.Summary.Passed != 5 {
		t.Errorf("expected additive Passed=5, got %d", batch.Summary.Passed)
	}
	if batch.Summary.Flagged != 1 || batch.Summary.Rejected != 1 {
		t.Errorf("unexpected summary: %+v", batch.Summary)
	}
	if batch.PDFCount != 2 {
		t.Errorf("expected PDFCount=2, got %d", batch.PDFCount)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "batch-report.json")
	if err := WriteBatchReport(batch, path); err != nil {
		t.Fatalf("WriteBatchReport: %v", err)
	}

	var reread model.BatchReport
	if err := jsonutil.ReadInto(path, &reread); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if reread.Summary.Passed != 5 {
		t.Errorf("expected round-tripped Passed=5, got %d", reread.Summary.Passed)
	}
}

func TestWritePipelineReport_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline-report.json")
	report := model.PipelineReport{SourceFile: "doc.pdf", PageCount: 10, SegmentCount: 4}
	if err := WritePipelineReport(report, path); err != nil {
		t.Fatalf("WritePipelineReport: %v", err)
	}

	var reread model.PipelineReport
	if err := jsonutil.ReadInto(path, &reread); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}
	if reread.SourceFile != "doc.pdf" || reread.SegmentCount != 4 {
		t.Errorf("unexpected round-tripped report: %+v", reread)
	}
}
