package qc

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jusbr/pje-segmenter/internal/jsonutil"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

func writeIndex(t *testing.T, dir string, files []map[string]interface{}) {
	t.Helper()
	idx := map[string]interface{}{"files": files}
	if err := jsonutil.WriteIndent(filepath.Join(dir, "index.json"), idx); err != nil {
		t.Fatalf("writeIndex: %v", err)
	}
}

func writeSegmentFile(t *testing.T, path, frontmatter, body string) {
	t.Helper()
	content := "---\n" + frontmatter + "---\n\n" + body
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeSegmentFile: %v", err)
	}
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(pconfig.DefaultConfig(), "")
	require.NoError(t, err, "NewValidator")
	return v
}

func completeFrontmatter(docType, segID, pages string, extConf, segConf float64) string {
	return "segment_id: " + segID + "\n" +
		"source_pdf: s.pdf\n" +
		"page_range: \"" + pages + "\"\n" +
		"segment_type: piece\n" +
		"doc_type: " + docType + "\n" +
		"extraction_method: fast-parse\n" +
		"pipeline_version: \"1.0.0\"\n" +
		fmt.Sprintf("extraction_confidence: %v\n", extConf) +
		fmt.Sprintf("segmentation_confidence: %v\n", segConf)
}

func TestValidateDocument_PassesCleanSentenca(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator(t)
	path := filepath.Join(dir, "001-piece-sentenca.md")
	writeSegmentFile(t, path, completeFrontmatter("sentenca", "seg-001", "1-2", 0.95, 0.9),
		"Vistos. Ante o exposto, julgo procedente o pedido formulado na petição inicial apresentada pela parte autora.")
	writeIndex(t, dir, []map[string]interface{}{
		{"file": "001-piece-sentenca.md", "file_path": path, "segment_id": "seg-001", "doc_type": "sentenca", "pages": "1-2", "confidence": 0.9},
	})

	report, err := v.ValidateDocument(dir, 2)
	require.NoError(t, err, "ValidateDocument")
	require.Equal(t, 1, report.Summary.Passed, "summary: %+v", report.Summary)
	require.Equal(t, 0, report.Summary.Rejected, "summary: %+v", report.Summary)
}

func TestValidateDocument_RejectsMissingFrontmatterField(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator(t)
	path := filepath.Join(dir, "001-piece-despacho.md")
	writeSegmentFile(t, path, "segment_id: seg-001\ndoc_type: despacho\n", "Despacho: intimem-se as partes para manifestação no prazo legal de dez dias úteis.")
	writeIndex(t, dir, []map[string]interface{}{
		{"file": "001-piece-despacho.md", "file_path": path, "segment_id": "seg-001", "doc_type": "despacho", "pages": "1-1", "confidence": 0.9},
	})

	report, err := v.ValidateDocument(dir, 1)
	require.NoError(t, err, "ValidateDocument")
	require.Equal(t, 1, report.Summary.Rejected, "expected 1 rejected for incomplete frontmatter, got %+v", report.Summary)
}

func TestValidateDocument_RejectsEmptyBody(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator(t)
	path := filepath.Join(dir, "001-piece-despacho.md")
	writeSegmentFile(t, path, completeFrontmatter("despacho", "seg-001", "1-1", 0.9, 0.9), "too short")
	writeIndex(t, dir, []map[string]interface{}{
		{"file": "001-piece-despacho.md", "file_path": path, "segment_id": "seg-001", "doc_type": "despacho", "pages": "1-1", "confidence": 0.9},
	})

	report, err := v.ValidateDocument(dir, 1)
	require.NoError(t, err, "ValidateDocument")
	require.Equal(t, 1, report.Summary.Rejected, "expected body<50 chars to reject, got %+v", report.Summary)
}

func TestValidateDocument_FlagsUnknownDocType(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator(t)
	path := filepath.Join(dir, "001-piece-unknown.md")
	writeSegmentFile(t, path, completeFrontmatter("unknown", "seg-001", "1-1", 0.9, 0.9), "Conteúdo qualquer suficientemente longo para passar o teste de corpo mínimo exigido.")
	writeIndex(t, dir, []map[string]interface{}{
		{"file": "001-piece-unknown.md", "file_path": path, "segment_id": "seg-001", "doc_type": "unknown", "pages": "1-1", "confidence": 0.9},
	})

	report, err := v.ValidateDocument(dir, 1)
	require.NoError(t, err, "ValidateDocument")
	require.Equal(t, 1, report.Summary.Flagged, "expected unknown doc_type to be flagged, got %+v", report.Summary)
}

func TestValidateDocument_RejectsOverlappingPages(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator(t)
	p1 := filepath.Join(dir, "001-piece-despacho.md")
	p2 := filepath.Join(dir, "002-piece-decisao.md")
	writeSegmentFile(t, p1, completeFrontmatter("despacho", "seg-001", "1-2", 0.9, 0.9), "Despacho determinando a intimação das partes para manifestação no prazo.")
	writeSegmentFile(t, p2, completeFrontmatter("decisao", "seg-002", "2-3", 0.9, 0.9), "Decisão interlocutória deferindo parcialmente o pedido formulado pela parte autora.")
	writeIndex(t, dir, []map[string]interface{}{
		{"file": "001-piece-despacho.md", "file_path": p1, "segment_id": "seg-001", "doc_type": "despacho", "pages": "1-2", "confidence": 0.9},
		{"file": "002-piece-decisao.md", "file_path": p2, "segment_id": "seg-002", "doc_type": "decisao", "pages": "2-3", "confidence": 0.9},
	})

	report, err := v.ValidateDocument(dir, 3)
	require.NoError(t, err, "ValidateDocument")
	require.NotZero(t, report.Summary.Rejected, "expected overlapping page 2 to trigger a rejection, got %+v", report.Summary)
}

func TestValidateDocument_ReportsMissingPageCoverage(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator(t)
	p1 := filepath.Join(dir, "001-piece-despacho.md")
	writeSegmentFile(t, p1, completeFrontmatter("despacho", "seg-001", "1-1", 0.9, 0.9), "Despacho determinando a intimação das partes para manifestação no prazo legal.")
	writeIndex(t, dir, []map[string]interface{}{
		{"file": "001-piece-despacho.md", "file_path": p1, "segment_id": "seg-001", "doc_type": "despacho", "pages": "1-1", "confidence": 0.9},
	})

	report, err := v.ValidateDocument(dir, 3)
	require.NoError(t, err, "ValidateDocument")
	require.Len(t, report.CoverageIssues, 2, "expected 2 missing-page coverage issues (pages 2,3), got %v", report.CoverageIssues)
}
