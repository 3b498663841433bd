package reclassify

import (
	"testing"

	"github.com/jusbr/pje-segmenter/internal/classify"
	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

func newTestClassifier(t *testing.T) *classify.Classifier {
	t.Helper()
	c, err := classify.LoadRules(pconfig.DefaultConfig(), "")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	return c
}

func TestReclassifySegments_ProbableSuccessorGetsBoosted(t *testing.T) {
	c := newTestClassifier(t)
	segments := []model.Segment{
		{SegmentID: "seg-001", Type: model.SegmentPiece, DocType: "sentenca", Confidence: 0.6},
		{SegmentID: "seg-002", Type: model.SegmentPiece, DocType: "apelacao", Confidence: 0.6},
	}
	texts := map[string]string{"seg-001": "sentença texto", "seg-002": "apelação texto"}
	out := ReclassifySegments(pconfig.DefaultConfig(), segments, c, func(s model.Segment) string { return texts[s.SegmentID] }, model.Classification{PrimaryType: "unknown"})

	if out[1].L2Boost <= 0 {
		t.Errorf("expected positive boost for probable successor apelacao after sentenca, got %v", out[1].L2Boost)
	}
}

func TestReclassifySegments_ImpossibleInitiatorPenalized(t *testing.T) {
	c := newTestClassifier(t)
	segments := []model.Segment{
		{SegmentID: "seg-001", Type: model.SegmentPiece, DocType: "sentenca", Confidence: 0.6},
		{SegmentID: "seg-002", Type: model.SegmentPiece, DocType: "peticao-inicial", Confidence: 0.6},
	}
	texts := map[string]string{"seg-001": "x", "seg-002": "y"}
	out := ReclassifySegments(pconfig.DefaultConfig(), segments, c, func(s model.Segment) string { return texts[s.SegmentID] }, model.Classification{PrimaryType: "unknown"})

	if out[1].L2Boost >= 0 {
		t.Errorf("expected negative boost for initiator type after non-neutral predecessor, got %v", out[1].L2Boost)
	}
}

func TestReclassifySegments_DuplicateInicialPenalized(t *testing.T) {
	c := newTestClassifier(t)
	segments := []model.Segment{
		{SegmentID: "seg-001", Type: model.SegmentPiece, DocType: "inicial-eef", Confidence: 0.6},
		{SegmentID: "seg-002", Type: model.SegmentPiece, DocType: "despacho", Confidence: 0.6},
		{SegmentID: "seg-003", Type: model.SegmentPiece, DocType: "inicial-eef", Confidence: 0.6},
	}
	texts := map[string]string{"seg-001": "a", "seg-002": "b", "seg-003": "c"}
	out := ReclassifySegments(pconfig.DefaultConfig(), segments, c, func(s model.Segment) string { return texts[s.SegmentID] }, model.Classification{PrimaryType: "unknown"})

	found := false
	for _, r := range out[2].L2Reasons {
		if r == "duplicate inicial-* within document" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duplicate inicial-* penalty reason on third segment, got %v", out[2].L2Reasons)
	}
}

func TestReclassifySegments_PromotesExecFiscalToEEFOnPDFContext(t *testing.T) {
	c := newTestClassifier(t)
	segments := []model.Segment{
		{SegmentID: "seg-001", Type: model.SegmentPiece, DocType: "inicial-execfiscal", Confidence: 0.6},
	}
	texts := map[string]string{"seg-001": "x"}
	out := ReclassifySegments(pconfig.DefaultConfig(), segments, c, func(s model.Segment) string { return texts[s.SegmentID] }, model.Classification{PrimaryType: "inicial-eef", Confidence: 0.9})

	if out[0].DocType != "inicial-eef" {
		t.Errorf("expected promotion to inicial-eef, got %q", out[0].DocType)
	}
}

func TestReclassifySegments_SeparatorSegmentsSkipped(t *testing.T) {
	c := newTestClassifier(t)
	segments := []model.Segment{
		{SegmentID: "seg-001", Type: model.SegmentSeparator, DocType: "unknown"},
	}
	out := ReclassifySegments(pconfig.DefaultConfig(), segments, c, func(s model.Segment) string { return "" }, model.Classification{})
	if out[0].CascadeLevel != 0 {
		t.Errorf("expected separator segment to be left untouched, got cascade_level=%d", out[0].CascadeLevel)
	}
}
