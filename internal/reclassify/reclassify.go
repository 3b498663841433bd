// Package reclassify implements C7: the per-segment level-1 re-pass and the
// level-2 positional/contextual transition booster.
package reclassify

import (
	"strings"

	"github.com/jusbr/pje-segmenter/internal/classify"
	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

// initiatorTypes open a new proceeding phase rather than respond to one.
var initiatorTypes = map[string]bool{
	"peticao-inicial": true, "inicial-eef": true, "inicial-execfiscal": true,
	"inicial-embargos": true,
}

// responseTypes reply to a prior piece.
var responseTypes = map[string]bool{
	"impugnacao": true, "contestacao": true, "contrarrazoes": true,
	"contrarrazoes-especial": true, "contrarrazoes-extraordinario": true,
}

// transitions maps a predecessor doc_type to its set of probable
// successors, per SPEC_FULL.md 4.7.
var transitions = map[string][]string{
	"sentenca":       {"edcl", "apelacao", "sentenca-edcl", "certidao-publicacao"},
	"acordao":        {"embargos-infringentes", "recurso-especial", "recurso-extraordinario", "certidao-transito-julgado"},
	"peticao-inicial": {"despacho", "citacao", "mandado"},
	"contestacao":    {"replica", "impugnacao", "despacho"},
	"apelacao":       {"contrarrazoes", "despacho"},
}

// ReclassifySegments runs the L1 per-segment pass then the L2 positional
// pass over segments in page order, per SPEC_FULL.md 4.7.
func ReclassifySegments(cfg pconfig.Config, segments []model.Segment, classifier *classify.Classifier, segmentText func(model.Segment) string, docClassification model.Classification) []model.Segment {
	out := make([]model.Segment, len(segments))
	copy(out, segments)

	for i := range out {
		if out[i].Type == model.SegmentSeparator {
			continue
		}
		l1PerSegment(&out[i], classifier, segmentText(out[i]))
	}

	inicialSeen := false
	var prevType string
	for i := range out {
		if out[i].Type == model.SegmentSeparator {
			continue
		}
		l2Positional(cfg, &out[i], prevType, i == 0, docClassification, &inicialSeen)
		prevType = out[i].DocType
	}

	return out
}

// l1PerSegment re-runs the level-1 classifier on a segment's own text,
// overriding doc_type only when the new primary type is known and
// confident enough.
func l1PerSegment(seg *model.Segment, classifier *classify.Classifier, text string) {
	result := classifier.Classify(text)
	if result.PrimaryType != "unknown" && result.Confidence >= 0.30 {
		seg.DocType = result.PrimaryType
		seg.ClassificationConfidence = result.Confidence
		seg.ClassificationIndicators = result.Indicators
		seg.ClassificationSource = model.SourcePerSegmentL1
		seg.Confidence = result.Confidence
	}
}

// l2Positional applies the positional/contextual transition-table boosts.
func l2Positional(cfg pconfig.Config, seg *model.Segment, prevType string, isFirst bool, doc model.Classification, inicialSeen *bool) {
	if seg.DocType == "" || seg.DocType == "unknown" {
		return
	}

	original := seg.Confidence
	boosted := original
	var reasons []string

	if prevType != "" {
		if isProbableSuccessor(prevType, seg.DocType) {
			boosted += cfg.L2SuccessorBoost
			reasons = append(reasons, "probable successor of "+prevType)
		} else if initiatorTypes[seg.DocType] && prevType != "" {
			boosted -= cfg.L2ImpossibleInitiator
			reasons = append(reasons, "impossible initiator after "+prevType)
		}
	}

	if isFirst {
		if initiatorTypes[seg.DocType] {
			boosted += cfg.L2InitialBoost
			reasons = append(reasons, "initiator type at document start")
		} else if responseTypes[seg.DocType] {
			boosted -= cfg.L2ResponsePenalty
			reasons = append(reasons, "response type at document start")
		}
	}

	if strings.HasPrefix(seg.DocType, "inicial-") {
		if *inicialSeen {
			boosted -= cfg.L2DuplicateInicialPen
			reasons = append(reasons, "duplicate inicial-* within document")
		}
		*inicialSeen = true
	}

	if doc.PrimaryType == "inicial-eef" && seg.DocType == "inicial-execfiscal" {
		seg.DocType = "inicial-eef"
		reasons = append(reasons, "promoted to inicial-eef per PDF-level context")
	}
	if doc.PrimaryType == "inicial-eef" && seg.DocType == "inicial-eef" {
		boosted += cfg.L2PDFAgreementBoost
		reasons = append(reasons, "agrees with PDF classification inicial-eef")
	}
	if doc.PrimaryType == seg.DocType && doc.Confidence < cfg.SecondaryTypeGate {
		boosted += cfg.L2PDFAgreementLowConf
		reasons = append(reasons, "agrees with uncertain PDF classification")
	}

	if boosted > 1 {
		boosted = 1
	}
	if boosted < 0 {
		boosted = 0
	}

	if boosted < cfg.L2ReconsiderGate && boosted < original && seg.ClassificationConfidence > 0 {
		// fall through: caller may want the secondary type instead, but
		// Segment carries no secondary field post-L1, so the lower boosted
		// primary stands; L2 metadata still records the attempt.
	}

	seg.L2PreviousType = prevType
	seg.L2Boost = boosted - original
	seg.L2Reasons = reasons
	seg.CascadeLevel = 2
	seg.Confidence = boosted
}

func isProbableSuccessor(prevType, candidate string) bool {
	for _, t := range transitions[prevType] {
		if t == candidate {
			return true
		}
	}
	return false
}
