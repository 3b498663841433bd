// Package segment implements C6: heading-only boundary detection, blank-page
// grouping, paragraph-continuation suppression, and segment type inference.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

// marker is one boundary-detection rule.
type marker struct {
	name    string
	weight  float64
	pattern *regexp.Regexp
	docType string
}

// markers is the fixed ten-rule boundary table, ordered by the rule-to-type
// table used for segment type inference, per SPEC_FULL.md 4.6.
var markers = []marker{
	{"court-header", 0.75, regexp.MustCompile(`(?i)poder judici[aá]rio|tribunal de justi[cç]a|justi[cç]a federal`), "unknown"},
	{"petition-opening-full", 0.85, regexp.MustCompile(`(?i)excelent[ií]ssimo senhor doutor juiz`), "peticao-inicial"},
	{"petition-opening-abbrev", 0.80, regexp.MustCompile(`(?i)exmo\.?\s*sr\.?\s*dr\.?\s*juiz`), "peticao-inicial"},
	{"sentenca", 0.90, regexp.MustCompile(`(?i)^\s*senten[cç]a\b`), "sentenca"},
	{"acordao", 0.90, regexp.MustCompile(`(?i)^\s*ac[oó]rd[aã]o\b`), "acordao"},
	{"certidao", 0.80, regexp.MustCompile(`(?i)^\s*certid[aã]o\b.*certifico`), "certidao"},
	{"attachment-label", 0.70, regexp.MustCompile(`(?i)^\s*(anexo|documento anexo)\b`), "anexo-diverso"},
	{"cnj-process-number", 0.65, regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`), "unknown"},
	{"despacho", 0.75, regexp.MustCompile(`(?i)^\s*despacho\b`), "despacho"},
	{"decisao", 0.75, regexp.MustCompile(`(?i)^\s*decis[aã]o\s*(interlocut[oó]ria)?\b`), "decisao"},
	{"oficio", 0.75, regexp.MustCompile(`(?i)^\s*of[ií]cio\s*n[º°o]`), "oficio"},
}

var blankMarker = "blank-page"

var numberedParagraph = regexp.MustCompile(`^\d{1,3}[.)\-]\s`)

// Segmenter runs boundary detection over per-page extracted text.
type Segmenter struct {
	cfg pconfig.Config
}

// New constructs a Segmenter bound to cfg.
func New(cfg pconfig.Config) *Segmenter {
	return &Segmenter{cfg: cfg}
}

func meaningfulLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func heading(text string, n int) string {
	lines := meaningfulLines(text)
	if n > len(lines) {
		n = len(lines)
	}
	return strings.Join(lines[:n], "\n")
}

type pageMarkers struct {
	hit     []marker
	isBlank bool
}

func (s *Segmenter) detectPage(text string) pageMarkers {
	if len(strings.TrimSpace(text)) < s.cfg.BlankPageMaxChars {
		return pageMarkers{isBlank: true}
	}
	h := heading(text, s.cfg.SegmenterHeadingLines)
	var hits []marker
	for _, m := range markers {
		if m.pattern.MatchString(h) {
			hits = append(hits, m)
		}
	}
	return pageMarkers{hit: hits}
}

// hasNewPieceMarker reports whether any hit marker clears the boundary
// weight gate (blank-page itself never counts as a boundary).
func hasNewPieceMarker(pm pageMarkers, gate float64) (bool, marker) {
	var best marker
	found := false
	for _, m := range pm.hit {
		if m.weight >= gate && (!found || m.weight > best.weight) {
			best = m
			found = true
		}
	}
	return found, best
}

// endsWithNumberedParagraph reports the paragraph number K if the last 20
// non-trivial lines of text end with a numbered-paragraph opener "K.".
func endsWithNumberedParagraph(text string) (int, bool) {
	lines := meaningfulLines(text)
	start := len(lines) - 20
	if start < 0 {
		start = 0
	}
	for i := len(lines) - 1; i >= start; i-- {
		if m := numberedParagraph.FindString(lines[i]); m != "" {
			var k int
			fmt.Sscanf(m, "%d", &k)
			return k, true
		}
	}
	return 0, false
}

// startsWithNumberedParagraph reports the paragraph number K if the first 5
// non-trivial lines of text begin with a numbered-paragraph opener.
func startsWithNumberedParagraph(text string) (int, bool) {
	lines := meaningfulLines(text)
	n := 5
	if n > len(lines) {
		n = len(lines)
	}
	for i := 0; i < n; i++ {
		if m := numberedParagraph.FindString(lines[i]); m != "" {
			var k int
			fmt.Sscanf(m, "%d", &k)
			return k, true
		}
	}
	return 0, false
}

// Segment runs boundary detection across a whole document's cleaned pages
// (post-repetitive-content-stripping) and returns the resulting segments in
// page order, per SPEC_FULL.md 4.6.
func (s *Segmenter) Segment(pages []model.Page, docClassification model.Classification) []model.Segment {
	if len(pages) == 0 {
		return nil
	}

	var segments []model.Segment
	var cur *model.Segment
	var curMarkers []string

	flush := func() {
		if cur != nil {
			cur.BoundaryMarkers = curMarkers
			segments = append(segments, *cur)
		}
		cur = nil
		curMarkers = nil
	}

	for i, page := range pages {
		pm := s.detectPage(page.Text)

		if pm.isBlank {
			if cur != nil {
				cur.PageEnd = page.PageNumber
			} else {
				cur = &model.Segment{
					Type:      model.SegmentPiece,
					DocType:   "unknown",
					PageStart: page.PageNumber,
					PageEnd:   page.PageNumber,
				}
				curMarkers = []string{blankMarker}
			}
			continue
		}

		isNewPiece, best := hasNewPieceMarker(pm, s.cfg.BoundaryWeightGate)

		if isNewPiece && i > 0 && best.weight < s.cfg.ContinuationSuppressGate {
			if k, ok := endsWithNumberedParagraph(pages[i-1].Text); ok {
				if k2, ok2 := startsWithNumberedParagraph(page.Text); ok2 && k2 == k+1 {
					isNewPiece = false
				}
			}
		}

		switch {
		case cur == nil:
			cur = &model.Segment{
				Type:      model.SegmentPiece,
				DocType:   best.docType,
				PageStart: page.PageNumber,
				PageEnd:   page.PageNumber,
			}
			curMarkers = markerNames(pm.hit)
		case isNewPiece:
			flush()
			cur = &model.Segment{
				Type:      model.SegmentPiece,
				DocType:   best.docType,
				PageStart: page.PageNumber,
				PageEnd:   page.PageNumber,
			}
			curMarkers = markerNames(pm.hit)
		default:
			cur.PageEnd = page.PageNumber
		}
	}
	flush()

	for idx := range segments {
		inferType(&segments[idx], docClassification, s.cfg)
		segments[idx].SegmentID = fmt.Sprintf("seg-%03d", idx+1)
	}

	return segments
}

func markerNames(hits []marker) []string {
	var names []string
	for _, h := range hits {
		names = append(names, h.name)
	}
	return names
}

// inferType sets DocType from the highest-weight marker used to open the
// segment, falling back to the document-level classification when the
// segment's own markers were inconclusive, per SPEC_FULL.md 4.6.
func inferType(seg *model.Segment, docClassification model.Classification, cfg pconfig.Config) {
	if seg.DocType != "" && seg.DocType != "unknown" {
		seg.ClassificationSource = model.SourceBoundaryRules
		return
	}
	if docClassification.Confidence >= cfg.ProfilerFallbackConfGate && docClassification.PrimaryType != "unknown" {
		seg.DocType = docClassification.PrimaryType
		seg.ClassificationSource = model.SourceProfilerFallback
		return
	}
	seg.DocType = "unknown"
	seg.ClassificationSource = model.SourceBoundaryRules
}

// ValidateCoverage checks that every page 1..pageCount lies in exactly one
// segment's range, returning warnings for orphaned pages.
func ValidateCoverage(segments []model.Segment, pageCount int) []string {
	covered := make(map[int]bool, pageCount)
	for _, seg := range segments {
		for p := seg.PageStart; p <= seg.PageEnd; p++ {
			covered[p] = true
		}
	}
	var warnings []string
	for p := 1; p <= pageCount; p++ {
		if !covered[p] {
			warnings = append(warnings, fmt.Sprintf("page %d is not covered by any segment", p))
		}
	}
	return warnings
}
