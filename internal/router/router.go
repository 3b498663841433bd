// Package router implements C5: mapping document- and page-level quality
// profiles onto an extraction route and its preprocessing add-ons.
package router

import (
	"time"

	"github.com/jusbr/pje-segmenter/internal/model"
)

// RouteDocument derives the document-level RouteDecision from a
// DocumentProfile, per SPEC_FULL.md 4.5.
func RouteDocument(file string, profile model.DocumentProfile) model.RouteDecision {
	var method model.RouteMethod
	var engine, rationale string
	var preprocessing []string

	switch {
	case profile.HasTextLayer && profile.ReadabilityScore >= 80:
		method, engine = model.RouteFastParse, "pdf-parse"
		rationale = "text layer present with high readability"
	case profile.HasTextLayer && profile.ReadabilityScore >= 60:
		method, engine = model.RouteFastParse, "pdf-parse"
		rationale = "text layer present with acceptable readability"
	case profile.ReadabilityScore >= 60:
		method, engine = model.RouteOCRStandard, "tesseract"
		rationale = "no reliable text layer, readability supports standard OCR"
		preprocessing = append(preprocessing, "deskew")
	case profile.ReadabilityScore >= 40:
		method, engine = model.RouteOCREnhanced, "tesseract"
		rationale = "degraded readability, enhanced OCR preprocessing required"
		preprocessing = append(preprocessing, "deskew", "denoise")
	case profile.ReadabilityScore >= 20:
		method, engine = model.RouteOCREnhanced, "tesseract"
		rationale = "poor readability, full preprocessing chain required"
		preprocessing = append(preprocessing, "deskew", "denoise", "contrast-enhance", "binarize")
	default:
		method = model.RouteManualReview
		rationale = "readability too low for automated extraction"
	}

	if profile.Orientation != "" && profile.Orientation != "normal" {
		preprocessing = appendUnique(preprocessing, "auto-rotate")
	}
	if profile.SkewDetected {
		preprocessing = appendUnique(preprocessing, "deskew")
	}

	return model.RouteDecision{
		File:             file,
		Method:           method,
		Engine:           engine,
		Preprocessing:    preprocessing,
		Rationale:        rationale,
		QualityTier:      profile.QualityTier,
		ReadabilityScore: profile.ReadabilityScore,
		RoutedAt:         nowUTC(),
	}
}

// RoutePage derives a per-page route from a PageProfile, per SPEC_FULL.md
// 4.5: empty -> skip; not degraded -> fast-parse; readability >= 40 ->
// ocr-standard; else ocr-enhanced.
func RoutePage(profile model.PageProfile) model.PageRoute {
	switch {
	case profile.Empty:
		return model.PageRoute{
			Page:     profile.PageNumber,
			Method:   model.PageRouteSkip,
			NeedsOCR: false,
			Reason:   "page has no extractable content",
		}
	case !profile.IsDegraded:
		return model.PageRoute{
			Page:     profile.PageNumber,
			Method:   model.RouteFastParse,
			NeedsOCR: false,
			Reason:   "fast-parse text is clean",
		}
	case profile.ReadabilityScore >= 40:
		return model.PageRoute{
			Page:     profile.PageNumber,
			Method:   model.RouteOCRStandard,
			NeedsOCR: true,
			Reason:   "degraded but readable enough for standard OCR",
		}
	default:
		return model.PageRoute{
			Page:     profile.PageNumber,
			Method:   model.RouteOCREnhanced,
			NeedsOCR: true,
			Reason:   "degraded and low readability, enhanced OCR required",
		}
	}
}

// RouteAllPages routes every page of a document profile in page order.
func RouteAllPages(profile model.DocumentProfile) []model.PageRoute {
	routes := make([]model.PageRoute, 0, len(profile.PageProfiles))
	for _, pp := range profile.PageProfiles {
		routes = append(routes, RoutePage(pp))
	}
	return routes
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

// nowUTC is isolated so tests can exercise RouteDocument deterministically
// without pinning the wall clock it stamps on RoutedAt.
var nowUTC = func() time.Time { return time.Now().UTC() }
