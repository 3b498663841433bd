package router

import (
	"testing"

	"github.com/jusbr/pje-segmenter/internal/model"
)

func TestRouteDocument_HighReadabilityTextLayerFastParses(t *testing.T) {
	p := model.DocumentProfile{HasTextLayer: true, ReadabilityScore: 85}
	got := RouteDocument("doc.pdf", p)
	if got.Method != model.RouteFastParse || got.Engine != "pdf-parse" {
		t.Errorf("expected fast-parse/pdf-parse, got %v/%v", got.Method, got.Engine)
	}
}

func TestRouteDocument_MidReadabilityNoTextLayerGetsStandardOCR(t *testing.T) {
	p := model.DocumentProfile{HasTextLayer: false, ReadabilityScore: 65}
	got := RouteDocument("doc.pdf", p)
	if got.Method != model.RouteOCRStandard {
		t.Errorf("expected ocr-standard, got %v", got.Method)
	}
	if len(got.Preprocessing) != 1 || got.Preprocessing[0] != "deskew" {
		t.Errorf("expected [deskew], got %v", got.Preprocessing)
	}
}

func TestRouteDocument_LowReadabilityGetsFullPreprocessingChain(t *testing.T) {
	p := model.DocumentProfile{ReadabilityScore: 25}
	got := RouteDocument("doc.pdf", p)
	if got.Method != model.RouteOCREnhanced {
		t.Errorf("expected ocr-enhanced, got %v", got.Method)
	}
	want := []string{"deskew", "denoise", "contrast-enhance", "binarize"}
	if len(got.Preprocessing) != len(want) {
		t.Fatalf("expected %v, got %v", want, got.Preprocessing)
	}
	for i, w := range want {
		if got.Preprocessing[i] != w {
			t.Errorf("preprocessing[%d] = %q, want %q", i, got.Preprocessing[i], w)
		}
	}
}

func TestRouteDocument_BelowFloorGoesManualReview(t *testing.T) {
	p := model.DocumentProfile{ReadabilityScore: 5}
	got := RouteDocument("doc.pdf", p)
	if got.Method != model.RouteManualReview {
		t.Errorf("expected manual-review, got %v", got.Method)
	}
}

func TestRouteDocument_RotationAndSkewAddFlagsWithoutDuplication(t *testing.T) {
	p := model.DocumentProfile{ReadabilityScore: 65, Orientation: "rotated-90", SkewDetected: true}
	got := RouteDocument("doc.pdf", p)
	count := 0
	for _, f := range got.Preprocessing {
		if f == "deskew" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected deskew to be deduplicated, got %v", got.Preprocessing)
	}
	found := false
	for _, f := range got.Preprocessing {
		if f == "auto-rotate" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected auto-rotate flag, got %v", got.Preprocessing)
	}
}

func TestRoutePage_EmptyPageSkips(t *testing.T) {
	got := RoutePage(model.PageProfile{PageNumber: 1, Empty: true})
	if got.Method != model.PageRouteSkip || got.NeedsOCR {
		t.Errorf("expected skip/no-ocr, got %+v", got)
	}
}

func TestRoutePage_NotDegradedFastParses(t *testing.T) {
	got := RoutePage(model.PageProfile{PageNumber: 1, IsDegraded: false})
	if got.Method != model.RouteFastParse {
		t.Errorf("expected fast-parse, got %v", got.Method)
	}
}

func TestRoutePage_DegradedAboveFortyGetsStandardOCR(t *testing.T) {
	got := RoutePage(model.PageProfile{PageNumber: 1, IsDegraded: true, ReadabilityScore: 45})
	if got.Method != model.RouteOCRStandard || !got.NeedsOCR {
		t.Errorf("expected ocr-standard/needs-ocr, got %+v", got)
	}
}

func TestRoutePage_DegradedBelowFortyGetsEnhancedOCR(t *testing.T) {
	got := RoutePage(model.PageProfile{PageNumber: 1, IsDegraded: true, ReadabilityScore: 30})
	if got.Method != model.RouteOCREnhanced || !got.NeedsOCR {
		t.Errorf("expected ocr-enhanced/needs-ocr, got %+v", got)
	}
}

func TestRouteAllPages_PreservesPageOrder(t *testing.T) {
	profile := model.DocumentProfile{PageProfiles: []model.PageProfile{
		{PageNumber: 1, Empty: true},
		{PageNumber: 2, IsDegraded: false},
		{PageNumber: 3, IsDegraded: true, ReadabilityScore: 50},
	}}
	routes := RouteAllPages(profile)
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}
	for i, r := range routes {
		if r.Page != i+1 {
			t.Errorf("routes[%d].Page = %d, want %d", i, r.Page, i+1)
		}
	}
}
