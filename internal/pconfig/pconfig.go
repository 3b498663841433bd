// Package pconfig holds the single configuration record for every pipeline
// threshold, so stage code never scatters magic numbers across files.
package pconfig

import "time"

// Config is the explicit, single source of truth for pipeline thresholds.
type Config struct {
	// Profiler (C3) tier cutoffs, highest first.
	TierThresholds [4]float64 // A>=, B>=, C>=, D>= (else F)

	// DegradedRatioPropagate is the fraction of non-empty pages that must
	// be degraded before the whole document is marked degraded.
	DegradedRatioPropagate float64

	// RepetitiveContentThreshold is the fraction of non-empty pages a
	// header/footer fingerprint must appear on to be stripped.
	RepetitiveContentThreshold float64
	HeaderLines                int
	FooterLines                int

	// Garbage-score signal gates (word_garbage_score thresholds).
	DegradedGarbageGate   float64
	RotationGarbageGate   float64
	RotationEarlyExit     float64
	GarbagePenaltyGate    float64
	GarbagePenaltyConf    float64

	// Extraction fallback.
	ExtractionFallbackConfidence float64
	OCRDPIStandard               int
	OCRDPIEnhanced               int

	// Classifier (C4).
	ClassifierHeadingLines int
	ClassifierTailLines    int
	SpecificityBonus       float64
	SecondaryTypeGate      float64

	// Segmenter (C6).
	SegmenterHeadingLines     int
	BlankPageMaxChars         int
	BoundaryWeightGate        float64
	ContinuationSuppressGate  float64
	ProfilerFallbackConfGate  float64

	// Reclassifier (C7).
	L2SuccessorBoost        float64
	L2ImpossibleInitiator   float64
	L2InitialBoost          float64
	L2ResponsePenalty       float64
	L2DuplicateInicialPen   float64
	L2PDFAgreementBoost     float64
	L2PDFAgreementLowConf   float64
	L2ReconsiderGate        float64

	// QC (C9).
	MinBodyChars            int
	ExtractConfidenceFlag   float64
	SegmentConfidenceFlag   float64

	// External-tool timeouts.
	FastParseTimeout time.Duration
	RasterTimeout    time.Duration
	OCRTimeout       time.Duration
	RotateTimeout    time.Duration

	PipelineVersion string
}

// DefaultConfig returns the pipeline's production threshold set, per
// SPEC_FULL.md section 9's explicit configuration record.
func DefaultConfig() Config {
	return Config{
		TierThresholds:             [4]float64{80, 60, 40, 20},
		DegradedRatioPropagate:     0.5,
		RepetitiveContentThreshold: 0.4,
		HeaderLines:                12,
		FooterLines:                8,

		DegradedGarbageGate: 0.15,
		RotationGarbageGate: 0.4,
		RotationEarlyExit:   0.2,
		GarbagePenaltyGate:  0.3,
		GarbagePenaltyConf:  0.4,

		ExtractionFallbackConfidence: 0.6,
		OCRDPIStandard:               300,
		OCRDPIEnhanced:               400,

		ClassifierHeadingLines: 5,
		ClassifierTailLines:    3,
		SpecificityBonus:       0.05,
		SecondaryTypeGate:      0.80,

		SegmenterHeadingLines:    3,
		BlankPageMaxChars:        30,
		BoundaryWeightGate:       0.7,
		ContinuationSuppressGate: 0.85,
		ProfilerFallbackConfGate: 0.20,

		L2SuccessorBoost:      0.15,
		L2ImpossibleInitiator: 0.20,
		L2InitialBoost:        0.10,
		L2ResponsePenalty:     0.15,
		L2DuplicateInicialPen: 0.25,
		L2PDFAgreementBoost:   0.05,
		L2PDFAgreementLowConf: 0.10,
		L2ReconsiderGate:      0.5,

		MinBodyChars:          50,
		ExtractConfidenceFlag: 0.7,
		SegmentConfidenceFlag: 0.6,

		FastParseTimeout: 15 * time.Second,
		RasterTimeout:    30 * time.Second,
		OCRTimeout:       60 * time.Second,
		RotateTimeout:    10 * time.Second,

		PipelineVersion: "1.0.0",
	}
}
