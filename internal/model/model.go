// Package model holds the data entities that flow between pipeline stages.
package model

import "time"

// SourceFile describes one registered input PDF.
type SourceFile struct {
	Name           string    `json:"name"`
	SourcePath     string    `json:"source_path"`
	Size           int64     `json:"size"`
	Modified       time.Time `json:"modified"`
	SHA256         string    `json:"sha256"`
	SHA256Prefix4K string    `json:"sha256_prefix_4k"`
	Timestamp      time.Time `json:"timestamp"`
}

// DuplicateFile records a file that was dropped because its full hash
// matched an already-registered SourceFile.
type DuplicateFile struct {
	Name         string `json:"name"`
	SHA256       string `json:"sha256"`
	OriginalPath string `json:"original_path"`
}

// IntakeError records a non-fatal failure to read one candidate file.
type IntakeError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// IntakeSummary is the manifest's counters block.
type IntakeSummary struct {
	TotalScanned int `json:"total_scanned"`
	Registered   int `json:"registered"`
	Duplicates   int `json:"duplicates"`
	Errors       int `json:"errors"`
}

// Manifest is the C1 Intake output: the deduplicated, deterministic-order
// registry of PDFs for one run.
type Manifest struct {
	GeneratedAt time.Time       `json:"generated_at"`
	SourcePath  string          `json:"source_path"`
	Files       []SourceFile    `json:"files"`
	Duplicates  []DuplicateFile `json:"duplicates"`
	Errors      []IntakeError   `json:"errors"`
	Summary     IntakeSummary   `json:"summary"`
}

// Page is one extracted page of text with its extraction provenance.
type Page struct {
	PageNumber       int     `json:"page_number"`
	Text             string  `json:"text"`
	Confidence       float64 `json:"confidence"`
	Empty            bool    `json:"empty"`
	Method           string  `json:"method"`
	RotationApplied  int     `json:"rotation_applied,omitempty"`
	WordGarbageScore float64 `json:"word_garbage_score,omitempty"`
	OCRReplaced      bool    `json:"ocr_replaced,omitempty"`
	OCRFallbackToFP  bool    `json:"ocr_fallback_to_fp,omitempty"`
}

// QualityTier buckets a readability score into a coarse grade.
type QualityTier string

const (
	TierA QualityTier = "A"
	TierB QualityTier = "B"
	TierC QualityTier = "C"
	TierD QualityTier = "D"
	TierF QualityTier = "F"
)

// NoiseLevel is the coarse per-page/document noise bucket.
type NoiseLevel string

const (
	NoiseLow    NoiseLevel = "low"
	NoiseMedium NoiseLevel = "medium"
	NoiseHigh   NoiseLevel = "high"
)

// PageProfile is the C3 Quality Profiler's per-page output.
type PageProfile struct {
	PageNumber       int         `json:"page_number"`
	ReadabilityScore float64     `json:"readability_score"`
	NoiseLevel       NoiseLevel  `json:"noise_level"`
	WordGarbageScore float64     `json:"word_garbage_score"`
	QualityTier      QualityTier `json:"quality_tier"`
	CharCount        int         `json:"char_count"`
	IsDegraded       bool        `json:"is_degraded"`
	Empty            bool        `json:"empty"`
	Propagated       bool        `json:"propagated,omitempty"`
}

// DocumentProfile is the C3 document-level aggregation over PageProfiles.
type DocumentProfile struct {
	ReadabilityScore float64       `json:"readability_score"`
	QualityTier      QualityTier   `json:"quality_tier"`
	NoiseLevel       NoiseLevel    `json:"noise_level"`
	DegradedPages    []int         `json:"degraded_pages"`
	DegradedCount    int           `json:"degraded_count"`
	CleanCount       int           `json:"clean_count"`
	IsMixedQuality   bool          `json:"is_mixed_quality"`
	HasTextLayer     bool          `json:"has_text_layer"`
	Orientation      string        `json:"orientation"`
	SkewDetected     bool          `json:"skew_detected"`
	PageProfiles     []PageProfile `json:"page_profiles"`
}

// Classification is the C4/C7 per-document or per-segment classifier
// output.
type Classification struct {
	PrimaryType         string   `json:"primary_type"`
	Confidence          float64  `json:"confidence"`
	Indicators          []string `json:"indicators"`
	SecondaryType       string   `json:"secondary_type,omitempty"`
	SecondaryConfidence float64  `json:"secondary_confidence,omitempty"`
	Disambiguation      string   `json:"disambiguation,omitempty"`
	Reclassified        bool     `json:"reclassified,omitempty"`
}

// RouteMethod is the document-level route decision.
type RouteMethod string

const (
	RouteFastParse     RouteMethod = "fast-parse"
	RouteOCRStandard   RouteMethod = "ocr-standard"
	RouteOCREnhanced   RouteMethod = "ocr-enhanced"
	RouteManualReview  RouteMethod = "manual-review"
	PageRouteSkip      RouteMethod = "skip"
)

// RouteDecision is the C5 document-level routing output.
type RouteDecision struct {
	File            string      `json:"file"`
	Method          RouteMethod `json:"method"`
	Engine          string      `json:"engine"`
	Preprocessing   []string    `json:"preprocessing"`
	Rationale       string      `json:"rationale"`
	QualityTier     QualityTier `json:"quality_tier"`
	ReadabilityScore float64    `json:"readability_score"`
	RoutedAt        time.Time   `json:"routed_at"`
}

// PageRoute is the C5 per-page routing output.
type PageRoute struct {
	Page     int         `json:"page"`
	Method   RouteMethod `json:"method"`
	NeedsOCR bool        `json:"needs_ocr"`
	Reason   string      `json:"reason"`
}

// ExtractedDocument is the C2 Text Extractor's hybrid output for one PDF.
type ExtractedDocument struct {
	Method            string           `json:"method"`
	Pages             []Page           `json:"pages"`
	OverallConfidence float64          `json:"overall_confidence"`
	FallbackTriggered bool             `json:"fallback_triggered"`
	OCRPages          []int            `json:"ocr_pages,omitempty"`
	OCRMethod         string           `json:"ocr_method,omitempty"`
	Classification    *Classification  `json:"classification,omitempty"`
}

// SegmentType is the coarse kind of a segment.
type SegmentType string

const (
	SegmentPiece      SegmentType = "piece"
	SegmentAttachment SegmentType = "attachment"
	SegmentExhibit    SegmentType = "exhibit"
	SegmentCover      SegmentType = "cover"
	SegmentSeparator  SegmentType = "separator"
)

// ClassificationSource records which stage most recently set a segment's
// doc_type.
type ClassificationSource string

const (
	SourceBoundaryRules     ClassificationSource = "boundary-rules"
	SourceProfilerFallback  ClassificationSource = "profiler-fallback"
	SourcePerSegmentL1      ClassificationSource = "per-segment-L1"
	SourcePerSegmentL2      ClassificationSource = "per-segment-L2"
)

// Segment is one page-range piece of a document.
type Segment struct {
	SegmentID               string               `json:"segment_id"`
	Type                     SegmentType          `json:"type"`
	DocType                  string               `json:"doc_type"`
	ClassificationSource     ClassificationSource `json:"classification_source"`
	PageStart                int                  `json:"page_start"`
	PageEnd                  int                  `json:"page_end"`
	Confidence               float64              `json:"confidence"`
	BoundaryMarkers          []string             `json:"boundary_markers"`
	ClassificationConfidence float64              `json:"classification_confidence,omitempty"`
	ClassificationIndicators []string             `json:"classification_indicators,omitempty"`
	L2PreviousType           string               `json:"l2_previous_type,omitempty"`
	L2Boost                  float64              `json:"l2_boost,omitempty"`
	L2Reasons                []string             `json:"l2_reasons,omitempty"`
	CascadeLevel             int                  `json:"cascade_level,omitempty"`
}

// StageResult is one entry in a Checkpoint's per-stage status map.
type StageResult struct {
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	OutputPath string `json:"output_path"`
}

// Checkpoint is the orchestrator's resumable run state.
type Checkpoint struct {
	PipelineVersion string                 `json:"pipeline_version"`
	Source          string                 `json:"source"`
	StartedAt       time.Time              `json:"started_at"`
	CurrentStage    int                    `json:"current_stage"`
	CompletedStages []int                  `json:"completed_stages"`
	StageResults    map[string]StageResult `json:"stage_results"`
	Checksum        string                 `json:"checksum"`
}

// QCSummary is the per-PDF QC counters block, also the unit BatchReport
// sums additively across every PDF.
type QCSummary struct {
	Passed          int `json:"passed"`
	Flagged         int `json:"flagged"`
	Rejected        int `json:"rejected"`
	MislabelsCaught int `json:"mislabels_caught"`
}

// Add accumulates another QCSummary's counters into this one.
func (s *QCSummary) Add(o QCSummary) {
	s.Passed += o.Passed
	s.Flagged += o.Flagged
	s.Rejected += o.Rejected
	s.MislabelsCaught += o.MislabelsCaught
}

// PipelineReport is the compact per-PDF record the orchestrator emits.
type PipelineReport struct {
	SourceFile         string         `json:"source_file"`
	PageCount          int            `json:"page_count"`
	IntakeDuplicate    bool           `json:"intake_duplicate"`
	ProfileQualityTier QualityTier    `json:"profile_quality_tier"`
	ProfileReadability float64        `json:"profile_readability"`
	RouteMethod        RouteMethod    `json:"route_method"`
	ExtractMethod      string         `json:"extract_method"`
	ExtractConfidence  float64        `json:"extract_confidence"`
	ExtractOCRPages    int            `json:"extract_ocr_pages"`
	SegmentCount       int            `json:"segment_count"`
	SegmentTypeCounts  map[string]int `json:"segment_type_counts"`
	ExportedFileCount  int            `json:"exported_file_count"`
	QC                 QCSummary      `json:"qc"`
	Limitations        []string       `json:"limitations"`
	ReviewNeeded       bool           `json:"review_needed"`
	ReviewReasons      []string       `json:"review_reasons"`
	DurationMs         int64          `json:"duration_ms"`
}

// BatchReport aggregates every PipelineReport in one batch run.
type BatchReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	SourcePath  string           `json:"source_path"`
	PDFCount    int              `json:"pdf_count"`
	Reports     []PipelineReport `json:"reports"`
	Summary     QCSummary        `json:"summary"`
}

// AddReport appends a PipelineReport and folds its QC counters into the
// running Summary — never "last wins".
func (b *BatchReport) AddReport(r PipelineReport) {
	b.Reports = append(b.Reports, r)
	b.PDFCount = len(b.Reports)
	b.Summary.Add(r.QC)
}
