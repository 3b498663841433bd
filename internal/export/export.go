// Package export implements C8: Markdown body assembly with YAML
// frontmatter, and the per-document index.json manifest.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jusbr/pje-segmenter/internal/jsonutil"
	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

// Frontmatter is the YAML header of every exported Markdown file.
type Frontmatter struct {
	SegmentID               string  `yaml:"segment_id"`
	SourcePDF               string  `yaml:"source_pdf"`
	SourcePDFPath           string  `yaml:"source_pdf_path"`
	PageRange               string  `yaml:"page_range"`
	TotalPages              int     `yaml:"total_pages"`
	SegmentType             string  `yaml:"segment_type"`
	DocType                 string  `yaml:"doc_type"`
	SegmentationConfidence  float64 `yaml:"segmentation_confidence"`
	ExtractionMethod        string  `yaml:"extraction_method"`
	ExtractionConfidence    float64 `yaml:"extraction_confidence"`
	FallbackTriggered       bool    `yaml:"fallback_triggered,omitempty"`
	GeneratedAt             string  `yaml:"generated_at"`
	PipelineVersion         string  `yaml:"pipeline_version"`
}

// MarshalYAML renders every string field as a double-quoted scalar, per
// the frontmatter wire format, instead of yaml.v3's default plain style.
func (fm Frontmatter) MarshalYAML() (interface{}, error) {
	str := func(v string) yaml.Node {
		return yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v, Style: yaml.DoubleQuotedStyle}
	}
	plain := func(v string) yaml.Node {
		return yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	}

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, value yaml.Node) {
		k := str(key)
		k.Style = 0
		node.Content = append(node.Content, &k, &value)
	}

	add("segment_id", str(fm.SegmentID))
	add("source_pdf", str(fm.SourcePDF))
	add("source_pdf_path", str(fm.SourcePDFPath))
	add("page_range", str(fm.PageRange))
	add("total_pages", plain(fmt.Sprintf("%d", fm.TotalPages)))
	add("segment_type", str(fm.SegmentType))
	add("doc_type", str(fm.DocType))
	add("segmentation_confidence", plain(fmt.Sprintf("%v", fm.SegmentationConfidence)))
	add("extraction_method", str(fm.ExtractionMethod))
	add("extraction_confidence", plain(fmt.Sprintf("%v", fm.ExtractionConfidence)))
	if fm.FallbackTriggered {
		add("fallback_triggered", plain("true"))
	}
	add("generated_at", str(fm.GeneratedAt))
	add("pipeline_version", str(fm.PipelineVersion))

	return node, nil
}

// IndexEntry is one row of index.json.
type IndexEntry struct {
	File       string  `json:"file"`
	FilePath   string  `json:"file_path"`
	SegmentID  string  `json:"segment_id"`
	DocType    string  `json:"doc_type"`
	Pages      string  `json:"pages"`
	Confidence float64 `json:"confidence"`
}

// Index is the full index.json document.
type Index struct {
	SourcePDF   string       `json:"source_pdf"`
	TotalPages  int          `json:"total_pages"`
	TotalFiles  int          `json:"total_files"`
	GeneratedAt string       `json:"generated_at"`
	Files       []IndexEntry `json:"files"`
}

// Exporter writes Markdown segment files and the index.json manifest.
type Exporter struct {
	cfg pconfig.Config
}

// New constructs an Exporter bound to cfg.
func New(cfg pconfig.Config) *Exporter {
	return &Exporter{cfg: cfg}
}

// segmentFilename builds the deterministic {NNN}-{type}-{doc_type}.md name.
func segmentFilename(ordinal int, segType model.SegmentType, docType string) string {
	return fmt.Sprintf("%03d-%s-%s.md", ordinal, segType, docType)
}

// renderBody concatenates the segment's pages in page order, separating
// them with a horizontal rule and an HTML page-break comment; empty pages
// become a standalone comment.
func renderBody(pages []model.Page, seg model.Segment) string {
	var b strings.Builder
	first := true
	for _, p := range pages {
		if p.PageNumber < seg.PageStart || p.PageNumber > seg.PageEnd {
			continue
		}
		if !first {
			b.WriteString("\n\n---\n\n")
		}
		first = false
		b.WriteString(fmt.Sprintf("<!-- page: p.%d -->\n\n", p.PageNumber))
		if p.Empty {
			b.WriteString(fmt.Sprintf("<!-- page: p.%d (empty) -->", p.PageNumber))
			continue
		}
		b.WriteString(strings.TrimSpace(p.Text))
	}
	return b.String()
}

// ExportSegment writes a single segment's Markdown file and returns the
// IndexEntry describing it. nowFn is injected so callers control the
// generated_at stamp deterministically.
func (e *Exporter) ExportSegment(dir string, ordinal int, seg model.Segment, pages []model.Page, sourcePDF, sourcePDFPath string, extraction model.ExtractedDocument, nowFn func() time.Time) (IndexEntry, error) {
	name := segmentFilename(ordinal, seg.Type, seg.DocType)
	path := filepath.Join(dir, name)

	pageRange := "manual-review"
	if seg.PageStart > 0 && seg.PageEnd >= seg.PageStart {
		pageRange = fmt.Sprintf("%d-%d", seg.PageStart, seg.PageEnd)
	}

	fm := Frontmatter{
		SegmentID:              seg.SegmentID,
		SourcePDF:              sourcePDF,
		SourcePDFPath:          sourcePDFPath,
		PageRange:              pageRange,
		TotalPages:             seg.PageEnd - seg.PageStart + 1,
		SegmentType:            string(seg.Type),
		DocType:                seg.DocType,
		SegmentationConfidence: seg.Confidence,
		ExtractionMethod:       extraction.Method,
		ExtractionConfidence:   extraction.OverallConfidence,
		FallbackTriggered:      extraction.FallbackTriggered,
		GeneratedAt:            nowFn().UTC().Format(time.RFC3339),
		PipelineVersion:        e.cfg.PipelineVersion,
	}

	body := renderBody(pages, seg)
	if pageRange == "manual-review" {
		body = "<!-- manual review required: no page range resolved for this segment -->"
	}

	if err := writeMarkdownWithFrontmatter(path, fm, body); err != nil {
		return IndexEntry{}, fmt.Errorf("export segment %s: %w", seg.SegmentID, err)
	}

	return IndexEntry{
		File:       name,
		FilePath:   path,
		SegmentID:  seg.SegmentID,
		DocType:    seg.DocType,
		Pages:      pageRange,
		Confidence: seg.Confidence,
	}, nil
}

// ExportDocument exports every segment of a document in order and writes
// index.json alongside them.
func (e *Exporter) ExportDocument(dir string, segments []model.Segment, pages []model.Page, sourcePDF, sourcePDFPath string, extraction model.ExtractedDocument, nowFn func() time.Time) (Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Index{}, fmt.Errorf("create export dir %s: %w", dir, err)
	}

	idx := Index{
		SourcePDF:   sourcePDF,
		TotalPages:  len(pages),
		GeneratedAt: nowFn().UTC().Format(time.RFC3339),
	}

	for i, seg := range segments {
		if seg.Type == model.SegmentSeparator {
			continue
		}
		entry, err := e.ExportSegment(dir, i+1, seg, pages, sourcePDF, sourcePDFPath, extraction, nowFn)
		if err != nil {
			return Index{}, err
		}
		idx.Files = append(idx.Files, entry)
	}
	idx.TotalFiles = len(idx.Files)

	indexPath := filepath.Join(dir, "index.json")
	if err := jsonutil.WriteIndent(indexPath, idx); err != nil {
		return Index{}, fmt.Errorf("write index.json: %w", err)
	}

	return idx, nil
}

// writeMarkdownWithFrontmatter writes a "---\n<yaml>\n---\n\n<body>\n" file.
func writeMarkdownWithFrontmatter(path string, fm Frontmatter, body string) error {
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("marshal frontmatter: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create markdown file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close markdown file %s: %v\n", path, cerr)
		}
	}()

	writer := bufio.NewWriter(file)
	defer func() {
		if ferr := writer.Flush(); ferr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush markdown writer for %s: %v\n", path, ferr)
		}
	}()

	writer.WriteString("---\n")
	writer.Write(yamlBytes)
	writer.WriteString("---\n\n")

	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.TrimRight(normalized, "\n")
	writer.WriteString(normalized)
	writer.WriteString("\n")

	return nil
}
