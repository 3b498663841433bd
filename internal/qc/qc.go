// Package qc implements C9: post-export validation of a document's
// Markdown segments against index.json — metadata completeness, empty
// content, mislabel rules, filename/classification cross-checks, and page
// coverage.
package qc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jusbr/pje-segmenter/internal/jsonutil"
	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

// Status is the per-file QC verdict.
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFlagged  Status = "flagged"
	StatusRejected Status = "rejected"
)

// FileResult is the QC verdict for one exported Markdown file.
type FileResult struct {
	File     string   `json:"file"`
	Status   Status   `json:"status"`
	Rejects  []string `json:"rejects,omitempty"`
	Flags    []string `json:"flags,omitempty"`
}

// Report is the full per-document QC output.
type Report struct {
	Files           []FileResult    `json:"files"`
	CoverageIssues  []string        `json:"coverage_issues,omitempty"`
	Summary         model.QCSummary `json:"summary"`
}

var requiredFrontmatterFields = []string{
	"segment_id", "source_pdf", "page_range", "segment_type",
	"doc_type", "extraction_method", "pipeline_version",
}

// mislabelRule requires at least one of Patterns to match the body for a
// given doc_type.
type mislabelRule struct {
	DocType  string   `yaml:"doc_type"`
	Patterns []string `yaml:"required_patterns"`
}

type mislabelFile struct {
	Rules []mislabelRule `yaml:"rules"`
}

// filenameKeywordMap maps a filename token to the doc_type it implies, for
// the filename-vs-classification cross-check.
var filenameKeywordMap = map[string]string{
	"sentenca":   "sentenca",
	"acordao":    "acordao",
	"despacho":   "despacho",
	"peticao":    "peticao-inicial",
	"certidao":   "certidao",
	"contestacao": "contestacao",
	"oficio":     "oficio",
	"mandado":    "mandado",
}

// Validator runs C9 over an exported document directory.
type Validator struct {
	cfg   pconfig.Config
	rules []compiledMislabelRule
}

type compiledMislabelRule struct {
	docType  string
	patterns []*regexp.Regexp
}

// NewValidator loads the mislabel rule table from path, falling back to the
// compiled-in default when path is empty or unreadable.
func NewValidator(cfg pconfig.Config, path string) (*Validator, error) {
	var mf mislabelFile
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if yaml.Unmarshal(data, &mf) == nil && len(mf.Rules) > 0 {
				return compileValidator(cfg, mf)
			}
		}
	}
	return compileValidator(cfg, defaultMislabelRules())
}

func compileValidator(cfg pconfig.Config, mf mislabelFile) (*Validator, error) {
	v := &Validator{cfg: cfg}
	for _, r := range mf.Rules {
		cr := compiledMislabelRule{docType: r.DocType}
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile mislabel pattern %q for %q: %w", p, r.DocType, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		v.rules = append(v.rules, cr)
	}
	return v, nil
}

// ValidateDocument reads index.json in dir, opens every listed file, and
// applies the seven QC checks from SPEC_FULL.md 4.9.
func (v *Validator) ValidateDocument(dir string, totalPages int) (Report, error) {
	indexPath := filepath.Join(dir, "index.json")
	var idx struct {
		Files []struct {
			File       string  `json:"file"`
			FilePath   string  `json:"file_path"`
			SegmentID  string  `json:"segment_id"`
			DocType    string  `json:"doc_type"`
			Pages      string  `json:"pages"`
			Confidence float64 `json:"confidence"`
		} `json:"files"`
	}
	if err := jsonutil.ReadInto(indexPath, &idx); err != nil {
		return Report{}, fmt.Errorf("read index.json: %w", err)
	}

	var report Report
	covered := make(map[int]bool)
	var rangesSeen [][2]int

	for _, entry := range idx.Files {
		result := FileResult{File: entry.File, Status: StatusPassed}

		data, err := os.ReadFile(entry.FilePath)
		if err != nil {
			result.Status = StatusRejected
			result.Rejects = append(result.Rejects, "file unreadable: "+err.Error())
			report.Files = append(report.Files, result)
			report.Summary.Rejected++
			continue
		}

		fm, body := splitFrontmatter(string(data))
		v.checkMetadataCompleteness(fm, &result)
		v.checkEmptyContent(body, &result)
		v.checkMislabel(entry.DocType, body, &result)
		v.checkFilenameVsClassification(entry.File, entry.DocType, &result)
		v.checkUnknownType(entry.DocType, &result)
		v.checkLowConfidence(fm, &result)

		if start, end, ok := parsePageRange(entry.Pages); ok {
			for p := start; p <= end; p++ {
				if covered[p] {
					result.Rejects = append(result.Rejects, fmt.Sprintf("page %d overlaps another segment", p))
				}
				covered[p] = true
			}
			rangesSeen = append(rangesSeen, [2]int{start, end})
		}

		if len(result.Rejects) > 0 {
			result.Status = StatusRejected
			report.Summary.Rejected++
			if hasMislabelFlag(result.Rejects) {
				report.Summary.MislabelsCaught++
			}
		} else if len(result.Flags) > 0 {
			result.Status = StatusFlagged
			report.Summary.Flagged++
		} else {
			report.Summary.Passed++
		}

		report.Files = append(report.Files, result)
	}

	for p := 1; p <= totalPages; p++ {
		if !covered[p] {
			report.CoverageIssues = append(report.CoverageIssues, fmt.Sprintf("page %d missing from any exported segment", p))
		}
	}

	return report, nil
}

func hasMislabelFlag(flags []string) bool {
	for _, f := range flags {
		if strings.Contains(f, "mislabel") {
			return true
		}
	}
	return false
}

func parsePageRange(r string) (int, int, bool) {
	parts := strings.SplitN(r, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	var start, end int
	if _, err := fmt.Sscanf(parts[0], "%d", &start); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &end); err != nil {
		return 0, 0, false
	}
	return start, end, true
}

func splitFrontmatter(content string) (map[string]interface{}, string) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}
	rest := content[4:]
	idx := strings.Index(rest, "\n---\n")
	if idx == -1 {
		return nil, content
	}
	yamlPart := rest[:idx]
	body := rest[idx+len("\n---\n"):]
	var fm map[string]interface{}
	_ = yaml.Unmarshal([]byte(yamlPart), &fm)
	return fm, strings.TrimSpace(body)
}

func (v *Validator) checkMetadataCompleteness(fm map[string]interface{}, result *FileResult) {
	for _, field := range requiredFrontmatterFields {
		if _, ok := fm[field]; !ok {
			result.Rejects = append(result.Rejects, "missing required frontmatter field: "+field)
		}
	}
}

func (v *Validator) checkEmptyContent(body string, result *FileResult) {
	if len(body) < v.cfg.MinBodyChars {
		result.Rejects = append(result.Rejects, fmt.Sprintf("body shorter than %d characters", v.cfg.MinBodyChars))
	}
}

func (v *Validator) checkMislabel(docType, body string, result *FileResult) {
	for _, rule := range v.rules {
		if rule.docType != docType {
			continue
		}
		matched := false
		for _, re := range rule.patterns {
			if re.MatchString(body) {
				matched = true
				break
			}
		}
		if !matched {
			result.Rejects = append(result.Rejects, fmt.Sprintf("mislabel: doc_type %q requires a matching pattern not found in body", docType))
		}
		return
	}
}

func (v *Validator) checkFilenameVsClassification(filename, docType string, result *FileResult) {
	lower := strings.ToLower(filename)
	for token, expected := range filenameKeywordMap {
		if strings.Contains(lower, token) && docType != expected && docType != "unknown" {
			result.Flags = append(result.Flags, fmt.Sprintf("filename suggests %q but doc_type is %q", expected, docType))
		}
	}
}

func (v *Validator) checkUnknownType(docType string, result *FileResult) {
	if docType == "unknown" {
		result.Flags = append(result.Flags, "unknown doc_type")
	}
}

func (v *Validator) checkLowConfidence(fm map[string]interface{}, result *FileResult) {
	if fm == nil {
		return
	}
	if ec, ok := toFloat(fm["extraction_confidence"]); ok && ec < v.cfg.ExtractConfidenceFlag {
		result.Flags = append(result.Flags, "low extraction confidence")
	}
	if sc, ok := toFloat(fm["segmentation_confidence"]); ok && sc < v.cfg.SegmentConfidenceFlag {
		result.Flags = append(result.Flags, "low segmentation confidence")
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
