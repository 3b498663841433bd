package profiler

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jusbr/pje-segmenter/internal/model"
)

var advogadosPattern = regexp.MustCompile(`(?i)advogad|abvoga|advdga`)

// invertedFooterSignatures are OCR-garble signatures of the PJe footer
// appearing upside-down at the top of a rotated page.
var invertedFooterSignatures = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ozıuoɹʇɔǝןǝ`),
	regexp.MustCompile(`(?i)opɐuıssɐ`),
	regexp.MustCompile(`(?i)[~\^]{3,}`),
}

// fingerprintLine normalizes a line for recurring-content matching:
// whitespace collapsed, alphanumeric only, lowercased.
func fingerprintLine(line string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(line) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
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

// StripRepetitiveContent removes recurring header/footer fingerprints, the
// ADVOGADOS block, the canonical PJe footer, and the inverted PJe footer
// signature, applied once across all pages of a document post-extraction,
// pre-segmentation, per SPEC_FULL.md 4.3.
func (p *Profiler) StripRepetitiveContent(pages []model.Page) []model.Page {
	out := make([]model.Page, len(pages))
	copy(out, pages)

	var nonEmpty []int
	for i, pg := range out {
		if !pg.Empty {
			nonEmpty = append(nonEmpty, i)
		}
	}
	if len(nonEmpty) == 0 {
		return out
	}

	fingerprintCount := make(map[string]int)
	pageFingerprints := make([][]string, len(out))

	for _, i := range nonEmpty {
		lines := meaningfulLines(out[i].Text)
		var fps []string
		for j := 0; j < p.cfg.HeaderLines && j < len(lines); j++ {
			fps = append(fps, fingerprintLine(lines[j]))
		}
		for j := len(lines) - p.cfg.FooterLines; j < len(lines); j++ {
			if j < 0 || j < p.cfg.HeaderLines {
				continue
			}
			fps = append(fps, fingerprintLine(lines[j]))
		}
		pageFingerprints[i] = fps
		seen := make(map[string]bool)
		for _, fp := range fps {
			if fp == "" || seen[fp] {
				continue
			}
			seen[fp] = true
			fingerprintCount[fp]++
		}
	}

	threshold := p.cfg.RepetitiveContentThreshold * float64(len(nonEmpty))
	recurring := make(map[string]bool)
	for fp, count := range fingerprintCount {
		if float64(count) >= threshold {
			recurring[fp] = true
		}
	}

	for _, i := range nonEmpty {
		out[i].Text = removeRecurringLines(out[i].Text, recurring)
		out[i].Text = stripAdvogadosBlock(out[i].Text)
		out[i].Text = stripPJeFooter(out[i].Text)
		out[i].Text = stripInvertedFooter(out[i].Text)
	}

	return out
}

func removeRecurringLines(text string, recurring map[string]bool) string {
	if len(recurring) == 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	var kept []string
	for _, l := range lines {
		if recurring[fingerprintLine(l)] {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// stripAdvogadosBlock finds the first matching line within the first 20
// lines and strips from line 0 through that line + 2.
func stripAdvogadosBlock(text string) string {
	lines := strings.Split(text, "\n")
	limit := 20
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		if advogadosPattern.MatchString(lines[i]) {
			end := i + 2
			if end >= len(lines) {
				return ""
			}
			return strings.Join(lines[end+1:], "\n")
		}
	}
	return text
}

func stripInvertedFooter(text string) string {
	lines := strings.Split(text, "\n")
	limit := 20
	if limit > len(lines) {
		limit = len(lines)
	}
	var out []string
	for i, l := range lines {
		if i < limit {
			matched := false
			for _, re := range invertedFooterSignatures {
				if re.MatchString(l) {
					matched = true
					break
				}
			}
			if matched {
				continue
			}
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
