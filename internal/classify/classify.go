// Package classify implements C4: the level-1 whitelist regex classifier
// over full text, heading, and tail scopes, with disambiguation and a
// specificity bonus.
package classify

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

// RuleSpec is one classifier rule as loaded from the data file.
type RuleSpec struct {
	Type     string   `yaml:"type"`
	Patterns []string `yaml:"patterns"`
	Weight   float64  `yaml:"weight"`
}

// DisambiguationSpec declares which patterns of a rule are merely entity
// mentions versus genuinely structural indicators of that doc-type.
type DisambiguationSpec struct {
	Type       string   `yaml:"type"`
	Structural []string `yaml:"structural"`
	EntityOnly []string `yaml:"entity_only"`
}

// RuleFile is the on-disk shape of the classifier's data file.
type RuleFile struct {
	ValidTypes      []string              `yaml:"valid_types"`
	Rules           []RuleSpec            `yaml:"rules"`
	Disambiguation  []DisambiguationSpec  `yaml:"disambiguation"`
	Specificity     []string              `yaml:"specificity_order"`
}

type compiledRule struct {
	Type     string
	Patterns []*regexp.Regexp
	Weight   float64
}

type compiledDisambiguation struct {
	Type       string
	Structural []*regexp.Regexp
	EntityOnly []*regexp.Regexp
}

// Classifier holds the compiled rule table.
type Classifier struct {
	cfg            pconfig.Config
	validTypes     map[string]bool
	rules          []compiledRule
	disambiguation map[string]compiledDisambiguation
	specificity    []string // ordered most-specific-first
}

// LoadRules reads a YAML rule file at path. If path is empty or cannot be
// read, it falls back to the compiled-in default rule table, per
// SPEC_FULL.md's "expose as pure data, not code" directive.
func LoadRules(cfg pconfig.Config, path string) (*Classifier, error) {
	var rf RuleFile
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if yerr := yaml.Unmarshal(data, &rf); yerr == nil && len(rf.Rules) > 0 {
				return compile(cfg, rf)
			}
		}
	}
	return compile(cfg, defaultRuleFile())
}

func compile(cfg pconfig.Config, rf RuleFile) (*Classifier, error) {
	c := &Classifier{
		cfg:            cfg,
		validTypes:     make(map[string]bool, len(rf.ValidTypes)),
		disambiguation: make(map[string]compiledDisambiguation, len(rf.Disambiguation)),
		specificity:    rf.Specificity,
	}
	for _, t := range rf.ValidTypes {
		c.validTypes[t] = true
	}
	for _, r := range rf.Rules {
		cr := compiledRule{Type: r.Type, Weight: r.Weight}
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for rule %q: %w", p, r.Type, err)
			}
			cr.Patterns = append(cr.Patterns, re)
		}
		c.rules = append(c.rules, cr)
	}
	for _, d := range rf.Disambiguation {
		cd := compiledDisambiguation{Type: d.Type}
		for _, p := range d.Structural {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile structural pattern %q for %q: %w", p, d.Type, err)
			}
			cd.Structural = append(cd.Structural, re)
		}
		for _, p := range d.EntityOnly {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile entity-only pattern %q for %q: %w", p, d.Type, err)
			}
			cd.EntityOnly = append(cd.EntityOnly, re)
		}
		c.disambiguation[d.Type] = cd
	}
	return c, nil
}

// ValidTypes reports the whitelist, for callers (QC, segmenter) that need
// to validate a doc_type without re-deriving it.
func (c *Classifier) ValidTypes() map[string]bool {
	return c.validTypes
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

func firstN(lines []string, n int) string {
	if n > len(lines) {
		n = len(lines)
	}
	return strings.Join(lines[:n], "\n")
}

func lastN(lines []string, n int) string {
	if n > len(lines) {
		n = len(lines)
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// Classify scores the whitelist rule table against the full text, deriving
// heading (first ClassifierHeadingLines meaningful lines) and tail (last
// ClassifierTailLines meaningful lines) from it, applies disambiguation and
// the specificity bonus, and returns the resulting Classification.
func (c *Classifier) Classify(text string) model.Classification {
	lines := meaningfulLines(text)
	heading := firstN(lines, c.cfg.ClassifierHeadingLines)
	var tail string
	if len(lines) > 0 {
		tail = lastN(lines, c.cfg.ClassifierTailLines)
	}

	type scored struct {
		typ        string
		confidence float64
		indicators []string
	}
	var results []scored

	for _, rule := range c.rules {
		var bodyHits, headingHits, tailHits []string
		seen := make(map[string]bool)
		for _, re := range rule.Patterns {
			if re.MatchString(text) {
				m := re.String()
				if !seen[m] {
					seen[m] = true
					bodyHits = append(bodyHits, m)
				}
			}
			if re.MatchString(heading) {
				headingHits = append(headingHits, re.String())
			}
			if tail != "" && re.MatchString(tail) {
				tailHits = append(tailHits, re.String())
			}
		}
		if len(bodyHits) == 0 {
			continue
		}

		bodyRatio := float64(len(bodyHits)) / float64(len(rule.Patterns))
		headingBonus := 0.15 * float64(len(headingHits))
		if headingBonus > 0.30 {
			headingBonus = 0.30
		}
		tailBonus := 0.10 * float64(len(tailHits))
		if tailBonus > 0.20 {
			tailBonus = 0.20
		}

		confidence := bodyRatio*rule.Weight + headingBonus + tailBonus
		if confidence > 1 {
			confidence = 1
		}

		confidence = c.applyDisambiguation(rule.Type, confidence, bodyHits, heading, text)
		confidence = c.applySpecificity(rule.Type, confidence)

		results = append(results, scored{typ: rule.Type, confidence: confidence, indicators: bodyHits})
	}

	if len(results) == 0 {
		return model.Classification{PrimaryType: "unknown", Confidence: 0}
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.confidence > best.confidence {
			best = r
		}
	}

	result := model.Classification{
		PrimaryType: c.validOrUnknown(best.typ),
		Confidence:  best.confidence,
		Indicators:  best.indicators,
	}

	if best.confidence < c.cfg.SecondaryTypeGate {
		var secondBest *scored
		for i := range results {
			if results[i].typ == best.typ {
				continue
			}
			if secondBest == nil || results[i].confidence > secondBest.confidence {
				secondBest = &results[i]
			}
		}
		if secondBest != nil {
			result.SecondaryType = c.validOrUnknown(secondBest.typ)
			result.SecondaryConfidence = secondBest.confidence
		}
	}

	return result
}

func (c *Classifier) validOrUnknown(t string) string {
	if c.validTypes[t] {
		return t
	}
	return "unknown"
}

// applyDisambiguation penalizes confidence when matched indicators are
// entity-mentions only, per SPEC_FULL.md 4.4.
func (c *Classifier) applyDisambiguation(ruleType string, confidence float64, bodyHits []string, heading, fullText string) float64 {
	d, ok := c.disambiguation[ruleType]
	if !ok {
		return confidence
	}

	hasStructuralInBody := false
	for _, re := range d.Structural {
		if re.MatchString(fullText) {
			hasStructuralInBody = true
			break
		}
	}

	allEntityOnly := len(bodyHits) > 0
	for _, hit := range bodyHits {
		matched := false
		for _, re := range d.EntityOnly {
			if re.String() == hit {
				matched = true
				break
			}
		}
		if !matched {
			allEntityOnly = false
			break
		}
	}

	if allEntityOnly && !hasStructuralInBody {
		return confidence * 0.30
	}

	hasStructuralInHeading := false
	for _, re := range d.Structural {
		if re.MatchString(heading) {
			hasStructuralInHeading = true
			break
		}
	}
	if hasStructuralInBody && !hasStructuralInHeading {
		return confidence * 0.70
	}

	return confidence
}

// applySpecificity adds the fixed bonus when ruleType appears anywhere in the
// configured specificity order; its position in that list does not change
// the bonus.
func (c *Classifier) applySpecificity(ruleType string, confidence float64) float64 {
	for _, t := range c.specificity {
		if t == ruleType {
			confidence += c.cfg.SpecificityBonus
			break
		}
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
