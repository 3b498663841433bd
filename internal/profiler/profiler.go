// Package profiler implements C3: per-page readability scoring, the
// seven-signal word-garbage score, document-level aggregation, and
// repetitive header/footer stripping.
package profiler

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

// Profiler scores pages and documents using one configuration record.
type Profiler struct {
	cfg pconfig.Config
}

// New creates a Profiler bound to cfg.
func New(cfg pconfig.Config) *Profiler {
	return &Profiler{cfg: cfg}
}

var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(
		`de a o que e do da em um para com não uma os no se na por mais as dos ` +
			`como mas ao ele das tem à seu sua ou ser quando muito há nos já está eu ` +
			`também só pelo pela até isso ela entre era depois sem mesmo aos ter seus ` +
			`quem nas me esse eles essa num nem suas meu às minha numa pelos elas qual ` +
			`nós lhe deles essas esses pelas este fosse dele tu te vocês vos lhes meus ` +
			`minhas teu tua teus tuas nosso nossa nossos nossas dela delas esta estes ` +
			`estas aquele aquela aqueles aquelas isto aquilo processo juiz vara réu autor`,
	) {
		stopwords[w] = true
	}
}

// pjeFooterPatterns are canonical recurring PJe footer lines.
var pjeFooterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)assinado eletronicamente`),
	regexp.MustCompile(`(?i)para conferir o original`),
	regexp.MustCompile(`(?i)processo judicial eletr[oô]nico`),
	regexp.MustCompile(`(?i)n[uú]mero do documento:?\s*\d+`),
	regexp.MustCompile(`(?i)este documento foi assinado digitalmente`),
}

// garbageOperatorPattern matches the closed set of garbage operator
// characters tallied by signal 3.
var garbageOperatorPattern = regexp.MustCompile(`[~*§¬¨£¢¡¿]`)

// encodingCorruptionPattern matches tilde/dash/equals between alphanumerics
// and digit-in-letter tokens, signal 6.
var encodingCorruptionPattern = regexp.MustCompile(`[a-zA-Z]\d[a-zA-Z]|[a-zA-Z][~\-=][a-zA-Z]`)

var midWordCaseChangePattern = regexp.MustCompile(`[a-z][A-Z][a-z]`)

var consonantRunPattern = regexp.MustCompile(`(?i)[bcdfghjklmnpqrstvwxyz]{4,}`)

// stripPJeFooter removes the canonical footer when it appears in the last
// 40% of the text — it is never stripped from short fragments, since a
// short OCR sliver may legitimately BE the footer content under review.
func stripPJeFooter(text string) string {
	if len(text) < 200 {
		return text
	}
	cutoff := int(float64(len(text)) * 0.6)
	head, tail := text[:cutoff], text[cutoff:]
	for _, re := range pjeFooterPatterns {
		tail = re.ReplaceAllString(tail, "")
	}
	return head + tail
}

// ReadabilityScore computes the 0-100 readability score from four weighted
// heuristics: character density, average word length, printable-Latin
// ratio, average line length.
func ReadabilityScore(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	words := strings.Fields(text)
	lines := strings.Split(text, "\n")

	// 1. chars-per-page density: healthy band 500-4000 chars.
	density := scoreBand(float64(len(text)), 500, 4000, 25)

	// 2. average word length: healthy band 3-8.
	var wordLenSum int
	for _, w := range words {
		wordLenSum += len([]rune(w))
	}
	avgWordLen := 0.0
	if len(words) > 0 {
		avgWordLen = float64(wordLenSum) / float64(len(words))
	}
	wordLenScore := scoreBand(avgWordLen, 3, 8, 25)

	// 3. printable-Latin ratio.
	var printable, total int
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r) {
			printable++
		}
	}
	ratio := 1.0
	if total > 0 {
		ratio = float64(printable) / float64(total)
	}
	printableScore := ratio * 25

	// 4. average line length: healthy band 30-120.
	var lineLenSum int
	var nonEmptyLines int
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		lineLenSum += len([]rune(trimmed))
		nonEmptyLines++
	}
	avgLineLen := 0.0
	if nonEmptyLines > 0 {
		avgLineLen = float64(lineLenSum) / float64(nonEmptyLines)
	}
	lineLenScore := scoreBand(avgLineLen, 30, 120, 25)

	score := density + wordLenScore + printableScore + lineLenScore
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// scoreBand gives full marks (max) when value is within [lo, hi], tapering
// linearly to 0 outside that band (at 0 below the band and at double the
// upper edge above it).
func scoreBand(value, lo, hi, max float64) float64 {
	if value >= lo && value <= hi {
		return max
	}
	if value < lo {
		if lo == 0 {
			return 0
		}
		ratio := value / lo
		if ratio < 0 {
			ratio = 0
		}
		return ratio * max
	}
	// value > hi
	over := value - hi
	ratio := 1 - over/hi
	if ratio < 0 {
		ratio = 0
	}
	return ratio * max
}

// Tier buckets a readability score using the configured cutoffs.
func Tier(cfg pconfig.Config, score float64) model.QualityTier {
	switch {
	case score >= cfg.TierThresholds[0]:
		return model.TierA
	case score >= cfg.TierThresholds[1]:
		return model.TierB
	case score >= cfg.TierThresholds[2]:
		return model.TierC
	case score >= cfg.TierThresholds[3]:
		return model.TierD
	default:
		return model.TierF
	}
}

// GarbageScore computes the seven-signal word-level garbage score (0-1).
// The PJe footer is stripped before scoring.
func (p *Profiler) GarbageScore(text string) float64 {
	text = stripPJeFooter(text)
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var points float64

	// Signal 1: fraction of 1-2 char "words".
	var shortWords int
	for _, w := range words {
		if len([]rune(w)) <= 2 {
			shortWords++
		}
	}
	shortFrac := float64(shortWords) / float64(len(words))
	points += bandedPoints(shortFrac, 0.45, 0.30)

	// Signal 2: fraction of words whose alnum portion is <40% and length>1.
	var lowAlnum int
	for _, w := range words {
		if len([]rune(w)) <= 1 {
			continue
		}
		var alnum int
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				alnum++
			}
		}
		if float64(alnum)/float64(len([]rune(w))) < 0.4 {
			lowAlnum++
		}
	}
	lowAlnumFrac := float64(lowAlnum) / float64(len(words))
	points += bandedPoints(lowAlnumFrac, 0.15, 0.08)

	// Signal 3: density of garbage operator characters.
	opMatches := garbageOperatorPattern.FindAllString(text, -1)
	opDensity := 0.0
	if len(text) > 0 {
		opDensity = float64(len(opMatches)) / float64(len([]rune(text)))
	}
	if opDensity > 0.02 {
		points++
	}

	// Signal 4: fraction of words NOT in the stoplist.
	var stopHits int
	for _, w := range words {
		if stopwords[strings.ToLower(w)] {
			stopHits++
		}
	}
	stopFrac := float64(stopHits) / float64(len(words))
	points += bandedPointsInverted(stopFrac, 0.05, 0.10)

	// Signal 5: consonant runs / mid-word case change.
	var malformed int
	for _, w := range words {
		if consonantRunPattern.MatchString(w) || midWordCaseChangePattern.MatchString(w) {
			malformed++
		}
	}
	malformedFrac := float64(malformed) / float64(len(words))
	points += bandedPoints(malformedFrac, 0.15, 0.08)

	// Signal 6: encoding-corruption tokens.
	var corrupt int
	for _, w := range words {
		if encodingCorruptionPattern.MatchString(w) || midWordCaseChangePattern.MatchString(w) {
			corrupt++
		}
	}
	corruptFrac := float64(corrupt) / float64(len(words))
	points += bandedPoints(corruptFrac, 0.10, 0.05)

	// Signal 7: dictionary miss rate, only when >=10 words of length>=4.
	var longWords, misses int
	for _, w := range words {
		if len([]rune(w)) < 4 {
			continue
		}
		longWords++
		if !stopwords[strings.ToLower(w)] {
			misses++
		}
	}
	if longWords >= 10 {
		missRate := float64(misses) / float64(longWords)
		points += bandedPoints(missRate, 0.70, 0.55)
	}

	// Normalize by 14 (7 signals at 2 points each); signal 3 adds at most
	// 1 point, so the highest reachable score is 13/14.
	score := points / 14
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// bandedPoints returns 2 if frac exceeds hi, 1 if it exceeds lo, else 0.
func bandedPoints(frac, hi, lo float64) float64 {
	switch {
	case frac > hi:
		return 2
	case frac > lo:
		return 1
	default:
		return 0
	}
}

// bandedPointsInverted returns 2 if frac is below lo, 1 if below hi, else 0
// — used for signals where a LOW fraction is the bad sign (stopword rate).
func bandedPointsInverted(frac, lo, hi float64) float64 {
	switch {
	case frac < lo:
		return 2
	case frac < hi:
		return 1
	default:
		return 0
	}
}

// NoiseLevelFor buckets a garbage score into low/medium/high.
func NoiseLevelFor(score float64) model.NoiseLevel {
	switch {
	case score >= 0.4:
		return model.NoiseHigh
	case score >= 0.15:
		return model.NoiseMedium
	default:
		return model.NoiseLow
	}
}

// ProfilePage produces the PageProfile for one extracted page.
func (p *Profiler) ProfilePage(page model.Page) model.PageProfile {
	charCount := len([]rune(page.Text))
	readability := ReadabilityScore(page.Text)
	garbage := p.GarbageScore(page.Text)
	noise := NoiseLevelFor(garbage)
	tier := Tier(p.cfg, readability)

	degraded := readability < p.cfg.TierThresholds[1] ||
		noise != model.NoiseLow ||
		garbage >= p.cfg.DegradedGarbageGate ||
		charCount < 50

	return model.PageProfile{
		PageNumber:       page.PageNumber,
		ReadabilityScore: readability,
		NoiseLevel:       noise,
		WordGarbageScore: garbage,
		QualityTier:      tier,
		CharCount:        charCount,
		IsDegraded:       degraded && !page.Empty,
		Empty:            page.Empty,
	}
}

// ProfileDocument aggregates per-page profiles into a DocumentProfile,
// using median readability and propagating degradation when at least
// DegradedRatioPropagate of non-empty pages are degraded.
func (p *Profiler) ProfileDocument(pages []model.Page) model.DocumentProfile {
	profiles := make([]model.PageProfile, len(pages))
	for i, pg := range pages {
		profiles[i] = p.ProfilePage(pg)
	}

	var nonEmpty []int
	for i, pr := range profiles {
		if !pr.Empty {
			nonEmpty = append(nonEmpty, i)
		}
	}

	if len(nonEmpty) > 0 {
		var degradedCount int
		for _, i := range nonEmpty {
			if profiles[i].IsDegraded {
				degradedCount++
			}
		}
		if float64(degradedCount)/float64(len(nonEmpty)) >= p.cfg.DegradedRatioPropagate {
			for _, i := range nonEmpty {
				if !profiles[i].IsDegraded {
					profiles[i].IsDegraded = true
					profiles[i].Propagated = true
				}
			}
		}
	}

	var readabilities []float64
	var degradedPages []int
	var degradedCount, cleanCount int
	worstNoise := model.NoiseLow
	hasTextLayer := false

	for _, pr := range profiles {
		if pr.Empty {
			continue
		}
		readabilities = append(readabilities, pr.ReadabilityScore)
		if pr.IsDegraded {
			degradedCount++
			degradedPages = append(degradedPages, pr.PageNumber)
		} else {
			cleanCount++
			hasTextLayer = true
		}
		if noiseRank(pr.NoiseLevel) > noiseRank(worstNoise) {
			worstNoise = pr.NoiseLevel
		}
	}

	median := medianOf(readabilities)

	return model.DocumentProfile{
		ReadabilityScore: median,
		QualityTier:      Tier(p.cfg, median),
		NoiseLevel:       worstNoise,
		DegradedPages:    degradedPages,
		DegradedCount:    degradedCount,
		CleanCount:       cleanCount,
		IsMixedQuality:   degradedCount > 0 && cleanCount > 0,
		HasTextLayer:     hasTextLayer,
		PageProfiles:     profiles,
	}
}

func noiseRank(n model.NoiseLevel) int {
	switch n {
	case model.NoiseHigh:
		return 2
	case model.NoiseMedium:
		return 1
	default:
		return 0
	}
}

func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
