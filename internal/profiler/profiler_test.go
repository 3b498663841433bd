package profiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusbr/pje-segmenter/internal/model"
	"github.com/jusbr/pje-segmenter/internal/pconfig"
)

func TestReadabilityScore_CleanTextScoresHigh(t *testing.T) {
	clean := strings.Repeat("O processo foi distribuído para a vara cível competente. ", 30)
	score := ReadabilityScore(clean)
	assert.GreaterOrEqual(t, score, 60.0, "expected clean Portuguese prose to score >= 60")
}

func TestReadabilityScore_EmptyTextScoresZero(t *testing.T) {
	assert.Zero(t, ReadabilityScore(""), "expected empty text to score 0")
}

func TestGarbageScore_GarbledTextScoresHigherThanClean(t *testing.T) {
	p := New(pconfig.DefaultConfig())
	clean := "O juiz determinou que o réu apresente defesa no prazo legal estabelecido."
	garbled := "~* d3 x~y t~ d c~ §¬ jz dtrm qu o r3u aprsnt df3s no przo lgl "

	cleanScore := p.GarbageScore(clean)
	garbledScore := p.GarbageScore(garbled)

	assert.Greater(t, garbledScore, cleanScore)
}

func TestTier_BucketsByThreshold(t *testing.T) {
	cfg := pconfig.DefaultConfig()
	cases := []struct {
		score float64
		want  model.QualityTier
	}{
		{90, model.TierA},
		{70, model.TierB},
		{50, model.TierC},
		{30, model.TierD},
		{5, model.TierF},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Tier(cfg, c.score), "Tier(%v)", c.score)
	}
}

func TestProfileDocument_PropagatesDegradationWhenMajorityDegraded(t *testing.T) {
	p := New(pconfig.DefaultConfig())
	// 3 of 4 non-empty pages are garbled -> should propagate to the 4th.
	pages := []model.Page{
		{PageNumber: 1, Text: "~*~§¬ x~y d3 q~ z§ §¬*~", Confidence: 0.8},
		{PageNumber: 2, Text: "~*~§¬ x~y d3 q~ z§ §¬*~", Confidence: 0.8},
		{PageNumber: 3, Text: "~*~§¬ x~y d3 q~ z§ §¬*~", Confidence: 0.8},
		{PageNumber: 4, Text: strings.Repeat("O juiz determinou a citação do réu no processo. ", 10), Confidence: 0.95},
	}

	doc := p.ProfileDocument(pages)

	require.True(t, doc.PageProfiles[3].IsDegraded, "expected the one clean page to be marked degraded via propagation")
	assert.True(t, doc.PageProfiles[3].Propagated, "expected Propagated=true on the page that was clean before propagation")
	assert.False(t, doc.IsMixedQuality, "expected IsMixedQuality=false once propagation degrades every page")
	assert.Zero(t, doc.CleanCount, "expected 0 clean pages after propagation")
}

func TestProfileDocument_UsesMedianNotMean(t *testing.T) {
	p := New(pconfig.DefaultConfig())
	clean := strings.Repeat("O juiz determinou a citação do réu no processo civil em trâmite. ", 10)
	pages := []model.Page{
		{PageNumber: 1, Text: clean, Confidence: 0.95},
		{PageNumber: 2, Text: clean, Confidence: 0.95},
		{PageNumber: 3, Text: "x", Confidence: 0.1}, // one very bad outlier
	}
	doc := p.ProfileDocument(pages)
	// median of [high, high, ~0] should stay high; a mean would be dragged
	// down much further by the single outlier.
	assert.GreaterOrEqual(t, doc.ReadabilityScore, 40.0, "expected median aggregation to resist a single outlier")
}

func TestStripRepetitiveContent_RemovesRecurringFooter(t *testing.T) {
	p := New(pconfig.DefaultConfig())
	footer := "Documento assinado eletronicamente por Fulano"
	pages := []model.Page{
		{PageNumber: 1, Text: "Conteúdo da página um com texto relevante.\n" + footer, Confidence: 0.9},
		{PageNumber: 2, Text: "Conteúdo da página dois com outro texto.\n" + footer, Confidence: 0.9},
		{PageNumber: 3, Text: "Conteúdo da página três com mais texto.\n" + footer, Confidence: 0.9},
	}
	stripped := p.StripRepetitiveContent(pages)
	for _, pg := range stripped {
		assert.NotContains(t, pg.Text, "Fulano")
	}
}
