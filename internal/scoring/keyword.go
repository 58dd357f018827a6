// Package scoring implements the two trend scoring paths: the keyword
// path used by the offline re-scoring job, and the growth-signal path
// used at ingestion time when the source reports its own trend growth.
// Both are deterministic and explainable; they coexist on one catalog
// row with split write ownership (the rescorer owns style/cut/keyword
// score, ingestion owns the growth fields at creation).
package scoring

import (
	"math"
	"strings"

	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/pipeline"
)

// hypeBrands are brands whose presence in the name or resolved brand
// grants the flat hype bonus. Matching is accent-folded; the bonus is
// applied once, first match only.
var hypeBrands = []string{
	"nike",
	"stussy",
	"carhartt",
	"stone island",
	"arc'teryx",
	"salomon",
	"corteiz",
	"represent",
	"patta",
	"aime leon dore",
}

// smallItemKeywords mark listings that look like small accessories, which
// are exempt from the bargain-price penalty (a 12 € beanie is not a
// suspiciously cheap garment).
var smallItemKeywords = []string{
	"casquette", "bonnet", "bandana", "gant", "echarpe", "tote",
}

// Engine computes keyword-path trend scores.
type Engine struct {
	cfg       config.ScoringConfig
	extraHype []string
}

// NewEngine creates a scoring engine. extraHype extends the hype brand
// list, typically from a vocabulary override file.
func NewEngine(cfg config.ScoringConfig, extraHype []string) *Engine {
	folded := make([]string, 0, len(extraHype))
	for _, b := range extraHype {
		if b = strings.TrimSpace(b); b != "" {
			folded = append(folded, pipeline.Fold(b))
		}
	}
	return &Engine{cfg: cfg, extraHype: folded}
}

// KeywordScore computes the keyword-path trend score for a catalog entry
// along with its cut and style tags. The score starts at the configured
// base, accumulates signed keyword weights and the hype-brand and
// price-tier adjustments. The result is floored but never capped, so
// stacked momentum keywords can push past 100.
func (e *Engine) KeywordScore(name, brand string, price float64) (score float64, cut, style string) {
	folded := pipeline.Fold(name)
	score = e.cfg.Base

	for _, wk := range pipeline.ScoringVocab() {
		if strings.Contains(folded, wk.Keyword) {
			score += wk.Weight
		}
	}

	if e.isHype(folded, brand) {
		score += e.cfg.HypeBrandBonus
	}

	switch {
	case price > e.cfg.PremiumPriceThreshold:
		score += e.cfg.PremiumPriceBonus
	case price > 0 && price < e.cfg.BargainPriceThreshold && !looksLikeSmallItem(folded):
		score -= e.cfg.BargainPricePenalty
	}

	score = math.Max(e.cfg.Floor, score)

	_, cut, style = pipeline.Classify(name)
	return score, cut, style
}

// isHype checks the name and the resolved brand against the hype list,
// built-ins first, then overrides. A single hit suffices; the bonus is
// never cumulative.
func (e *Engine) isHype(foldedName, brand string) bool {
	foldedBrand := pipeline.Fold(brand)
	for _, h := range hypeBrands {
		if strings.Contains(foldedName, h) || (foldedBrand != "" && strings.Contains(foldedBrand, h)) {
			return true
		}
	}
	for _, h := range e.extraHype {
		if strings.Contains(foldedName, h) || (foldedBrand != "" && strings.Contains(foldedBrand, h)) {
			return true
		}
	}
	return false
}

func looksLikeSmallItem(folded string) bool {
	for _, kw := range smallItemKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
