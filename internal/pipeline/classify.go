package pipeline

import "strings"

// CutStandard is the default cut when no keyword matches.
const CutStandard = "STANDARD"

// cutKeywords is the ordered cut resolution table: first match in this
// priority order wins, so oversize/boxy/baggy outrank the generic
// "large"/"ample" and the narrow fits come last.
var cutKeywords = []struct {
	Keyword string
	Tag     string
}{
	{"oversize", "OVERSIZE"},
	{"boxy", "BOXY"},
	{"baggy", "BAGGY"},
	{"ample", "AMPLE"},
	{"large", "LARGE"},
	{"cropped", "CROPPED"},
	{"tapered", "TAPERED"},
	{"slim", "SLIM"},
	{"skinny", "SKINNY"},
	{"droit", "DROIT"},
	{"regular", "REGULAR"},
}

// categoryTable maps garment nouns to categories, first match wins.
// Order avoids substring shadowing ("t-shirt" before "shirt", "sweat à
// capuche" before "sweat").
var categoryTable = []struct {
	Keyword  string
	Category string
}{
	{"t-shirt", "T-shirt"},
	{"tee-shirt", "T-shirt"},
	{"tshirt", "T-shirt"},
	{"sweat a capuche", "Hoodie"},
	{"hoodie", "Hoodie"},
	{"sweatshirt", "Sweat"},
	{"sweat", "Sweat"},
	{"surchemise", "Surchemise"},
	{"chemise", "Chemise"},
	{"polo", "Polo"},
	{"doudoune", "Doudoune"},
	{"blouson", "Blouson"},
	{"veste", "Veste"},
	{"manteau", "Manteau"},
	{"trench", "Manteau"},
	{"parka", "Manteau"},
	{"blazer", "Blazer"},
	{"gilet", "Gilet"},
	{"cardigan", "Gilet"},
	{"pull", "Pull"},
	{"maille", "Pull"},
	{"jean", "Jean"},
	{"cargo", "Cargo"},
	{"jogging", "Jogging"},
	{"pantalon", "Pantalon"},
	{"legging", "Legging"},
	{"short", "Short"},
	{"bermuda", "Short"},
	{"jupe", "Jupe"},
	{"robe", "Robe"},
	{"combinaison", "Combinaison"},
	{"debardeur", "Débardeur"},
	{"survetement", "Survêtement"},
	{"ensemble", "Ensemble"},
	{"top", "Top"},
}

// CategoryOther is the category for names no garment noun matches.
const CategoryOther = "AUTRE"

// Classify infers category, cut and dominant style tag from a normalized
// product name using the fixed keyword tables. It is pure and never fails;
// unmatched inputs fall back to (AUTRE, STANDARD, "").
func Classify(name string) (category, cut, style string) {
	folded := Fold(name)

	cut = classifyCut(folded)
	category = classifyCategory(folded)
	style = classifyStyle(folded, cut)
	return category, cut, style
}

func classifyCut(folded string) string {
	for _, ck := range cutKeywords {
		if strings.Contains(folded, ck.Keyword) {
			return ck.Tag
		}
	}
	return CutStandard
}

func classifyCategory(folded string) string {
	for _, ct := range categoryTable {
		if strings.Contains(folded, ct.Keyword) {
			return ct.Category
		}
	}
	return CategoryOther
}

// classifyStyle picks the tagged vocabulary keyword with the highest
// positive weight present in the name. Compound overrides win
// unconditionally; ties keep the first match; no style keyword falls
// back to the cut tag (when one was detected).
func classifyStyle(folded, cut string) string {
	// Compound overrides.
	if strings.Contains(folded, "imprime") && strings.Contains(folded, "dos") {
		return "BACK PRINT"
	}
	if strings.Contains(folded, "ensemble") || strings.Contains(folded, "co-ord") {
		return "ENSEMBLE"
	}

	best := ""
	bestWeight := 0.0
	for _, wk := range scoringVocab {
		if wk.Tag == "" || wk.Weight <= 0 {
			continue
		}
		if !strings.Contains(folded, wk.Keyword) {
			continue
		}
		if wk.Weight > bestWeight {
			best = wk.Tag
			bestWeight = wk.Weight
		}
	}
	if best != "" {
		return best
	}
	if cut != CutStandard {
		return cut
	}
	return ""
}
