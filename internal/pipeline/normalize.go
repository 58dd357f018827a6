package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// maxTitleLen caps a cleaned product title.
const maxTitleLen = 500

// Price tokens in either order ("49,99 €", "£19.99"), optionally preceded
// by a "from" marker, at the edges of the title or in parentheses.
var (
	parenPriceRe    = regexp.MustCompile(`(?i)\(\s*(?:from|des|dès|a partir de|à partir de)?\s*(?:\d{1,5}(?:[.,]\d{2})?\s*[€£$]|[€£$]\s*\d{1,5}(?:[.,]\d{2})?)\s*\)`)
	trailingPriceRe = regexp.MustCompile(`(?i)(?:\s*-)?\s*(?:from|des|dès|a partir de|à partir de)?\s*(?:\d{1,5}[.,]\d{2}\s*[€£$]|[€£$]\s*\d{1,5}[.,]\d{2})\s*$`)
	leadingPriceRe  = regexp.MustCompile(`(?i)^\s*(?:from|des|dès|a partir de|à partir de)?\s*(?:\d{1,5}[.,]\d{2}\s*[€£$]|[€£$]\s*\d{1,5}[.,]\d{2})\s*(?:-\s*)?`)
	multiSpaceRe    = regexp.MustCompile(`\s{2,}`)
)

// promoPhrases are promotional segments stripped when they appear as a
// trailing dash-delimited segment. Keys are accent-folded.
var promoPhrases = map[string]bool{
	"nouveau":              true,
	"nouveaute":            true,
	"stock limite":         true,
	"exclu web":            true,
	"exclusivite":          true,
	"promo":                true,
	"soldes":               true,
	"best-seller":          true,
	"bestseller":           true,
	"nouvelle collection":  true,
	"dernieres pieces":     true,
	"edition speciale web": true,
}

// colorNames is the fixed color vocabulary used to strip trailing color
// segments. Keys are accent-folded.
var colorNames = map[string]bool{
	"noir": true, "blanc": true, "beige": true, "gris": true,
	"bleu": true, "marine": true, "bleu marine": true, "rouge": true,
	"vert": true, "kaki": true, "marron": true, "camel": true,
	"ecru": true, "rose": true, "violet": true, "jaune": true,
	"orange": true, "bordeaux": true, "creme": true, "taupe": true,
	"anthracite": true, "turquoise": true, "multicolore": true,
	"black": true, "white": true, "grey": true, "gray": true,
	"navy": true, "brown": true, "green": true, "blue": true,
	"red": true, "cream": true, "khaki": true, "pink": true,
	"purple": true, "yellow": true, "burgundy": true, "off-white": true,
	"multi": true,
}

// sizeTokens are trailing size markers dropped together with colors.
var sizeTokens = map[string]bool{
	"xs": true, "s": true, "m": true, "l": true, "xl": true,
	"xxl": true, "xxxl": true, "taille unique": true, "one size": true,
}

// genericTypeWords are bare garment-type nouns. A name that is only one
// of these carries no product identity and cannot seed a brand either.
var genericTypeWords = map[string]bool{
	"sweat": true, "sweatshirt": true, "hoodie": true, "veste": true,
	"cargo": true, "pantalon": true, "jean": true, "t-shirt": true,
	"tshirt": true, "tee": true, "shirt": true, "pull": true,
	"short": true, "jupe": true, "robe": true, "manteau": true,
	"chemise": true, "surchemise": true, "polo": true, "gilet": true,
	"legging": true, "ensemble": true, "top": true, "debardeur": true,
	"blouson": true, "doudoune": true, "blazer": true, "combinaison": true,
	"survetement": true, "jogging": true,
}

// CleanTitle normalizes a raw product title: price tokens, trailing promo
// and color segments are stripped, whitespace collapsed, length capped.
// It never returns leading/trailing whitespace.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if title == "" {
		return ""
	}

	title = parenPriceRe.ReplaceAllString(title, " ")
	title = trailingPriceRe.ReplaceAllString(title, "")
	title = leadingPriceRe.ReplaceAllString(title, "")

	// Drop trailing dash-delimited promo and color segments. Promo first:
	// "Veste workwear - Noir - STOCK LIMITÉ" sheds both.
	segs := strings.Split(title, " - ")
	for len(segs) > 1 {
		last := Fold(strings.TrimSpace(segs[len(segs)-1]))
		if promoPhrases[last] || isColorSegment(last) || sizeTokens[last] {
			segs = segs[:len(segs)-1]
			continue
		}
		break
	}
	title = strings.Join(segs, " - ")

	title = multiSpaceRe.ReplaceAllString(title, " ")
	title = strings.TrimSpace(strings.Trim(title, "-–"))
	title = strings.TrimSpace(title)

	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}
	return title
}

// isColorSegment reports whether a folded dash segment is purely made of
// color names ("noir", "noir/blanc", "bleu marine").
func isColorSegment(folded string) bool {
	if folded == "" {
		return false
	}
	if colorNames[folded] {
		return true
	}
	parts := strings.Split(folded, "/")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if !colorNames[strings.TrimSpace(p)] {
			return false
		}
	}
	return true
}

// splitStrategy is one brand/name pattern matcher. Strategies are tried
// in priority order until one succeeds; each is independently testable.
type splitStrategy func(combined string, brands []string) (brand, name string, ok bool)

var splitStrategies = []splitStrategy{
	splitDashDelimited,
	splitConcatenated,
}

// SplitBrandAndName resolves a possibly-concatenated "brand+name" string
// into a canonical brand and product name. brands must be sorted longest
// first (see KnownBrands). ok=false means no strategy produced a split;
// the caller falls back to keeping the combined string as the name.
func SplitBrandAndName(combined string, brands []string) (brand, name string, ok bool) {
	combined = strings.TrimSpace(combined)
	if combined == "" {
		return "", "", false
	}
	for _, strat := range splitStrategies {
		if b, n, matched := strat(combined, brands); matched {
			return b, n, true
		}
	}
	return "", "", false
}

// splitDashDelimited handles the "Brand - Product Name - Color" shape.
// The first segment must equal a known brand or start with one.
func splitDashDelimited(combined string, brands []string) (string, string, bool) {
	segs := strings.Split(combined, " - ")
	if len(segs) < 2 {
		return "", "", false
	}

	first := strings.TrimSpace(segs[0])
	foldedFirst := Fold(first)
	var brand string
	for _, b := range brands {
		fb := Fold(b)
		if foldedFirst == fb || strings.HasPrefix(foldedFirst, fb+" ") {
			brand = b
			break
		}
	}
	if brand == "" {
		return "", "", false
	}

	rest := segs[1:]
	for len(rest) > 1 {
		last := Fold(strings.TrimSpace(rest[len(rest)-1]))
		if isColorSegment(last) || sizeTokens[last] {
			rest = rest[:len(rest)-1]
			continue
		}
		break
	}
	name := strings.TrimSpace(strings.Join(rest, " - "))
	if isTrivialRemainder(name) {
		return "", "", false
	}
	return brand, name, true
}

// splitConcatenated handles source systems that glue brand and title with
// no separator ("AllSaintsNATES LEATHER JACKET"). Longest-prefix match
// against the length-sorted vocabulary, so "Carhartt WIP" beats "Carhartt".
func splitConcatenated(combined string, brands []string) (string, string, bool) {
	for _, b := range brands {
		if len(combined) <= len(b) {
			continue
		}
		if !strings.EqualFold(combined[:len(b)], b) {
			continue
		}
		remainder := strings.TrimSpace(combined[len(b):])
		if isTrivialRemainder(remainder) {
			continue
		}
		return b, remainder, true
	}
	return "", "", false
}

// isTrivialRemainder rejects split remainders too thin to be a product
// name: empty, a single rune, or purely numeric.
func isTrivialRemainder(s string) bool {
	if len([]rune(s)) <= 1 {
		return true
	}
	return isNumericToken(s)
}

func isNumericToken(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			seen = true
			continue
		}
		if r == '.' || r == ',' || r == ' ' || r == '-' {
			continue
		}
		return false
	}
	return seen
}

// FallbackBrand derives a provisional brand from the first word of an
// unsplittable name. It refuses generic garment-type words, numerics and
// words too short to be a brand. Returns "" when no candidate qualifies.
func FallbackBrand(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return ""
	}
	word := strings.Trim(fields[0], "-–,")
	if len([]rune(word)) < 3 || isNumericToken(word) {
		return ""
	}
	if genericTypeWords[Fold(word)] {
		return ""
	}
	return word
}

// ShouldDrop reports whether a normalized (name, brand) pair is too
// degenerate to persist: empty names, bare generic garment words with no
// brand, or near-empty names with no brand. Dropping beats storing
// placeholder rows.
func ShouldDrop(name, brand string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}
	if brand != "" {
		return false
	}
	if genericTypeWords[Fold(name)] {
		return true
	}
	return len([]rune(name)) <= 3
}
