package pipeline

import (
	"sort"
	"strings"
)

// knownBrands is the fixed vocabulary of brands the normalizer can
// resolve. Matching is case-insensitive; order here is cosmetic, the
// lookup slice is re-sorted by length descending at init so that
// longest-prefix matching prefers "Carhartt WIP" over "Carhartt".
var knownBrands = []string{
	"AllSaints",
	"Nike",
	"Adidas",
	"Zara",
	"H&M",
	"Levi's",
	"Carhartt WIP",
	"Carhartt",
	"The North Face",
	"Stone Island",
	"Ralph Lauren",
	"Tommy Hilfiger",
	"Tommy Jeans",
	"Lacoste",
	"Uniqlo",
	"Pull&Bear",
	"Bershka",
	"Stradivarius",
	"ASOS Design",
	"Jack & Jones",
	"Only & Sons",
	"Weekday",
	"Arket",
	"COS",
	"Massimo Dutti",
	"Sandro",
	"Maje",
	"The Kooples",
	"A.P.C.",
	"Stüssy",
	"Dickies",
	"Champion",
	"New Balance",
	"Arc'teryx",
	"Salomon",
	"Patagonia",
	"Columbia",
	"Timberland",
	"Schott",
	"Ellesse",
	"Fila",
	"Kappa",
	"Umbro",
	"Reebok",
	"Puma",
	"Vans",
	"Obey",
	"Edwin",
	"Nudie Jeans",
	"Wrangler",
	"Lee",
	"G-Star",
	"Diesel",
	"Calvin Klein",
	"Hugo Boss",
	"Superdry",
	"Jaded London",
	"Collusion",
	"Reclaimed Vintage",
	"Topman",
	"Mango",
	"Celio",
	"Jules",
	"Kiabi",
	"Primark",
	"Shein",
	"Boohoo",
	"PrettyLittleThing",
	"Na-kd",
	"Monki",
}

// brandsByLength is knownBrands sorted by length descending, built once
// at init. Longest-first ordering is what makes concatenated-prefix
// resolution deterministic.
var brandsByLength = sortBrandsByLength(knownBrands)

func sortBrandsByLength(brands []string) []string {
	sorted := make([]string, len(brands))
	copy(sorted, brands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return sorted
}

// KnownBrands returns the default brand vocabulary, longest first.
// Callers must not mutate the returned slice.
func KnownBrands() []string {
	return brandsByLength
}

// MergeBrands combines the default vocabulary with caller extras and
// returns a new length-sorted-descending slice.
func MergeBrands(extra []string) []string {
	if len(extra) == 0 {
		return brandsByLength
	}
	merged := make([]string, 0, len(knownBrands)+len(extra))
	merged = append(merged, knownBrands...)
	seen := make(map[string]bool, len(knownBrands))
	for _, b := range knownBrands {
		seen[strings.ToLower(b)] = true
	}
	for _, b := range extra {
		b = strings.TrimSpace(b)
		if b == "" || seen[strings.ToLower(b)] {
			continue
		}
		seen[strings.ToLower(b)] = true
		merged = append(merged, b)
	}
	return sortBrandsByLength(merged)
}

// MatchKnownBrand resolves a raw brand string against the vocabulary,
// returning the canonical spelling. Returns "" when the brand is unknown.
func MatchKnownBrand(raw string, brands []string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, b := range brands {
		if strings.EqualFold(raw, b) {
			return b
		}
	}
	return ""
}
