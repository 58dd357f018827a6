package pipeline

// WeightedKeyword is one entry of the bonus/malus scoring vocabulary.
// Keyword is stored accent-folded. Tag is the style label the keyword
// carries when it wins style resolution; malus and pure-cut entries have
// no tag and never become a style.
type WeightedKeyword struct {
	Keyword string
	Weight  float64
	Tag     string
}

// scoringVocab is the shared bonus/malus vocabulary. The scoring engine
// sums the weights of every keyword present in a name; the classifier
// picks the tagged entry with the highest positive weight as the style.
// Order matters only for ties: first match wins.
var scoringVocab = []WeightedKeyword{
	{Keyword: "edition limitee", Weight: 25, Tag: "LIMITED EDITION"},
	{Keyword: "limited edition", Weight: 25, Tag: "LIMITED EDITION"},
	{Keyword: "heavyweight", Weight: 25, Tag: "HEAVYWEIGHT"},
	{Keyword: "collab", Weight: 20, Tag: "COLLAB"},
	{Keyword: "archive", Weight: 20, Tag: "ARCHIVE"},
	{Keyword: "gorpcore", Weight: 18, Tag: "GORPCORE"},
	{Keyword: "workwear", Weight: 15, Tag: "WORKWEAR"},
	{Keyword: "vintage", Weight: 15, Tag: "VINTAGE"},
	{Keyword: "y2k", Weight: 15, Tag: "Y2K"},
	{Keyword: "cuir", Weight: 12, Tag: "LEATHER"},
	{Keyword: "leather", Weight: 12, Tag: "LEATHER"},
	{Keyword: "delave", Weight: 12, Tag: "WASHED"},
	{Keyword: "washed", Weight: 12, Tag: "WASHED"},
	{Keyword: "brode", Weight: 12, Tag: "EMBROIDERED"},
	{Keyword: "imprime", Weight: 10, Tag: "PRINT"},
	{Keyword: "graphique", Weight: 10, Tag: "PRINT"},
	{Keyword: "cargo", Weight: 10, Tag: "CARGO"},
	{Keyword: "utility", Weight: 10, Tag: "UTILITY"},
	{Keyword: "velours", Weight: 8, Tag: "VELOUR"},
	{Keyword: "cotele", Weight: 8, Tag: "CORDUROY"},
	{Keyword: "nylon", Weight: 8, Tag: "TECHWEAR"},
	{Keyword: "color block", Weight: 8, Tag: "COLOR BLOCK"},
	{Keyword: "laine", Weight: 6, Tag: "WOOL"},

	// Pure-cut keywords contribute to the score but are owned by cut
	// resolution and are never eligible as style tags.
	{Keyword: "oversize", Weight: 10},
	{Keyword: "boxy", Weight: 8},
	{Keyword: "baggy", Weight: 8},

	// Malus.
	{Keyword: "skinny", Weight: -30},
	{Keyword: "slim", Weight: -20},
	{Keyword: "basique", Weight: -10},
	{Keyword: "uni ", Weight: -5},
	{Keyword: "polyester", Weight: -5},
}

// ScoringVocab returns the shared weighted keyword vocabulary. Callers
// must not mutate the returned slice.
func ScoringVocab() []WeightedKeyword {
	return scoringVocab
}
