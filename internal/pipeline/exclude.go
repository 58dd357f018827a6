package pipeline

// exclusionLists maps a rejection reason to its keyword list. Matching is
// accent-folded substring containment over the listing name. The lists are
// deliberately over-inclusive: a false positive costs one listing, a false
// negative pollutes the trend corpus.
var exclusionLists = map[string][]string{
	"footwear": {
		"basket", "sneaker", "chaussure", "botte", "bottine", "sandale",
		"mule", "claquette", "tong", "espadrille", "mocassin", "derbies",
		"escarpin", "ballerine", "running shoe", "talon",
	},
	"underwear_swim": {
		"boxer", "calecon", "culotte", "soutien-gorge", "brassiere",
		"string ", "lingerie", "maillot de bain", "bikini", "chaussette",
		"collant", "pyjama", "nuisette",
	},
	"bags": {
		"sac ", "sac a main", "sac a dos", "sacoche", "bandouliere",
		"tote bag", "cabas", "valise", "banane ",
	},
	"perfume": {
		"parfum", "eau de toilette", "eau de cologne", "deodorant",
		"brume ",
	},
	"accessories": {
		"ceinture", "echarpe", "foulard", "gant", "casquette", "bonnet",
		"bandana", "lunettes", "montre", "parapluie", "porte-cle",
	},
	"jewelry": {
		"bijou", "collier", "bracelet", "bague ", "boucle d'oreille",
		"boucles d'oreilles", "pendentif", "piercing", "chaine ",
	},
	"multipacks": {
		"lot de", "pack de", "multipack", "2-pack", "3-pack", "5-pack",
		"x2 ", "x3 ",
	},
	"blacklisted_brands": {
		"in extenso", "influx ", "tex ", "f&f ",
	},
	"home_equipment": {
		"coussin", "housse", "rideau", "serviette de", "drap ", "plaid",
		"mug ", "gourde", "tapis", "bougie", "trousse de toilette",
	},
	"haircare": {
		"shampoing", "shampooing", "apres-shampoing", "masque capillaire",
		"gel coiffant", "laque ", "cire coiffante",
	},
	"cosmetics": {
		"mascara", "rouge a levres", "fond de teint", "vernis",
		"eyeliner", "gommage", "creme visage", "anticerne", "highlighter",
	},
	"cardholders": {
		"porte-carte", "porte-cartes", "porte-monnaie", "portefeuille",
		"pochette ",
	},
}

// IsExcluded reports whether a product name belongs to a category that
// must never enter the trend catalog. extra is an optional caller-supplied
// ban list (e.g. a temporary vocabulary override). This is a hard gate,
// not a score: any single keyword hit rejects the listing.
func IsExcluded(name string, extra []string) bool {
	folded := Fold(name)
	for _, list := range exclusionLists {
		for _, kw := range list {
			if containsAny(folded, kw) {
				return true
			}
		}
	}
	for _, kw := range extra {
		if kw != "" && containsAny(folded, Fold(kw)) {
			return true
		}
	}
	return false
}

// ExclusionKeywords returns every configured exclusion keyword, used by
// vocabulary audits and the exclusion-completeness test.
func ExclusionKeywords() []string {
	var all []string
	for _, list := range exclusionLists {
		all = append(all, list...)
	}
	return all
}
