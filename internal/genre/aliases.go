package genre

import "strings"

// CanonicalAliases maps common category variations to canonical slugs.
// Keyed by the slugified form of what the metadata providers return.
var CanonicalAliases = map[string][]string{
	// Google Books BISAC-style headings
	"juvenile-fiction":        {"children"},
	"juvenile-nonfiction":     {"children", "non-fiction"},
	"comics-graphic-novels":   {"graphic-novel"},
	"biography-autobiography": {"biography-memoir"},
	"business-economics":      {"business"},
	"body-mind-spirit":        {"religion"},
	"religion-spirituality":   {"religion"},
	"health-fitness":          {"self-help"},
	"family-relationships":    {"self-help"},
	"political-science":       {"politics"},
	"social-science":          {"non-fiction"},
	"literary-criticism":      {"essays"},
	"literary-collections":    {"essays"},
	"performing-arts":         {"art"},
	"computers":               {"technology"},
	"cookery":                 {"cooking"},
	"food-wine":               {"cooking"},
	"crime":                   {"true-crime"},
	"detective":               {"mystery"},

	// Science fiction variations
	"sci-fi":                  {"science-fiction"},
	"scifi":                   {"science-fiction"},
	"sf":                      {"science-fiction"},
	"science-fiction-fantasy": {"science-fiction", "fantasy"},
	"sci-fi-fantasy":          {"science-fiction", "fantasy"},
	"dystopian":               {"science-fiction"},

	// Open Library subject phrasings
	"science-fiction-american":   {"science-fiction"},
	"fiction-general":            {"fiction"},
	"fiction-science-fiction":    {"science-fiction"},
	"fiction-fantasy":            {"fantasy"},
	"fiction-mystery-detective":  {"mystery"},
	"fiction-romance":            {"romance"},
	"fiction-historical":         {"historical-fiction"},
	"fiction-thrillers-suspense": {"thriller"},

	// Mystery and thriller variations
	"mystery-thriller":          {"mystery", "thriller"},
	"mystery-thriller-suspense": {"mystery", "thriller"},
	"suspense":                  {"thriller"},
	"crime-fiction":             {"mystery"},

	// Young adult variations
	"ya":                {"young-adult"},
	"teen":              {"young-adult"},
	"teens-young-adult": {"young-adult"},

	// Non-fiction variations
	"nonfiction":           {"non-fiction"},
	"biographies-memoirs":  {"biography-memoir"},
	"memoir":               {"biography-memoir"},
	"autobiography":        {"biography-memoir"},
	"personal-development": {"self-help"},
	"selfhelp":             {"self-help"},

	// Misc
	"literature":         {"fiction"},
	"literature-fiction": {"fiction"},
	"historical":         {"historical-fiction"},
	"scary":              {"horror"},
	"comedy":             {"humor"},
	"comedy-humor":       {"humor"},
	"cartoons-comics":    {"graphic-novel"},
}

// Normalize converts one raw provider category into canonical display
// names. Google Books nests categories like "Fiction / Science Fiction /
// Space Opera", so each path segment is resolved independently.
// Segments with no canonical mapping pass through trimmed.
func Normalize(raw string) []string {
	var names []string
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, segment := range strings.Split(raw, "/") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		slug := Slugify(segment)
		if name, ok := Canonical[slug]; ok {
			add(name)
			continue
		}
		if canonical, ok := CanonicalAliases[slug]; ok {
			for _, c := range canonical {
				add(Canonical[c])
			}
			continue
		}

		// Unknown category, keep the provider's wording.
		add(segment)
	}

	return names
}

// NormalizeAll folds a full provider category list into a deduplicated
// canonical list, preserving first-seen order.
func NormalizeAll(raw []string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, r := range raw {
		for _, name := range Normalize(r) {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}
