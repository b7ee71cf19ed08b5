package enrich

import (
	"sort"
	"strings"
)

// commonTools are equipment names matched against instruction text.
var commonTools = []string{
	"oven", "stovetop", "microwave", "blender", "food processor",
	"mixer", "grill", "slow cooker", "instant pot", "air fryer",
	"sheet pan", "baking dish", "skillet", "pot", "pan", "bowl",
	"knife", "cutting board", "measuring cups", "spatula", "whisk",
}

// stopWords are excluded from keyword derivation.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "can": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "you": {}, "your": {},
	"it": {}, "its": {}, "into": {}, "until": {}, "then": {},
}

// deriveTools scans instruction steps for common kitchen equipment.
// Purely lexical and deterministic; results are sorted and unique.
func deriveTools(instructions []string) []string {
	found := make(map[string]struct{})
	for _, step := range instructions {
		lower := strings.ToLower(step)
		for _, tool := range commonTools {
			if strings.Contains(lower, tool) {
				found[tool] = struct{}{}
			}
		}
	}

	tools := make([]string, 0, len(found))
	for tool := range found {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}

// deriveKeywords extracts meaningful words from the title and summary,
// dropping stop words and anything shorter than three characters.
func deriveKeywords(title, summary string) []string {
	seen := make(map[string]struct{})
	for _, source := range []string{title, summary} {
		for _, word := range strings.Fields(strings.ToLower(source)) {
			word = strings.Trim(word, ".,!?;:()\"'")
			if len(word) <= 2 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			seen[word] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(seen))
	for word := range seen {
		keywords = append(keywords, word)
	}
	sort.Strings(keywords)
	return keywords
}
