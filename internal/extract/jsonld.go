package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

// extractJSONLDRecipe scans every ld+json script on the page for a
// Recipe node. Returns nil when none is found. Malformed scripts are
// skipped; sites routinely embed several blocks and only one parses.
func extractJSONLDRecipe(doc *goquery.Document) *recipe.Draft {
	var draft *recipe.Draft

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true // malformed block, keep scanning
		}
		if node := findRecipeNode(data); node != nil {
			draft = draftFromNode(node)
			return false
		}
		return true
	})

	return draft
}

// findRecipeNode walks a decoded JSON-LD document looking for an object
// whose @type is (or includes) "Recipe". Handles top-level objects,
// arrays, and @graph containers.
func findRecipeNode(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if hasType(v, "Recipe") {
			return v
		}
		if graph, ok := v["@graph"].([]any); ok {
			return findRecipeNode(graph)
		}
	case []any:
		for _, item := range v {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	}
	return nil
}

// hasType reports whether the node's @type equals want. Schema.org
// allows @type to be a string or an array of strings.
func hasType(node map[string]any, want string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func draftFromNode(node map[string]any) *recipe.Draft {
	d := &recipe.Draft{
		Title:        stringField(node, "name"),
		Summary:      stringField(node, "description"),
		Ingredients:  stringList(node["recipeIngredient"]),
		Instructions: instructionList(node["recipeInstructions"]),
		ImageURL:     imageURL(node["image"]),
		Yield:        firstString(node["recipeYield"]),
		PrepTime:     stringField(node, "prepTime"),
		CookTime:     stringField(node, "cookTime"),
		Cuisine:      firstString(node["recipeCuisine"]),
		Category:     firstString(node["recipeCategory"]),
	}
	if d.Title == "" {
		d.Title = "Unknown Recipe"
	}

	if rating, ok := node["aggregateRating"].(map[string]any); ok {
		d.Rating = numberField(rating, "ratingValue")
		count := numberField(rating, "ratingCount")
		if count == 0 {
			count = numberField(rating, "reviewCount")
		}
		d.RatingCount = int(count)
	}

	return d
}

// instructionList normalizes recipeInstructions into ordered step texts.
// Steps appear as plain strings, HowToStep objects, or HowToSection
// objects wrapping an itemListElement list.
func instructionList(v any) []string {
	var steps []string

	var walk func(any)
	walk = func(item any) {
		switch n := item.(type) {
		case string:
			if s := strings.TrimSpace(n); s != "" {
				steps = append(steps, s)
			}
		case []any:
			for _, sub := range n {
				walk(sub)
			}
		case map[string]any:
			if text := stringField(n, "text"); text != "" {
				steps = append(steps, text)
				return
			}
			walk(n["itemListElement"])
		}
	}
	walk(v)

	return steps
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s := strings.TrimSpace(firstString(v)); s != "" {
			return []string{s}
		}
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// imageURL resolves the image property, which may be a URL string, an
// ImageObject, or a list of either.
func imageURL(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case map[string]any:
		return stringField(n, "url")
	case []any:
		if len(n) > 0 {
			return imageURL(n[0])
		}
	}
	return ""
}

func stringField(node map[string]any, key string) string {
	if s, ok := node[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// firstString coerces a string-or-list property to its first value.
func firstString(v any) string {
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n)
	case []any:
		if len(n) > 0 {
			return firstString(n[0])
		}
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// numberField reads a numeric property that sites serialize as either a
// JSON number or a quoted string.
func numberField(node map[string]any, key string) float64 {
	switch n := node[key].(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	return 0
}
