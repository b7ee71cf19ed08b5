package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func page(jsonLD string) string {
	return `<!DOCTYPE html><html><head>
<script type="application/ld+json">` + jsonLD + `</script>
</head><body><h1>A recipe page</h1></body></html>`
}

const basicRecipe = `{
	"@context": "https://schema.org",
	"@type": "Recipe",
	"name": "Garlic Butter Shrimp",
	"description": "Shrimp in a garlic butter sauce.",
	"recipeIngredient": ["1 lb shrimp", "4 tbsp butter", "3 cloves garlic"],
	"recipeInstructions": ["Melt butter in a skillet.", "Add garlic and shrimp."],
	"image": "https://example.com/shrimp.jpg",
	"recipeYield": "4 servings",
	"prepTime": "PT10M",
	"cookTime": "PT8M",
	"recipeCuisine": "American",
	"recipeCategory": "Main Dish",
	"aggregateRating": {"@type": "AggregateRating", "ratingValue": "4.7", "reviewCount": 152}
}`

func TestExtract_BasicRecipe(t *testing.T) {
	srv := servePage(t, page(basicRecipe))
	e := NewExtractor(0)

	draft, err := e.Extract(context.Background(), srv.URL+"/shrimp")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if draft.Title != "Garlic Butter Shrimp" {
		t.Errorf("Title = %q", draft.Title)
	}
	if len(draft.Ingredients) != 3 {
		t.Errorf("Ingredients = %v, want 3 entries", draft.Ingredients)
	}
	if len(draft.Instructions) != 2 {
		t.Errorf("Instructions = %v, want 2 entries", draft.Instructions)
	}
	if draft.ImageURL != "https://example.com/shrimp.jpg" {
		t.Errorf("ImageURL = %q", draft.ImageURL)
	}
	if draft.Link != srv.URL+"/shrimp" {
		t.Errorf("Link = %q, want request URL", draft.Link)
	}
	if draft.Cuisine != "American" || draft.Category != "Main Dish" {
		t.Errorf("hints = %q/%q", draft.Cuisine, draft.Category)
	}
	// ratingValue arrives as a quoted string, reviewCount as a number.
	if draft.Rating != 4.7 {
		t.Errorf("Rating = %v, want 4.7", draft.Rating)
	}
	if draft.RatingCount != 152 {
		t.Errorf("RatingCount = %d, want 152", draft.RatingCount)
	}
}

func TestExtract_GraphContainer(t *testing.T) {
	graph := `{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Example Cooking"},
			{"@type": ["Recipe", "NewsArticle"], "name": "Graph Recipe",
			 "recipeIngredient": ["flour"], "recipeInstructions": ["Mix."]}
		]
	}`
	srv := servePage(t, page(graph))
	e := NewExtractor(0)

	draft, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if draft.Title != "Graph Recipe" {
		t.Errorf("Title = %q, want recipe from @graph", draft.Title)
	}
}

func TestExtract_HowToStepsAndSections(t *testing.T) {
	structured := `{
		"@type": "Recipe",
		"name": "Layer Cake",
		"recipeIngredient": ["flour", "sugar"],
		"recipeInstructions": [
			{"@type": "HowToStep", "text": "Preheat the oven."},
			{"@type": "HowToSection", "name": "Batter", "itemListElement": [
				{"@type": "HowToStep", "text": "Cream butter and sugar."},
				{"@type": "HowToStep", "text": "Fold in flour."}
			]}
		],
		"image": [{"@type": "ImageObject", "url": "https://example.com/cake.jpg"}]
	}`
	srv := servePage(t, page(structured))
	e := NewExtractor(0)

	draft, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{"Preheat the oven.", "Cream butter and sugar.", "Fold in flour."}
	if len(draft.Instructions) != len(want) {
		t.Fatalf("Instructions = %v, want %v", draft.Instructions, want)
	}
	for i := range want {
		if draft.Instructions[i] != want[i] {
			t.Errorf("Instructions[%d] = %q, want %q", i, draft.Instructions[i], want[i])
		}
	}
	if draft.ImageURL != "https://example.com/cake.jpg" {
		t.Errorf("ImageURL = %q, want url from ImageObject list", draft.ImageURL)
	}
}

func TestExtract_SkipsMalformedBlocks(t *testing.T) {
	body := `<!DOCTYPE html><html><head>
<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">` + basicRecipe + `</script>
</head><body></body></html>`
	srv := servePage(t, body)
	e := NewExtractor(0)

	draft, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if draft.Title != "Garlic Butter Shrimp" {
		t.Errorf("Title = %q, want recipe from second block", draft.Title)
	}
}

func TestExtract_NoRecipeMarkup(t *testing.T) {
	body := page(`{"@type": "NewsArticle", "headline": "Not a recipe"}`)
	srv := servePage(t, body)
	e := NewExtractor(0)

	_, err := e.Extract(context.Background(), srv.URL)
	if !errors.Is(err, ErrNoRecipeMarkup) {
		t.Errorf("err = %v, want ErrNoRecipeMarkup", err)
	}
}

func TestExtract_UnnamedRecipeGetsDefaultTitle(t *testing.T) {
	srv := servePage(t, page(`{"@type": "Recipe", "recipeIngredient": ["salt"]}`))
	e := NewExtractor(0)

	draft, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if draft.Title != "Unknown Recipe" {
		t.Errorf("Title = %q, want Unknown Recipe", draft.Title)
	}
}

func TestExtract_FetchFailures(t *testing.T) {
	e := NewExtractor(0)

	t.Run("invalid url", func(t *testing.T) {
		_, err := e.Extract(context.Background(), "not-a-url")
		if !errors.Is(err, ErrFetchFailed) {
			t.Errorf("err = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := e.Extract(context.Background(), srv.URL)
		if !errors.Is(err, ErrFetchFailed) {
			t.Errorf("err = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		_, err := e.Extract(context.Background(), "http://127.0.0.1:1/recipe")
		if !errors.Is(err, ErrFetchFailed) {
			t.Errorf("err = %v, want ErrFetchFailed", err)
		}
	})
}
