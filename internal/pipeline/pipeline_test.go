package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/forkful/recipe-mcp-server/internal/docstore"
	"github.com/forkful/recipe-mcp-server/internal/enrich"
	"github.com/forkful/recipe-mcp-server/internal/recipe"
	"github.com/forkful/recipe-mcp-server/internal/vecstore"
)

// Fakes for each collaborator. All state is per-test.

type fakeExtractor struct {
	draft *recipe.Draft
	err   error
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (*recipe.Draft, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := *f.draft
	d.Link = url
	return &d, nil
}

type fakeEnricher struct {
	branch enrich.Branch
}

func (f *fakeEnricher) Enrich(ctx context.Context, draft *recipe.Draft) (*recipe.Enriched, enrich.Branch) {
	if f.branch == enrich.BranchFallback {
		return enrich.Fallback(draft), enrich.BranchFallback
	}
	return &recipe.Enriched{
		Draft:           *draft,
		Cuisine:         "Italian",
		Category:        "Main Dish",
		DifficultyLevel: 4,
		Servings:        4,
		PrepTime:        "15 minutes",
		CookTime:        "20 minutes",
		TotalTime:       "35 minutes",
		Rating:          4.5,
		RatingCount:     100,
		Relevance:       recipe.Relevance{Family: 0.8, Single: 0.6, Health: 0.5},
		Tags:            []string{"pasta"},
	}, enrich.BranchModel
}

type fakePrompts struct{}

func (fakePrompts) Generate(ctx context.Context, r *recipe.Enriched) string {
	return "prompt for " + r.Title
}

type fakeEmbedder struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, vecstore.VectorDimension), nil
}

type fakeDocStore struct {
	mu        sync.Mutex
	upsertErr error
	records   map[string]*docstore.Record
	nextID    int
	byLink    map[string]string
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		records: make(map[string]*docstore.Record),
		byLink:  make(map[string]string),
	}
}

func (f *fakeDocStore) UpsertByLink(ctx context.Context, rec *docstore.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return "", f.upsertErr
	}
	id, ok := f.byLink[rec.Link]
	if !ok {
		f.nextID++
		id = fmt.Sprintf("doc-%d", f.nextID)
		f.byLink[rec.Link] = id
	}
	f.records[id] = rec
	return id, nil
}

func (f *fakeDocStore) GetByID(ctx context.Context, id string) (*docstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, docstore.ErrRecipeNotFound
	}
	return rec, nil
}

type fakeVectorIndex struct {
	mu        sync.Mutex
	upsertErr error
	searchErr error
	points    map[string]*vecstore.Point
	results   []*vecstore.ScoredRecipe
}

func newFakeVectorIndex() *fakeVectorIndex {
	return &fakeVectorIndex{points: make(map[string]*vecstore.Point)}
}

func (f *fakeVectorIndex) Upsert(ctx context.Context, p *vecstore.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.points[p.DocID] = p
	return nil
}

func (f *fakeVectorIndex) Search(ctx context.Context, vector []float32, limit int) ([]*vecstore.ScoredRecipe, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.results) > limit {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func testPipeline(ext *fakeExtractor, enr *fakeEnricher, emb *fakeEmbedder, docs *fakeDocStore, vecs *fakeVectorIndex) *Pipeline {
	return New(ext, enr, fakePrompts{}, emb, docs, vecs, nil)
}

func sampleDraft() *recipe.Draft {
	return &recipe.Draft{
		Title:        "Carbonara",
		Summary:      "Roman pasta.",
		Ingredients:  []string{"spaghetti", "eggs"},
		Instructions: []string{"Boil.", "Mix."},
	}
}

func TestExtractAndStore_Success(t *testing.T) {
	docs := newFakeDocStore()
	vecs := newFakeVectorIndex()
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{}, &fakeEmbedder{}, docs, vecs)

	result, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
	if err != nil {
		t.Fatalf("ExtractAndStore failed: %v", err)
	}

	if result.RecipeID == "" {
		t.Error("RecipeID empty")
	}
	if !result.VectorStored {
		t.Error("VectorStored = false, want true")
	}
	if result.Enrichment != enrich.BranchModel {
		t.Errorf("Enrichment = %s, want model", result.Enrichment)
	}

	rec := docs.records[result.RecipeID]
	if rec == nil {
		t.Fatal("document not stored")
	}
	if rec.EmbeddingPrompt != "prompt for Carbonara" {
		t.Errorf("EmbeddingPrompt = %q", rec.EmbeddingPrompt)
	}
	if !rec.VectorEmbedded {
		t.Error("VectorEmbedded = false")
	}
	if vecs.points[result.RecipeID] == nil {
		t.Error("vector not stored under the document id")
	}
}

// TestExtractAndStore_Idempotent verifies re-ingesting the same URL
// replaces the record under its existing id.
func TestExtractAndStore_Idempotent(t *testing.T) {
	docs := newFakeDocStore()
	vecs := newFakeVectorIndex()
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{}, &fakeEmbedder{}, docs, vecs)

	first, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
	if err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	second, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	if first.RecipeID != second.RecipeID {
		t.Errorf("ids differ across re-ingest: %s vs %s", first.RecipeID, second.RecipeID)
	}
	if len(docs.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(docs.records))
	}
}

func TestExtractAndStore_ExtractionFailure(t *testing.T) {
	docs := newFakeDocStore()
	p := testPipeline(&fakeExtractor{err: errors.New("no markup")}, &fakeEnricher{}, &fakeEmbedder{}, docs, newFakeVectorIndex())

	_, err := p.ExtractAndStore(context.Background(), "https://example.com/blog-post")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("err = %v, want ErrExtractionFailed", err)
	}
	if len(docs.records) != 0 {
		t.Error("extraction failure must not persist anything")
	}
}

func TestExtractAndStore_FallbackEnrichmentStillStores(t *testing.T) {
	docs := newFakeDocStore()
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{branch: enrich.BranchFallback}, &fakeEmbedder{}, docs, newFakeVectorIndex())

	result, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
	if err != nil {
		t.Fatalf("ExtractAndStore failed: %v", err)
	}
	if result.Enrichment != enrich.BranchFallback {
		t.Errorf("Enrichment = %s, want fallback", result.Enrichment)
	}

	rec := docs.records[result.RecipeID]
	if rec.Category != enrich.FallbackCategory {
		t.Errorf("Category = %q, want fallback default", rec.Category)
	}
	if rec.DifficultyLevel != enrich.FallbackDifficulty {
		t.Errorf("DifficultyLevel = %d, want fallback default", rec.DifficultyLevel)
	}
}

func TestExtractAndStore_DocumentPersistFailure(t *testing.T) {
	docs := newFakeDocStore()
	docs.upsertErr = errors.New("connection reset")
	vecs := newFakeVectorIndex()
	emb := &fakeEmbedder{}
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{}, emb, docs, vecs)

	_, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
	if !errors.Is(err, ErrDocumentPersistFailed) {
		t.Errorf("err = %v, want ErrDocumentPersistFailed", err)
	}
	if len(vecs.points) != 0 {
		t.Error("vector write attempted after document persist failure")
	}
}

func TestExtractAndStore_EmbeddingFailure(t *testing.T) {
	docs := newFakeDocStore()
	vecs := newFakeVectorIndex()
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{}, &fakeEmbedder{err: errors.New("rate limited")}, docs, vecs)

	_, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("err = %v, want ErrEmbeddingFailed", err)
	}
	// Single-attempt semantics leave the document behind.
	if len(docs.records) != 1 {
		t.Errorf("store holds %d records, want the already-committed document", len(docs.records))
	}
	if len(vecs.points) != 0 {
		t.Error("no vector should be stored")
	}
}

// TestExtractAndStore_VectorFailureIsPartialSuccess verifies a failed
// vector write reports success with VectorStored false instead of an
// error.
func TestExtractAndStore_VectorFailureIsPartialSuccess(t *testing.T) {
	docs := newFakeDocStore()
	vecs := newFakeVectorIndex()
	vecs.upsertErr = errors.New("qdrant unavailable")
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{}, &fakeEmbedder{}, docs, vecs)

	result, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
	if err != nil {
		t.Fatalf("vector failure must not surface as an error, got %v", err)
	}
	if result.VectorStored {
		t.Error("VectorStored = true, want false")
	}
	if docs.records[result.RecipeID] == nil {
		t.Error("document should remain retrievable by id")
	}
}

func TestSearch_ReturnsRankedHits(t *testing.T) {
	vecs := newFakeVectorIndex()
	vecs.results = []*vecstore.ScoredRecipe{
		{DocID: "doc-1", Title: "First", Score: 0.95},
		{DocID: "doc-2", Title: "Second", Score: 0.88},
	}
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, &fakeEmbedder{}, newFakeDocStore(), vecs)

	hits, err := p.Search(context.Background(), "pasta dinner")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ID != "doc-1" || hits[0].Score != 0.95 {
		t.Errorf("hits[0] = %+v", hits[0])
	}
}

func TestSearch_LimitEnforced(t *testing.T) {
	vecs := newFakeVectorIndex()
	for i := 0; i < 10; i++ {
		vecs.results = append(vecs.results, &vecstore.ScoredRecipe{DocID: fmt.Sprintf("doc-%d", i)})
	}
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, &fakeEmbedder{}, newFakeDocStore(), vecs)

	hits, err := p.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) > SearchLimit {
		t.Errorf("got %d hits, limit is %d", len(hits), SearchLimit)
	}
}

// TestSearch_IndexFailureYieldsEmptyList verifies an unavailable index
// degrades to no results rather than an error.
func TestSearch_IndexFailureYieldsEmptyList(t *testing.T) {
	vecs := newFakeVectorIndex()
	vecs.searchErr = errors.New("connection refused")
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, &fakeEmbedder{}, newFakeDocStore(), vecs)

	hits, err := p.Search(context.Background(), "pasta")
	if err != nil {
		t.Fatalf("index failure must not surface, got %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

func TestSearch_EmbeddingFailureIsFatal(t *testing.T) {
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, &fakeEmbedder{err: errors.New("down")}, newFakeDocStore(), newFakeVectorIndex())

	_, err := p.Search(context.Background(), "pasta")
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("err = %v, want ErrEmbeddingFailed", err)
	}
}

// TestSimilar_ReusesStoredPrompt verifies the stored embedding prompt
// is embedded verbatim rather than regenerated.
func TestSimilar_ReusesStoredPrompt(t *testing.T) {
	docs := newFakeDocStore()
	docs.records["doc-1"] = &docstore.Record{
		Title:           "Carbonara",
		EmbeddingPrompt: "the canonical prompt",
	}
	emb := &fakeEmbedder{}
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, emb, docs, newFakeVectorIndex())

	if _, err := p.Similar(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(emb.calls) != 1 || emb.calls[0] != "the canonical prompt" {
		t.Errorf("embedded %v, want the stored prompt", emb.calls)
	}
}

func TestSimilar_LegacyRecordWithoutPrompt(t *testing.T) {
	docs := newFakeDocStore()
	docs.records["doc-1"] = &docstore.Record{
		Title:       "Carbonara",
		Summary:     "Roman pasta.",
		Ingredients: []string{"spaghetti", "eggs"},
	}
	emb := &fakeEmbedder{}
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, emb, docs, newFakeVectorIndex())

	if _, err := p.Similar(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(emb.calls) != 1 || emb.calls[0] != "Carbonara Roman pasta. spaghetti eggs" {
		t.Errorf("embedded %v, want title+summary+ingredients", emb.calls)
	}
}

// TestSimilar_ExcludesSelf verifies the source recipe never appears in
// its own similarity results.
func TestSimilar_ExcludesSelf(t *testing.T) {
	docs := newFakeDocStore()
	docs.records["doc-1"] = &docstore.Record{Title: "Carbonara", EmbeddingPrompt: "p"}
	vecs := newFakeVectorIndex()
	vecs.results = []*vecstore.ScoredRecipe{
		{DocID: "doc-1", Title: "Carbonara", Score: 1.0},
		{DocID: "doc-2", Title: "Cacio e Pepe", Score: 0.9},
	}
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, &fakeEmbedder{}, docs, vecs)

	hits, err := p.Similar(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "doc-2" {
		t.Errorf("hits = %+v, want only doc-2", hits)
	}
}

func TestSimilar_UnknownRecipeYieldsEmptyList(t *testing.T) {
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, &fakeEmbedder{}, newFakeDocStore(), newFakeVectorIndex())

	hits, err := p.Similar(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unknown id must not surface as an error, got %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

// TestSimilarFromURL_DoesNotPersist verifies the ad hoc path stores
// neither a document nor a vector.
func TestSimilarFromURL_DoesNotPersist(t *testing.T) {
	docs := newFakeDocStore()
	vecs := newFakeVectorIndex()
	vecs.results = []*vecstore.ScoredRecipe{{DocID: "doc-9", Title: "Match", Score: 0.8}}
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{}, &fakeEmbedder{}, docs, vecs)

	hits, err := p.SimilarFromURL(context.Background(), "https://example.com/new")
	if err != nil {
		t.Fatalf("SimilarFromURL failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("got %d hits, want 1", len(hits))
	}
	if len(docs.records) != 0 || len(vecs.points) != 0 {
		t.Error("ad hoc similarity must not persist anything")
	}
}

// TestExtractAndStore_ConcurrentSameLink verifies concurrent ingestion
// of the same URL converges on one record and one vector point.
func TestExtractAndStore_ConcurrentSameLink(t *testing.T) {
	docs := newFakeDocStore()
	vecs := newFakeVectorIndex()
	p := testPipeline(&fakeExtractor{draft: sampleDraft()}, &fakeEnricher{}, &fakeEmbedder{}, docs, vecs)

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := p.ExtractAndStore(context.Background(), "https://example.com/carbonara")
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			ids[i] = result.RecipeID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("workers got different ids: %v", ids)
		}
	}
	if len(docs.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(docs.records))
	}
	if len(vecs.points) != 1 {
		t.Errorf("index holds %d points, want 1", len(vecs.points))
	}
}

func TestGetByID_NotFound(t *testing.T) {
	p := testPipeline(&fakeExtractor{}, &fakeEnricher{}, &fakeEmbedder{}, newFakeDocStore(), newFakeVectorIndex())

	_, err := p.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("err = %v, want ErrRecipeNotFound", err)
	}
}
