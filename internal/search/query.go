package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a shelf search.
type Params struct {
	// OwnerID scopes the search to one user's shelf. Required.
	OwnerID string
	// Query is the user's search text.
	Query string

	// Pagination
	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults for an owner's search.
func DefaultParams(ownerID string) Params {
	return Params{
		OwnerID: ownerID,
		Limit:   50,
		Offset:  0,
	}
}

// Result holds the matching book IDs in relevance order.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a single matching book.
type Hit struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
}

// Search executes an owner-scoped search.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	if params.OwnerID == "" {
		return nil, fmt.Errorf("search requires an owner id")
	}
	if params.Limit <= 0 {
		params.Limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"title", "author"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			h.Author = a
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildQuery constructs the Bleve query: an exact owner term ANDed with
// a disjunction over title and author, with fuzzy and prefix variants
// for typo tolerance and as-you-type search.
func buildQuery(params Params) query.Query {
	ownerTerm := bleve.NewTermQuery(params.OwnerID)
	ownerTerm.SetField("owner_id")

	if params.Query == "" {
		return ownerTerm
	}

	var textQueries []query.Query

	titleMatch := bleve.NewMatchQuery(params.Query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	textQueries = append(textQueries, titleMatch)

	authorMatch := bleve.NewMatchQuery(params.Query)
	authorMatch.SetField("author")
	authorMatch.SetBoost(2.0)
	textQueries = append(textQueries, authorMatch)

	descMatch := bleve.NewMatchQuery(params.Query)
	descMatch.SetField("description")
	descMatch.SetBoost(0.5)
	textQueries = append(textQueries, descMatch)

	// Typo tolerance on title
	fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(params.Query))
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)
	textQueries = append(textQueries, fuzzyQuery)

	// Prefix query for autocomplete (minimum 2 chars)
	if len(params.Query) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
		prefixQuery.SetField("title")
		prefixQuery.SetBoost(0.5)
		textQueries = append(textQueries, prefixQuery)
	}

	return bleve.NewConjunctionQuery(ownerTerm, bleve.NewDisjunctionQuery(textQueries...))
}
