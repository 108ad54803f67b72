package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for book documents.
//
// Title and author get English stemming for full-text search, owner and
// genre slugs use the keyword analyzer for exact filtering, and the
// numeric fields support range queries and recency sorting.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Description is searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Publisher gets the simple analyzer (no stemming)
	publisherFieldMapping := bleve.NewTextFieldMapping()
	publisherFieldMapping.Analyzer = simple.Name
	publisherFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("publisher", publisherFieldMapping)

	// --- Keyword fields (exact match) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Owner scoping filter, every query includes an exact term on this
	ownerFieldMapping := bleve.NewTextFieldMapping()
	ownerFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("owner_id", ownerFieldMapping)

	// Keyword analyzer keeps compound slugs intact (e.g., "science-fiction")
	genreSlugsFieldMapping := bleve.NewTextFieldMapping()
	genreSlugsFieldMapping.Analyzer = keyword.Name
	genreSlugsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genre_slugs", genreSlugsFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publish_year", yearFieldMapping)

	addedAtFieldMapping := bleve.NewNumericFieldMapping()
	addedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("added_at", addedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
