package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/config"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/search"
)

// SearchIndexHandle wraps the search index with Shutdownable.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Index.Close()
}

// ProvideSearchIndex provides the full-text shelf search index. The
// index lives next to the database and is rebuilt from the store on
// startup, so a deleted or stale index directory heals itself.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	idx, err := search.New(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}

	if err := reindexBooks(context.Background(), idx, storeHandle); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("reindex books: %w", err)
	}

	return &SearchIndexHandle{Index: idx}, nil
}

// reindexBooks walks every book in the store into the index. Indexing
// is idempotent, so books already present are simply overwritten.
func reindexBooks(ctx context.Context, idx *search.Index, storeHandle *StoreHandle) error {
	docs := make([]*search.Document, 0, 256)
	for book, err := range storeHandle.Store.Books.List(ctx) {
		if err != nil {
			return err
		}
		docs = append(docs, search.FromBook(book))
	}
	if len(docs) == 0 {
		return nil
	}
	return idx.IndexBooks(docs)
}
