package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any domain type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a secondary index on an entity.
//
// Unique indexes map one value to one entity id and are conflict-checked
// on write. Non-unique indexes append the entity id to the key so many
// entities can share one value; they are queried with ListByIndex.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string // Optional transformation for lookups
	unique          bool
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithUniqueIndex adds a conflict-checked one-to-one secondary index.
func (e *Entity[T]) WithUniqueIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
		unique: true,
	})
	return e
}

// WithUniqueIndexTransform adds a unique index with lookup transformation.
// The lookupTransform function is applied to search values before index
// lookup, enabling case-insensitive searches.
func (e *Entity[T]) WithUniqueIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
		unique:          true,
	})
	return e
}

// WithIndex adds a non-unique secondary index.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// indexKey builds the database key for one index entry.
func (e *Entity[T]) indexKey(idx Index[T], value, id string) string {
	key := e.prefix + "idx:" + idx.name + ":" + value
	if !idx.unique {
		key += ":" + id
	}
	return key
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if an entity with this ID already exists.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.createInTxn(txn, id, entity)
	})
}

// createInTxn performs Create inside an existing transaction so callers
// can compose multi-entity atomic writes.
func (e *Entity[T]) createInTxn(txn *badger.Txn, id string, entity *T) error {
	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	// Check if key already exists
	_, err = txn.Get([]byte(key))
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to check existing key: %w", err)
	}

	// Check for unique index conflicts
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		for _, indexValue := range idx.keyGen(entity) {
			idxKey := e.indexKey(idx, indexValue, id)
			_, err := txn.Get([]byte(idxKey))
			if err == nil {
				return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexValue, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}
		}
	}

	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	for _, idx := range e.indexes {
		for _, indexValue := range idx.keyGen(entity) {
			idxKey := e.indexKey(idx, indexValue, id)
			if err := txn.Set([]byte(idxKey), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}

	return nil
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity T
	err := e.store.db.View(func(txn *badger.Txn) error {
		found, err := e.getInTxn(txn, id)
		if err != nil {
			return err
		}
		entity = *found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// getInTxn performs Get inside an existing transaction.
func (e *Entity[T]) getInTxn(txn *badger.Txn, id string) (*T, error) {
	key := e.prefix + id

	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by a unique secondary index.
// If the index has a lookup transform, it is applied before lookup.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transformedValue := value
	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			transformedValue = idx.lookupTransform(value)
			break
		}
	}

	indexKey := []byte(e.prefix + "idx:" + indexName + ":" + transformedValue)

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// ListByIndex returns all entities whose non-unique index contains value.
func (e *Entity[T]) ListByIndex(ctx context.Context, indexName, value string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scanPrefix := []byte(e.prefix + "idx:" + indexName + ":" + value + ":")

	var results []*T
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(scanPrefix); it.ValidForPrefix(scanPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var id string
			err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			entity, err := e.getInTxn(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue // Dangling index entry
			}
			if err != nil {
				return err
			}
			results = append(results, entity)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// ScanIndexPrefix returns entities whose unique index value starts with
// valuePrefix, up to limit (0 means no limit). The index lookup
// transform, if any, is applied to the prefix first.
func (e *Entity[T]) ScanIndexPrefix(ctx context.Context, indexName, valuePrefix string, limit int) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			valuePrefix = idx.lookupTransform(valuePrefix)
			break
		}
	}

	scanPrefix := []byte(e.prefix + "idx:" + indexName + ":" + valuePrefix)

	var results []*T
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(scanPrefix); it.ValidForPrefix(scanPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && len(results) >= limit {
				return nil
			}

			var id string
			err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			entity, err := e.getInTxn(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			results = append(results, entity)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Update updates an existing entity.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.updateInTxn(txn, id, entity)
	})
}

// updateInTxn performs Update inside an existing transaction.
func (e *Entity[T]) updateInTxn(txn *badger.Txn, id string, entity *T) error {
	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	// Get the old entity to clean up old indexes
	oldEntity, err := e.getInTxn(txn, id)
	if err != nil {
		return err
	}

	// Delete old index keys
	for _, idx := range e.indexes {
		for _, indexValue := range idx.keyGen(oldEntity) {
			idxKey := e.indexKey(idx, indexValue, id)
			if err := txn.Delete([]byte(idxKey)); err != nil {
				return fmt.Errorf("failed to delete old index key: %w", err)
			}
		}
	}

	// Check for new unique index conflicts (excluding reused old keys)
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		oldKeys := make(map[string]bool)
		for _, k := range idx.keyGen(oldEntity) {
			oldKeys[k] = true
		}

		for _, indexValue := range idx.keyGen(entity) {
			if oldKeys[indexValue] {
				continue
			}

			idxKey := e.indexKey(idx, indexValue, id)
			_, err := txn.Get([]byte(idxKey))
			if err == nil {
				return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexValue, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}
		}
	}

	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	for _, idx := range e.indexes {
		for _, indexValue := range idx.keyGen(entity) {
			idxKey := e.indexKey(idx, indexValue, id)
			if err := txn.Set([]byte(idxKey), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}

	return nil
}

// Delete deletes an entity by ID.
// Idempotent: deleting a missing entity is not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.deleteInTxn(txn, id)
	})
}

// deleteInTxn performs Delete inside an existing transaction.
func (e *Entity[T]) deleteInTxn(txn *badger.Txn, id string) error {
	entity, err := e.getInTxn(txn, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, idx := range e.indexes {
		for _, indexValue := range idx.keyGen(entity) {
			idxKey := e.indexKey(idx, indexValue, id)
			if err := txn.Delete([]byte(idxKey)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}

	if err := txn.Delete([]byte(e.prefix + id)); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		//nolint:errcheck // Errors are delivered through the iterator
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys
				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(e.prefix):], "idx:") {
					continue
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}
