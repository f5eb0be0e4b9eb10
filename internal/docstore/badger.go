package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerStore keeps documents in an embedded badger database under
// "doc/<collection>/<uuidv7>" keys, so a prefix scan returns them in
// insertion order.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens the database at path. An empty path keeps everything in
// memory.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func prefix(collection string) []byte {
	return []byte("doc/" + collection + "/")
}

func (s *BadgerStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if !ValidCollection(collection) {
		return "", ErrInvalidCollection
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	stored := make(Document, len(doc)+2)
	for k, v := range doc {
		stored[k] = v
	}
	stored["_id"] = id.String()
	stored[TimestampField] = time.Now().UTC()

	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	key := append(prefix(collection), id.String()...)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *BadgerStore) Find(ctx context.Context, collection, query string, limit int) ([]Document, error) {
	if !ValidCollection(collection) {
		return nil, ErrInvalidCollection
	}
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}
	ts := terms(query)

	out := []Document{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := prefix(collection)
		for it.Seek(p); it.ValidForPrefix(p) && len(out) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc Document
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				return err
			}
			if len(ts) > 0 && !matches(doc, ts) {
				continue
			}
			out = append(out, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) Close(ctx context.Context) error {
	return s.db.Close()
}
