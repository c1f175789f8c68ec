// Package badgerstore adapts github.com/dgraph-io/badger/v4, an embedded
// on-disk key-value engine, to the store.Store[K, V] contract. It is kept in
// its own subpackage so that callers who only need store.MemStore never link
// Badger into their binary.
package badgerstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/qntx/avlstore/store"
)

// Sentinel errors of this package. Open and Close return Badger's own error
// wrapped with %w, not these. Per-key failures inside the store.Store
// methods have nowhere to return an error (that interface has none), so they
// panic instead.
var (
	// ErrClosed names a closed database. No function in this package
	// returns it.
	ErrClosed = errors.New("badgerstore: database is closed")
)

// Codec converts a value of type T to and from bytes. Store uses one Codec
// for keys and one for values, so callers may swap either independently of
// the other.
type Codec[T any] struct {
	Encode func(T) ([]byte, error)
	Decode func([]byte) (T, error)
}

// JSONCodec builds a Codec backed by encoding/json, the serialization this
// module reaches for everywhere else it needs one.
func JSONCodec[T any]() Codec[T] {
	return Codec[T]{
		Encode: json.Marshal,
		Decode: func(b []byte) (T, error) {
			var v T
			err := json.Unmarshal(b, &v)
			return v, err
		},
	}
}

// record is the on-disk shape of one node: its Links and its value, encoded
// together under the node's own key. Keeping them in one record means a
// single badger.Item covers both store.Store.Get and the structural-only
// SetLinks write, at the cost of re-encoding the value on every SetLinks —
// acceptable since SetLinks only ever touches one node per cache entry, and
// the write-back cache already bounds how many of those there are per
// operation.
type record[K any, V any] struct {
	Links store.Links[K] `json:"links"`
	Value V              `json:"value"`
}

// Store is a store.Store[K, V] backed by a Badger database. The zero value
// is not usable; construct one with Open.
type Store[K comparable, V any] struct {
	db    *badger.DB
	keys  Codec[K]
	vals  Codec[V]
	count atomic.Int64
}

var _ store.Store[int, int] = (*Store[int, int])(nil)

// Open opens (and creates, if absent) a Badger database at dir and wraps it
// as a Store. keys and vals are the codecs used to serialize the key and
// value types; JSONCodec is the usual choice.
func Open[K comparable, V any](dir string, keys Codec[K], vals Codec[V]) (*Store[K, V], error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open %s: %w", dir, err)
	}

	s := &Store[K, V]{db: db, keys: keys, vals: vals}

	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		n := int64(0)
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}

		s.count.Store(n)

		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("badgerstore: count existing keys: %w", err)
	}

	return s, nil
}

// Close flushes and closes the underlying database.
func (s *Store[K, V]) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badgerstore: close: %w", err)
	}

	return nil
}

func (s *Store[K, V]) encodeKey(key K) []byte {
	b, err := s.keys.Encode(key)
	if err != nil {
		panic(fmt.Sprintf("badgerstore: encode key %v: %v", key, err))
	}

	return b
}

func (s *Store[K, V]) get(txn *badger.Txn, key K) (record[K, V], bool) {
	item, err := txn.Get(s.encodeKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return record[K, V]{}, false
	}

	if err != nil {
		panic(fmt.Sprintf("badgerstore: get %v: %v", key, err))
	}

	var rec record[K, V]

	if err := item.Value(func(val []byte) error {
		v, err := s.decodeRecord(val)
		if err != nil {
			return err
		}

		rec = v

		return nil
	}); err != nil {
		panic(fmt.Sprintf("badgerstore: decode %v: %v", key, err))
	}

	return rec, true
}

func (s *Store[K, V]) decodeRecord(raw []byte) (record[K, V], error) {
	var wire struct {
		Links store.Links[K]  `json:"links"`
		Value json.RawMessage `json:"value"`
	}

	if err := json.Unmarshal(raw, &wire); err != nil {
		return record[K, V]{}, err
	}

	value, err := s.vals.Decode(wire.Value)
	if err != nil {
		return record[K, V]{}, err
	}

	return record[K, V]{Links: wire.Links, Value: value}, nil
}

func (s *Store[K, V]) encodeRecord(rec record[K, V]) []byte {
	valBytes, err := s.vals.Encode(rec.Value)
	if err != nil {
		panic(fmt.Sprintf("badgerstore: encode value: %v", err))
	}

	wire := struct {
		Links store.Links[K]  `json:"links"`
		Value json.RawMessage `json:"value"`
	}{Links: rec.Links, Value: valBytes}

	b, err := json.Marshal(wire)
	if err != nil {
		panic(fmt.Sprintf("badgerstore: marshal record: %v", err))
	}

	return b
}

func (s *Store[K, V]) put(txn *badger.Txn, key K, rec record[K, V]) {
	if err := txn.Set(s.encodeKey(key), s.encodeRecord(rec)); err != nil {
		panic(fmt.Sprintf("badgerstore: put %v: %v", key, err))
	}
}

// Get implements store.Store.
func (s *Store[K, V]) Get(key K) (store.Node[K, V], bool) {
	var (
		rec record[K, V]
		ok  bool
	)

	if err := s.db.View(func(txn *badger.Txn) error {
		rec, ok = s.get(txn, key)
		return nil
	}); err != nil {
		panic(fmt.Sprintf("badgerstore: Get %v: %v", key, err))
	}

	if !ok {
		return store.Node[K, V]{}, false
	}

	return store.Node[K, V]{Key: key, Value: rec.Value, Links: rec.Links}, true
}

// Insert implements store.Store.
func (s *Store[K, V]) Insert(key K, node store.Node[K, V]) {
	var existed bool

	if err := s.db.Update(func(txn *badger.Txn) error {
		_, existed = s.get(txn, key)
		s.put(txn, key, record[K, V]{Links: node.Links, Value: node.Value})

		return nil
	}); err != nil {
		panic(fmt.Sprintf("badgerstore: Insert %v: %v", key, err))
	}

	if !existed {
		s.count.Add(1)
	}
}

// Remove implements store.Store.
func (s *Store[K, V]) Remove(key K) (store.Node[K, V], bool) {
	var (
		rec record[K, V]
		ok  bool
	)

	if err := s.db.Update(func(txn *badger.Txn) error {
		rec, ok = s.get(txn, key)
		if !ok {
			return nil
		}

		return txn.Delete(s.encodeKey(key))
	}); err != nil {
		panic(fmt.Sprintf("badgerstore: Remove %v: %v", key, err))
	}

	if !ok {
		return store.Node[K, V]{}, false
	}

	s.count.Add(-1)

	return store.Node[K, V]{Key: key, Value: rec.Value, Links: rec.Links}, true
}

// SetLinks implements store.Store. Panics if key is not present, matching
// MemStore's contract: a structural write-back always targets a node the
// tree already knows about.
func (s *Store[K, V]) SetLinks(key K, links store.Links[K]) {
	if err := s.db.Update(func(txn *badger.Txn) error {
		rec, ok := s.get(txn, key)
		if !ok {
			panic(fmt.Sprintf("badgerstore: SetLinks on missing key %v", key))
		}

		rec.Links = links
		s.put(txn, key, rec)

		return nil
	}); err != nil {
		panic(fmt.Sprintf("badgerstore: SetLinks %v: %v", key, err))
	}
}

// SetValue implements store.Store. Panics if key is not present.
func (s *Store[K, V]) SetValue(key K, value V) {
	if err := s.db.Update(func(txn *badger.Txn) error {
		rec, ok := s.get(txn, key)
		if !ok {
			panic(fmt.Sprintf("badgerstore: SetValue on missing key %v", key))
		}

		rec.Value = value
		s.put(txn, key, rec)

		return nil
	}); err != nil {
		panic(fmt.Sprintf("badgerstore: SetValue %v: %v", key, err))
	}
}

// Len implements store.Store. The count is maintained in memory alongside
// the database rather than recomputed per call, since Badger has no native
// O(1) key count.
func (s *Store[K, V]) Len() int {
	return int(s.count.Load())
}
