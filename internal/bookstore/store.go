package bookstore

import (
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/othello/internal/book"
)

const (
	nodePrefix = "node:"
	metaKey    = "meta"
)

// Store wraps BadgerDB for persisting a book.Book (spec.md §6
// "Persisted state: only the book file is written by the engine under
// normal play"). Grounded on internal/storage/storage.go's Storage
// type: badger.Open with logging disabled, transaction-scoped
// Get/Set, JSON-encoded values — generalized from a single
// preferences/stats record per key to one record per book node plus a
// metadata record.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a BadgerDB database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type meta struct {
	DrawMode   book.DrawMode `json:"draw_mode"`
	GameMode   book.GameMode `json:"game_mode"`
	SlackBlack int           `json:"slack_black"`
	SlackWhite int           `json:"slack_white"`
	Seed       uint64        `json:"seed"`
}

func nodeKey(h1, h2 uint32) []byte {
	key := make([]byte, len(nodePrefix)+8)
	n := copy(key, nodePrefix)
	binary.BigEndian.PutUint32(key[n:], h1)
	binary.BigEndian.PutUint32(key[n+4:], h2)
	return key
}

// Save writes every node of bk plus its slack/draw/game-mode
// configuration and PRNG seed into the database in a single
// transaction.
func (s *Store) Save(bk *book.Book, seed uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, n := range bk.AllNodes() {
			data, err := json.Marshal(n)
			if err != nil {
				return err
			}
			if err := txn.Set(nodeKey(n.H1, n.H2), data); err != nil {
				return err
			}
		}

		m := meta{
			DrawMode:   bk.DrawMode,
			GameMode:   bk.GameMode,
			SlackBlack: bk.SlackBlack,
			SlackWhite: bk.SlackWhite,
			Seed:       seed,
		}
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		return txn.Set([]byte(metaKey), data)
	})
}

// Load reconstructs a book.Book from every node stored under
// nodePrefix, restoring its slack/draw/game-mode configuration and
// PRNG seed from the metadata record. Returns ok=false (with a fresh,
// empty book) if no book has ever been saved at dir — analogous to
// spec.md §7's NotInBook being "ordinary control flow, not an error".
func Load(dir string) (bk *book.Book, ok bool, err error) {
	s, err := Open(dir)
	if err != nil {
		return nil, false, err
	}
	defer s.Close()

	var m meta
	found := false
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return book.New(0), false, nil
	}

	bk = book.New(m.Seed)
	bk.DrawMode = m.DrawMode
	bk.GameMode = m.GameMode
	bk.SlackBlack = m.SlackBlack
	bk.SlackWhite = m.SlackWhite

	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(nodePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var n book.BookNode
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			bk.AppendNode(n)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return bk, true, nil
}
