package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/dgraph-io/badger/v4"
	uuid "github.com/satori/go.uuid"

	"github.com/mayhemheroes/chess-rs/internal/board"
)

// Key prefixes
const (
	prefixGame     = "game/"
	prefixPosition = "pos/"
)

// ErrNotFound is returned when a requested game or position is not stored.
var ErrNotFound = errors.New("not found")

// GameRecord is the persisted form of a game: where it started and the
// moves played since, in UCI notation.
type GameRecord struct {
	ID        uuid.UUID `json:"id"`
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	FEN       string    `json:"fen"` // position after the last move
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir opens an in-memory database
// that disappears on Close.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id uuid.UUID) []byte {
	return []byte(prefixGame + id.String())
}

func positionKey(hash uint64) []byte {
	return []byte(prefixPosition + strconv.FormatUint(hash, 16))
}

// SaveGame stores rec, assigning an ID and creation time when missing.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if uuid.Equal(rec.ID, uuid.Nil) {
		rec.ID = uuid.NewV4()
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		now := time.Now()
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
			// Keep the creation time of an earlier save.
			if item, err := txn.Get(gameKey(rec.ID)); err == nil {
				var prev GameRecord
				err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &prev)
				})
				if err != nil {
					return err
				}
				rec.CreatedAt = prev.CreatedAt
			} else if err != badger.ErrKeyNotFound {
				return err
			}
		}
		rec.UpdatedAt = now

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(gameKey(rec.ID), data)
	})
	if err != nil {
		return fmt.Errorf("save game %s: %w", rec.ID, err)
	}

	log.WithFields(log.Fields{
		"id":    rec.ID.String(),
		"moves": len(rec.Moves),
	}).Debug("saved game")
	return nil
}

// LoadGame returns the game stored under id.
func (s *Storage) LoadGame(id uuid.UUID) (*GameRecord, error) {
	rec := &GameRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ListGames returns every stored game, most recently updated first.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixGame)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].UpdatedAt.After(games[j].UpdatedAt)
	})
	return games, nil
}

// DeleteGame removes the game stored under id.
func (s *Storage) DeleteGame(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("game %s: %w", id, ErrNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// SavePosition stores a snapshot of pos keyed by its Zobrist hash and
// returns the key. The undo log is not part of the snapshot.
func (s *Storage) SavePosition(pos *board.Position) (uint64, error) {
	hash := pos.Hash()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(positionKey(hash), []byte(pos.FEN()))
	})
	if err != nil {
		return 0, fmt.Errorf("save position %016x: %w", hash, err)
	}
	return hash, nil
}

// LoadPosition returns the snapshot stored under key.
func (s *Storage) LoadPosition(key uint64) (*board.Position, error) {
	var fen []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(positionKey(key))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("position %016x: %w", key, ErrNotFound)
		}
		if err != nil {
			return err
		}
		fen, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return board.ParseFEN(string(fen))
}
