// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	itemKeyPrefix       = "item:"
	userKeyPrefix       = "user:"
	ratingKeyPrefix     = "rating:"
	ratingItemKeyPrefix = "rating_item:"

	// keySep separates the two ids of a composite key. Ids never contain NUL.
	keySep = "\x00"
)

// BadgerStore implements Store on an embedded BadgerDB.
//
// Ratings are stored under rating:<user>\x00<item> with a value-less
// secondary key rating_item:<item>\x00<user> for per-item scans.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadgerStore opens (or creates) a Badger database in dir. An empty
// dir opens an in-memory database.
func OpenBadgerStore(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	logger.Info().Str("path", dir).Bool("in_memory", dir == "").Msg("Badger store opened")
	return NewBadgerStore(db, logger), nil
}

// NewBadgerStore wraps an open database. The store owns db afterwards.
func NewBadgerStore(db *badger.DB, logger zerolog.Logger) *BadgerStore {
	return &BadgerStore{db: db, logger: logger}
}

func ratingKeyFor(userID, itemID string) []byte {
	return []byte(ratingKeyPrefix + userID + keySep + itemID)
}

func ratingItemKeyFor(itemID, userID string) []byte {
	return []byte(ratingItemKeyPrefix + itemID + keySep + userID)
}

func (s *BadgerStore) SyncItems(_ context.Context, items []models.Item) error {
	keep := make(map[string]bool, len(items))
	for _, it := range items {
		keep[it.ID] = true
	}

	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(itemKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !keep[strings.TrimPrefix(string(key), itemKeyPrefix)] {
				stale = append(stale, key)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan items: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("delete stale item: %w", err)
		}
	}
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}
		if err := wb.Set([]byte(itemKeyPrefix+it.ID), data); err != nil {
			return fmt.Errorf("set item: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush items: %w", err)
	}

	s.logger.Debug().Int("items", len(items)).Int("removed", len(stale)).Msg("Catalog synced")
	return nil
}

// getJSON decodes the value at key into v, mapping a missing key to notFound.
func getJSON(txn *badger.Txn, key []byte, v interface{}, notFound error) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("get %q: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func (s *BadgerStore) GetItem(_ context.Context, id string) (models.Item, error) {
	var it models.Item
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(itemKeyPrefix+id), &it, models.NewNotFoundError("item", id))
	})
	return it, err
}

func (s *BadgerStore) ListItems(_ context.Context, language string) ([]models.Item, error) {
	out := make([]models.Item, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(itemKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item models.Item
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode item: %w", err)
			}
			if language == "" || item.Language == language {
				out = append(out, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	sortItems(out)
	return out, nil
}

func (s *BadgerStore) PutUser(_ context.Context, u models.User) (models.User, bool, error) {
	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(userKeyPrefix + u.ID)
		var existing models.User
		err := getJSON(txn, key, &existing, errNotFoundSentinel)
		switch {
		case errors.Is(err, errNotFoundSentinel):
			created = true
		case err != nil:
			return err
		default:
			u.CreatedAt = existing.CreatedAt
		}
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return models.User{}, false, err
	}
	return u, created, nil
}

// errNotFoundSentinel marks a missing key inside a read-modify-write txn.
var errNotFoundSentinel = errors.New("key not found")

func (s *BadgerStore) GetUser(_ context.Context, id string) (models.User, error) {
	var u models.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(userKeyPrefix+id), &u, models.NewNotFoundError("user", id))
	})
	return u, err
}

func (s *BadgerStore) UpsertRating(_ context.Context, ev models.RatingEvent) (models.RatingEvent, error) {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := ratingKeyFor(ev.UserID, ev.ItemID)
		var existing models.RatingEvent
		err := getJSON(txn, key, &existing, errNotFoundSentinel)
		switch {
		case errors.Is(err, errNotFoundSentinel):
		case err != nil:
			return err
		default:
			ev.CreatedAt = existing.CreatedAt
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal rating: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set rating: %w", err)
		}
		return txn.Set(ratingItemKeyFor(ev.ItemID, ev.UserID), nil)
	})
	if err != nil {
		return models.RatingEvent{}, err
	}
	return ev, nil
}

func (s *BadgerStore) GetRating(_ context.Context, userID, itemID string) (models.RatingEvent, error) {
	var ev models.RatingEvent
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, ratingKeyFor(userID, itemID), &ev, models.NewNotFoundError("rating", userID+"/"+itemID))
	})
	return ev, err
}

func (s *BadgerStore) DeleteRating(_ context.Context, userID, itemID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := ratingKeyFor(userID, itemID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return models.NewNotFoundError("rating", userID+"/"+itemID)
		} else if err != nil {
			return fmt.Errorf("get rating: %w", err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete rating: %w", err)
		}
		return txn.Delete(ratingItemKeyFor(itemID, userID))
	})
}

func (s *BadgerStore) RatingsForUser(_ context.Context, userID string) ([]models.RatingEvent, error) {
	return s.scanRatings([]byte(ratingKeyPrefix + userID + keySep))
}

func (s *BadgerStore) AllRatings(_ context.Context) ([]models.RatingEvent, error) {
	return s.scanRatings([]byte(ratingKeyPrefix))
}

func (s *BadgerStore) scanRatings(prefix []byte) ([]models.RatingEvent, error) {
	out := make([]models.RatingEvent, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var ev models.RatingEvent
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			}); err != nil {
				return fmt.Errorf("decode rating: %w", err)
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan ratings: %w", err)
	}
	sortRatings(out)
	return out, nil
}

func (s *BadgerStore) RatingsForItem(_ context.Context, itemID string) ([]models.RatingEvent, error) {
	out := make([]models.RatingEvent, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(ratingItemKeyPrefix + itemID + keySep)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			userID := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			var ev models.RatingEvent
			if err := getJSON(txn, ratingKeyFor(userID, itemID), &ev, fmt.Errorf("dangling item index for %s/%s", userID, itemID)); err != nil {
				return err
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan item ratings: %w", err)
	}
	sortRatings(out)
	return out, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
