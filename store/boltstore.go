// Package store persists the pool state in a bbolt database: the latest
// snapshot plus an append-only event log keyed by sequence number.
// Records are CBOR-encoded.
package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"

	"github.com/bidolabs/bidopool-go/staking"
)

var (
	bucketSnapshot = []byte("snapshot")
	bucketEvents   = []byte("events")

	keyLatest = []byte("latest")
)

// Store wraps a bbolt database holding pool snapshots and events.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSnapshot, bucketEvents} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveSnapshot replaces the persisted pool snapshot.
func (s *Store) SaveSnapshot(snap staking.Snapshot) error {
	data, err := cbor.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshot).Put(keyLatest, data)
	})
}

// LoadSnapshot returns the persisted pool snapshot, or found=false if none
// has been saved yet.
func (s *Store) LoadSnapshot() (snap staking.Snapshot, found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSnapshot).Get(keyLatest)
		if data == nil {
			return nil
		}
		if err := cbor.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptRecord, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return staking.Snapshot{}, false, fmt.Errorf("store: load snapshot: %w", err)
	}
	return snap, found, nil
}

// AppendEvent writes an event under its big-endian sequence key, keeping
// the log iterable in order.
func (s *Store) AppendEvent(ev staking.Event) error {
	data, err := cbor.Marshal(ev)
	if err != nil {
		return fmt.Errorf("store: encode event: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).Put(seqKey(ev.Seq), data)
	})
}

// ListEvents returns up to limit events with sequence >= since, in order.
// A limit of 0 means no limit.
func (s *Store) ListEvents(since uint64, limit int) ([]staking.Event, error) {
	var events []staking.Event
	err := s.db.View(func(tx *bbolt.Tx) error {
		cur := tx.Bucket(bucketEvents).Cursor()
		for k, v := cur.Seek(seqKey(since)); k != nil; k, v = cur.Next() {
			var ev staking.Event
			if err := cbor.Unmarshal(v, &ev); err != nil {
				return fmt.Errorf("%w: seq %d: %w", ErrCorruptRecord, binary.BigEndian.Uint64(k), err)
			}
			events = append(events, ev)
			if limit > 0 && len(events) == limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	return events, nil
}

// seqKey encodes a sequence number as an 8-byte big-endian key for sorted
// storage.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
