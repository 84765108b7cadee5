package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"wegetchat/domain"

	"github.com/dgraph-io/badger/v4"
)

const (
	snapshotPrefix = "snapshot:"
	metaKey        = "meta:saved_at"
)

// BadgerSnapshotStore keeps one key per collection, "snapshot:{collection}".
// All keys are written in a single transaction, so a save is applied entirely or not at all.
// A snapshot larger than badger's transaction limit cannot be saved and is reported as an error.
type BadgerSnapshotStore struct {
	db  *badger.DB
	log *slog.Logger
}

var _ ISnapshotStore = (*BadgerSnapshotStore)(nil)

func NewBadgerSnapshotStore(db *badger.DB, log *slog.Logger) *BadgerSnapshotStore {
	return &BadgerSnapshotStore{db: db, log: log.With("store", "badger")}
}

func collectionKey(name string) []byte {
	return []byte(snapshotPrefix + name)
}

func (b *BadgerSnapshotStore) Load() (*domain.Snapshot, error) {
	raw, err := readCollections(b.db)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		b.log.Info("No snapshot found, initializing an empty one")
		s := domain.NewSnapshot()
		if err = b.Save(s); err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := decodeCollections(raw)
	if err != nil {
		return b.recover(raw, err)
	}
	return s, nil
}

// ReadBadgerSnapshot decodes the stored snapshot without writing anything,
// so it works on a database opened read-only.
func ReadBadgerSnapshot(db *badger.DB) (*domain.Snapshot, error) {
	raw, err := readCollections(db)
	if err != nil {
		return nil, err
	}
	return decodeCollections(raw)
}

func readCollections(db *badger.DB) (map[string][]byte, error) {
	raw := make(map[string][]byte, len(Collections))
	err := db.View(func(txn *badger.Txn) error {
		for _, name := range Collections {
			item, err := txn.Get(collectionKey(name))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if raw[name], err = item.ValueCopy(nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return raw, nil
}

func decodeCollections(raw map[string][]byte) (*domain.Snapshot, error) {
	s := &domain.Snapshot{}
	for name, value := range raw {
		if err := json.Unmarshal(value, collectionTarget(s, name)); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	s.Normalize()
	return s, nil
}

// recover copies the unreadable values under "corrupt:{unix}:{collection}" and
// replaces the snapshot with an empty one in the same transaction.
func (b *BadgerSnapshotStore) recover(raw map[string][]byte, cause error) (*domain.Snapshot, error) {
	stamp := time.Now().Unix()
	s := domain.NewSnapshot()
	err := b.db.Update(func(txn *badger.Txn) error {
		for name, value := range raw {
			if err := txn.Set([]byte(fmt.Sprintf("corrupt:%d:%s", stamp, name)), value); err != nil {
				return err
			}
		}
		return b.write(txn, s)
	})
	if err != nil {
		return nil, fmt.Errorf("reset corrupt snapshot: %w", err)
	}
	b.log.Warn("Snapshot is unreadable, starting from an empty state; previous data is lost",
		"err", cause, "moved_to", fmt.Sprintf("corrupt:%d:*", stamp))
	return s, nil
}

func (b *BadgerSnapshotStore) Save(s *domain.Snapshot) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return b.write(txn, s)
	})
}

func (b *BadgerSnapshotStore) write(txn *badger.Txn, s *domain.Snapshot) error {
	for _, name := range Collections {
		value, err := json.Marshal(collectionTarget(s, name))
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err = txn.Set(collectionKey(name), value); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return txn.Set([]byte(metaKey), []byte(time.Now().UTC().Format(time.RFC3339Nano)))
}
