//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=../mocks/mock_snapshot_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"chat-warehouse/domain"
	"chat-warehouse/warehouse"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

type ISnapshotRepository interface {
	Save(snap warehouse.Snapshot) error
	Load() (warehouse.Snapshot, error)
}

// SnapshotRepository persists a warehouse snapshot in BadgerDB as three
// independent logical resources, one key prefix each. A failure on one
// resource is logged and does not abort the other two.
type SnapshotRepository struct {
	db  *badger.DB
	log *slog.Logger
}

const (
	userPrefix  = "user:"
	groupPrefix = "group:"
	msgPrefix   = "msg:"
)

func NewSnapshotRepository(db *badger.DB, log *slog.Logger) SnapshotRepository {
	return SnapshotRepository{db: db, log: log}
}

// Save overwrites each resource with the snapshot's collection. The
// aggregated error is for the operator; in-memory state stays usable
// regardless of what failed here.
func (r SnapshotRepository) Save(snap warehouse.Snapshot) error {
	var errs []error

	r.log.Info("saving users", "count", len(snap.Users))
	if err := r.saveUsers(snap.Users); err != nil {
		r.log.Error("saving users failed", "error", err)
		errs = append(errs, fmt.Errorf("users: %w", err))
	}

	r.log.Info("saving groups", "count", len(snap.Groups))
	if err := r.saveGroups(snap.Groups); err != nil {
		r.log.Error("saving groups failed", "error", err)
		errs = append(errs, fmt.Errorf("groups: %w", err))
	}

	r.log.Info("saving messages", "count", len(snap.Messages))
	if err := r.saveMessages(snap.Messages); err != nil {
		r.log.Error("saving messages failed", "error", err)
		errs = append(errs, fmt.Errorf("messages: %w", err))
	}

	return stderrors.Join(errs...)
}

// Load reads the three resources back. A missing or undecodable
// resource leaves its collection empty and does not abort the others,
// so a corrupted groups file still yields usable users and messages.
func (r SnapshotRepository) Load() (warehouse.Snapshot, error) {
	var snap warehouse.Snapshot
	var errs []error

	users, err := loadRecords[diskUser](r.db, userPrefix)
	if err != nil {
		r.log.Error("loading users failed", "error", err)
		errs = append(errs, fmt.Errorf("users: %w", err))
	} else {
		snap.Users = lo.Map(users, func(u diskUser, _ int) domain.User { return toUser(u) })
	}

	groups, err := loadRecords[diskGroup](r.db, groupPrefix)
	if err != nil {
		r.log.Error("loading groups failed", "error", err)
		errs = append(errs, fmt.Errorf("groups: %w", err))
	} else {
		snap.Groups = lo.Map(groups, func(g diskGroup, _ int) domain.Group { return toGroup(g) })
	}

	records, err := loadRecords[diskMessage](r.db, msgPrefix)
	if err == nil {
		snap.Messages, err = mapMessages(records)
	}
	if err != nil {
		r.log.Error("loading messages failed", "error", err)
		snap.Messages = nil
		errs = append(errs, fmt.Errorf("messages: %w", err))
	}

	return snap, stderrors.Join(errs...)
}

func (r SnapshotRepository) saveUsers(users []domain.User) error {
	if err := r.db.DropPrefix([]byte(userPrefix)); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, u := range users {
			data, err := bson.Marshal(fromUser(u))
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(userPrefix+u.Name), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// saveGroups keys records by insertion index rather than name: group
// names are not unique, and the index keeps load order stable.
func (r SnapshotRepository) saveGroups(groups []domain.Group) error {
	if err := r.db.DropPrefix([]byte(groupPrefix)); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for i, g := range groups {
			data, err := bson.Marshal(fromGroup(g))
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%06d", groupPrefix, i)
			if err := txn.Set([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// saveMessages keys records as "msg:{timestamp_padded}:{uuid}": the
// 19-digit zero padding makes lexicographic key order chronological, and
// the UUID disambiguates two messages arriving in the same nanosecond.
func (r SnapshotRepository) saveMessages(messages []domain.Message) error {
	if err := r.db.DropPrefix([]byte(msgPrefix)); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, m := range messages {
			data, err := bson.Marshal(fromMessage(m))
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%019d:%s", msgPrefix, m.At.UnixNano(), m.ID)
			if err := txn.Set([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func mapMessages(records []diskMessage) ([]domain.Message, error) {
	var messages []domain.Message
	for _, rec := range records {
		m, err := toMessage(rec)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// loadRecords scans one key prefix and decodes every value. An empty
// prefix is not an error: the resource simply has nothing persisted yet.
func loadRecords[T any](db *badger.DB, prefix string) ([]T, error) {
	var out []T
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec T
				if err := bson.Unmarshal(val, &rec); err != nil {
					return err
				}
				out = append(out, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
