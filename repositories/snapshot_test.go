package repositories

import (
	"log/slog"
	"testing"
	"time"

	"chat-warehouse/domain"
	"chat-warehouse/warehouse"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Disk records carry second precision for account timestamps, so test
// users are built on whole seconds to round-trip exactly.
func diskCleanUser(name string) domain.User {
	return domain.User{
		Name:      name,
		Password:  "pw-" + name,
		CreatedAt: time.Unix(time.Now().Unix(), 0).UTC(),
	}
}

func testMessage(t *testing.T, from, to domain.Contact, body string, at time.Time) domain.Message {
	t.Helper()
	return domain.Message{
		ID:     uuid.New(),
		Sender: from,
		Target: to,
		Body:   body,
		At:     at,
	}
}

func Test_Save_Load_Round_Trip(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewSnapshotRepository(db, slog.Default())

	alice := diskCleanUser("alice")
	bob := diskCleanUser("bob")
	team := domain.Group{Name: "team", Members: []domain.User{alice, bob}}
	at := time.Now().UTC()
	snap := warehouse.Snapshot{
		Users:  []domain.User{alice, bob},
		Groups: []domain.Group{team},
		Messages: []domain.Message{
			testMessage(t, alice.Contact(), bob.Contact(), "hi", at),
			testMessage(t, bob.Contact(), alice.Contact(), "hey", at.Add(time.Minute)),
			testMessage(t, alice.Contact(), team.Contact(), "hello team", at.Add(2*time.Minute)),
		},
	}

	req.NoError(repository.Save(snap))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Equal(snap.Users, loaded.Users)
	req.Equal(snap.Groups, loaded.Groups)
	req.Equal(snap.Messages, loaded.Messages)
}

func Test_Load_From_Empty_Database(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewSnapshotRepository(db, slog.Default())

	loaded, err := repository.Load()
	req.NoError(err)
	req.Empty(loaded.Users)
	req.Empty(loaded.Groups)
	req.Empty(loaded.Messages)
}

func Test_Missing_Resource_Leaves_Collection_Empty(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewSnapshotRepository(db, slog.Default())

	snap := warehouse.Snapshot{Users: []domain.User{diskCleanUser("alice")}}
	req.NoError(repository.Save(snap))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Len(loaded.Users, 1)
	req.Empty(loaded.Groups)
	req.Empty(loaded.Messages)
}

// One corrupted resource must not poison the others: users and messages
// still load while groups come back empty.
func Test_Corrupted_Groups_Do_Not_Abort_The_Load(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewSnapshotRepository(db, slog.Default())

	alice := diskCleanUser("alice")
	bob := diskCleanUser("bob")
	snap := warehouse.Snapshot{
		Users:  []domain.User{alice, bob},
		Groups: []domain.Group{{Name: "team", Members: []domain.User{alice}}},
		Messages: []domain.Message{
			testMessage(t, alice.Contact(), bob.Contact(), "hi", time.Now().UTC()),
		},
	}
	req.NoError(repository.Save(snap))

	err := db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(groupPrefix+"000001"), []byte("not bson"))
	})
	req.NoError(err)

	loaded, err := repository.Load()
	req.Error(err)
	req.Len(loaded.Users, 2)
	req.Len(loaded.Messages, 1)
	req.Empty(loaded.Groups)
}

func Test_Save_Overwrites_The_Previous_Version(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewSnapshotRepository(db, slog.Default())

	first := warehouse.Snapshot{Users: []domain.User{diskCleanUser("alice"), diskCleanUser("bob")}}
	req.NoError(repository.Save(first))

	second := warehouse.Snapshot{Users: []domain.User{diskCleanUser("clara")}}
	req.NoError(repository.Save(second))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Len(loaded.Users, 1)
	req.Equal("clara", loaded.Users[0].Name)
}

func Test_Messages_Load_In_Chronological_Key_Order(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewSnapshotRepository(db, slog.Default())

	alice := diskCleanUser("alice")
	bob := diskCleanUser("bob")
	at := time.Now().UTC()
	// Saved newest first: the padded-timestamp keys reorder them on load.
	snap := warehouse.Snapshot{
		Messages: []domain.Message{
			testMessage(t, bob.Contact(), alice.Contact(), "hey", at.Add(time.Minute)),
			testMessage(t, alice.Contact(), bob.Contact(), "hi", at),
		},
	}
	req.NoError(repository.Save(snap))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Len(loaded.Messages, 2)
	req.Equal("hi", loaded.Messages[0].Body)
	req.Equal("hey", loaded.Messages[1].Body)
}

func Test_Duplicate_Group_Names_Survive_The_Round_Trip(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewSnapshotRepository(db, slog.Default())

	snap := warehouse.Snapshot{
		Groups: []domain.Group{{Name: "team"}, {Name: "team"}},
	}
	req.NoError(repository.Save(snap))

	loaded, err := repository.Load()
	req.NoError(err)
	req.Len(loaded.Groups, 2)
}
