package projection

import (
	"log/slog"
	"testing"
	"time"

	"chat-warehouse/domain"
	"chat-warehouse/warehouse"

	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, w *warehouse.Warehouse, name string) domain.User {
	t.Helper()
	u, err := domain.NewUser(name, "pw-"+name)
	require.NoError(t, err)
	require.NoError(t, w.AddUser(u))
	return u
}

func direct(t *testing.T, from, to domain.User, body string, at time.Time) domain.Message {
	t.Helper()
	m, err := domain.NewDirectMessage(from.Contact(), to, body, at)
	require.NoError(t, err)
	return m
}

func TestOverview_Picks_The_Latest_Message_Per_Contact(t *testing.T) {
	req := require.New(t)
	w := warehouse.NewWarehouse(slog.Default())
	alice := seedUser(t, w, "alice")
	bob := seedUser(t, w, "bob")
	clara := seedUser(t, w, "clara")

	base := time.Now().UTC()
	w.AddMessage(direct(t, alice, bob, "hi", base))
	w.AddMessage(direct(t, bob, alice, "hey", base.Add(time.Second)))
	w.AddMessage(direct(t, clara, alice, "lunch?", base.Add(2*time.Second)))

	summaries := Overview(w, alice)
	req.Len(summaries, 2)

	// Most recent contact first
	req.Equal(clara.Contact(), summaries[0].Contact)
	req.Equal("lunch?", summaries[0].Latest.Body)
	req.Equal(bob.Contact(), summaries[1].Contact)
	req.Equal("hey", summaries[1].Latest.Body)
}

func TestOverview_Groups_Count_As_One_Contact(t *testing.T) {
	req := require.New(t)
	w := warehouse.NewWarehouse(slog.Default())
	alice := seedUser(t, w, "alice")
	bob := seedUser(t, w, "bob")

	g, err := domain.NewGroup("team", alice, bob)
	req.NoError(err)
	w.AddGroup(g)

	base := time.Now().UTC()
	first, err := domain.NewGroupMessage(alice.Contact(), g, "kickoff", base)
	req.NoError(err)
	second, err := domain.NewGroupMessage(bob.Contact(), g, "on my way", base.Add(time.Second))
	req.NoError(err)
	w.AddMessage(first)
	w.AddMessage(second)

	summaries := Overview(w, alice)
	req.Len(summaries, 1)
	req.Equal(g.Contact(), summaries[0].Contact)
	req.Equal("on my way", summaries[0].Latest.Body)
}

func TestOverview_Skips_Groups_The_User_Is_Not_In(t *testing.T) {
	req := require.New(t)
	w := warehouse.NewWarehouse(slog.Default())
	alice := seedUser(t, w, "alice")
	bob := seedUser(t, w, "bob")

	g, err := domain.NewGroup("others", bob)
	req.NoError(err)
	w.AddGroup(g)

	m, err := domain.NewGroupMessage(bob.Contact(), g, "private", time.Now().UTC())
	req.NoError(err)
	w.AddMessage(m)

	req.Empty(Overview(w, alice))
}

func TestOverview_System_Notices_Show_As_The_System_Contact(t *testing.T) {
	req := require.New(t)
	w := warehouse.NewWarehouse(slog.Default())
	alice := seedUser(t, w, "alice")

	notice, err := domain.NewDirectMessage(domain.SystemContact("server"), alice, "welcome back", time.Now().UTC())
	req.NoError(err)
	w.AddMessage(notice)

	summaries := Overview(w, alice)
	req.Len(summaries, 1)
	req.Equal(domain.SystemContact("server"), summaries[0].Contact)
}
