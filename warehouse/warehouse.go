// Package warehouse holds the authoritative collections of the chat
// system: users, groups, and messages. All mutation and query operations
// go through a single Warehouse so the transport and presentation layers
// never touch shared state directly.
package warehouse

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"

	"chat-warehouse/domain"
	"chat-warehouse/errors"

	"github.com/samber/lo"
)

// Warehouse owns the three top-level collections. One RWMutex guards the
// whole store: the collections are small and a single scope keeps
// check-then-insert sequences atomic across them.
type Warehouse struct {
	mu       sync.RWMutex
	log      *slog.Logger
	users    []domain.User
	groups   []*domain.Group
	messages []domain.Message
	byName   map[string]int // user name -> index into users
}

func NewWarehouse(log *slog.Logger) *Warehouse {
	return &Warehouse{
		log:    log,
		byName: make(map[string]int),
	}
}

// AddUser appends u unless the name is already taken. The existence
// check and the insert run under one lock, so two concurrent sign-ups
// with the same name cannot both succeed.
func (w *Warehouse) AddUser(u domain.User) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.byName[u.Name]; ok {
		w.log.Warn("user already exists", "name", u.Name)
		return errors.ErrUserAlreadyExists
	}
	w.byName[u.Name] = len(w.users)
	w.users = append(w.users, u)
	w.log.Info("user created", "name", u.Name)
	return nil
}

// AddGroup appends unconditionally. Unlike AddUser there is no
// duplicate-name check: several groups may share a display name.
func (w *Warehouse) AddGroup(g domain.Group) {
	w.mu.Lock()
	defer w.mu.Unlock()

	clone := g.Clone()
	w.groups = append(w.groups, &clone)
}

// AddMessage appends unconditionally. This is the only way message
// history grows.
func (w *Warehouse) AddMessage(m domain.Message) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.messages = append(w.messages, m)
}

// AddUserToGroup inserts u into the first group named groupName and
// reports whether membership changed. An absent group or an existing
// membership is a no-op, not an error; callers decide whether to log.
func (w *Warehouse) AddUserToGroup(u domain.User, groupName string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	g := w.findGroup(groupName)
	if g == nil {
		return false
	}
	return g.AddMember(u)
}

// GetUser looks a user up by name. Absence is an ordinary result.
func (w *Warehouse) GetUser(name string) (domain.User, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i, ok := w.byName[name]
	if !ok {
		return domain.User{}, false
	}
	return w.users[i], true
}

// GetGroup returns the first group with the given name.
func (w *Warehouse) GetGroup(name string) (domain.Group, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	g := w.findGroup(name)
	if g == nil {
		return domain.Group{}, false
	}
	return g.Clone(), true
}

func (w *Warehouse) UserExists(u domain.User) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.byName[u.Name]
	return ok
}

func (w *Warehouse) GroupExists(g domain.Group) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return lo.ContainsBy(w.groups, func(other *domain.Group) bool {
		return other.Equal(g)
	})
}

func (w *Warehouse) MessageExists(m domain.Message) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return lo.ContainsBy(w.messages, m.Equal)
}

// GetGroupsOfUser derives the groups of u by scanning messages, not the
// group list: a group the user joined but that never received a message
// is not reported. Membership is resolved against the live group, so a
// member added after the message still counts.
func (w *Warehouse) GetGroupsOfUser(u domain.User) []domain.Group {
	w.mu.RLock()
	defer w.mu.RUnlock()

	seen := make(map[string]struct{})
	var groups []domain.Group
	for _, m := range w.messages {
		if m.Target.Kind != domain.KindGroup {
			continue
		}
		if _, ok := seen[m.Target.Name]; ok {
			continue
		}
		g := w.findGroup(m.Target.Name)
		if g == nil || !g.HasMember(u) {
			continue
		}
		seen[m.Target.Name] = struct{}{}
		groups = append(groups, g.Clone())
	}
	return groups
}

// GetChatMessagesSorted returns the direct messages exchanged between
// exactly a and b, in either direction, ascending by timestamp.
func (w *Warehouse) GetChatMessagesSorted(a, b domain.User) []domain.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ca, cb := a.Contact(), b.Contact()
	thread := lo.Filter(w.messages, func(m domain.Message, _ int) bool {
		if !m.IsDirect() {
			return false
		}
		return (m.Sender.Equal(ca) && m.Target.Equal(cb)) ||
			(m.Sender.Equal(cb) && m.Target.Equal(ca))
	})
	slices.SortStableFunc(thread, func(x, y domain.Message) int {
		return cmp.Compare(x.SortKey(), y.SortKey())
	})
	return thread
}

// GetGroupMessages returns all messages targeted at g in insertion
// order. Ordering for display is left to the caller.
func (w *Warehouse) GetGroupMessages(g domain.Group) []domain.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return lo.Filter(w.messages, func(m domain.Message, _ int) bool {
		return m.Target.Kind == domain.KindGroup && m.Target.Name == g.Name
	})
}

// Users returns a copy of the user list.
func (w *Warehouse) Users() []domain.User {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return slices.Clone(w.users)
}

// Groups returns deep copies of the group list.
func (w *Warehouse) Groups() []domain.Group {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return lo.Map(w.groups, func(g *domain.Group, _ int) domain.Group {
		return g.Clone()
	})
}

// Messages returns a copy of the full history in insertion order.
func (w *Warehouse) Messages() []domain.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return slices.Clone(w.messages)
}

// findGroup must be called with the lock held. First match wins, the
// same way GetUser resolves names.
func (w *Warehouse) findGroup(name string) *domain.Group {
	for _, g := range w.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}
