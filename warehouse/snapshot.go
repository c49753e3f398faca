package warehouse

import (
	"slices"

	"chat-warehouse/domain"

	"github.com/samber/lo"
)

// Snapshot is a consistent copy of the three collections, taken and
// restored under the store lock so persistence never observes a
// half-applied mutation.
type Snapshot struct {
	Users    []domain.User
	Groups   []domain.Group
	Messages []domain.Message
}

func (w *Warehouse) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return Snapshot{
		Users: slices.Clone(w.users),
		Groups: lo.Map(w.groups, func(g *domain.Group, _ int) domain.Group {
			return g.Clone()
		}),
		Messages: slices.Clone(w.messages),
	}
}

// Restore replaces all three collections wholesale. Invoked once at
// process start with whatever the persistence layer could load.
func (w *Warehouse) Restore(s Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.users = slices.Clone(s.Users)
	w.byName = make(map[string]int, len(s.Users))
	for i, u := range w.users {
		w.byName[u.Name] = i
	}
	w.groups = lo.Map(s.Groups, func(g domain.Group, _ int) *domain.Group {
		clone := g.Clone()
		return &clone
	})
	w.messages = slices.Clone(s.Messages)
}
