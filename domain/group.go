package domain

import "github.com/samber/lo"

// Group is a named chat room. Membership has set semantics: adding a
// present member is a no-op, and iteration order is insertion order so
// member lists render stably. Groups do not own messages; a group
// message is a Message whose target contact is the group.
type Group struct {
	Name    string `validate:"required"`
	Members []User
}

func NewGroup(name string, members ...User) (Group, error) {
	g := Group{
		Name:    name,
		Members: lo.UniqBy(members, func(u User) string { return u.Name }),
	}
	if err := check(g); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (g Group) Equal(other Group) bool {
	return g.Name == other.Name
}

func (g Group) HasMember(u User) bool {
	return lo.ContainsBy(g.Members, u.Equal)
}

// AddMember inserts u and reports whether membership changed.
func (g *Group) AddMember(u User) bool {
	if g.HasMember(u) {
		return false
	}
	g.Members = append(g.Members, u)
	return true
}

// Clone copies the group with its own member slice, so callers can hand
// it out without sharing the warehouse-owned backing array.
func (g Group) Clone() Group {
	members := make([]User, len(g.Members))
	copy(members, g.Members)
	return Group{Name: g.Name, Members: members}
}

func (g Group) Contact() Contact {
	return Contact{Name: g.Name, Kind: KindGroup}
}
