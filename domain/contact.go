// Package domain contains core concepts of the chat system.
// Entities are immutable once built and validated by their constructors.
// No runtime, storage, or UI logic should be added here.
package domain

type ContactKind string

const (
	KindUser   ContactKind = "user"
	KindGroup  ContactKind = "group"
	KindSystem ContactKind = "system"
)

// Contact is an addressable chat endpoint: a user, a group,
// or the system pseudo-sender used for server notices.
type Contact struct {
	Name string      `validate:"required"`
	Kind ContactKind `validate:"required,oneof=user group system"`
}

func (c Contact) Equal(other Contact) bool {
	return c.Name == other.Name && c.Kind == other.Kind
}

// SystemContact is the pseudo-sender of server notices.
func SystemContact(name string) Contact {
	return Contact{Name: name, Kind: KindSystem}
}
