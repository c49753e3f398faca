package domain

import (
	"fmt"
	"time"

	"chat-warehouse/errors"

	"github.com/google/uuid"
)

// Message is an immutable chat event. The target contact is exactly one
// of a user or a group, enforced by the constructors. Messages are never
// edited or deleted: history only grows.
type Message struct {
	ID     uuid.UUID
	Sender Contact
	Target Contact
	Body   string    `validate:"required"`
	At     time.Time `validate:"required"`
}

// NewDirectMessage builds a message addressed to a single user.
// The sender may be a user or the system pseudo-sender.
func NewDirectMessage(sender Contact, to User, body string, at time.Time) (Message, error) {
	return newMessage(sender, to.Contact(), body, at)
}

// NewGroupMessage builds a message addressed to a group.
func NewGroupMessage(sender Contact, to Group, body string, at time.Time) (Message, error) {
	return newMessage(sender, to.Contact(), body, at)
}

func newMessage(sender, target Contact, body string, at time.Time) (Message, error) {
	if sender.Kind == KindGroup {
		return Message{}, fmt.Errorf("%w: a group cannot send messages", errors.ErrValidation)
	}
	m := Message{
		ID:     uuid.New(),
		Sender: sender,
		Target: target,
		Body:   body,
		At:     at,
	}
	if err := check(m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Equal is structural: sender, target, body, and timestamp. The ID is
// excluded so an exact resend of the same content compares equal.
func (m Message) Equal(other Message) bool {
	return m.Sender.Equal(other.Sender) &&
		m.Target.Equal(other.Target) &&
		m.Body == other.Body &&
		m.At.Equal(other.At)
}

func (m Message) IsDirect() bool {
	return m.Target.Kind == KindUser
}

// SortKey is the chronological comparison key.
func (m Message) SortKey() int64 {
	return m.At.UnixNano()
}

func (m Message) Before(other Message) bool {
	return m.SortKey() < other.SortKey()
}
