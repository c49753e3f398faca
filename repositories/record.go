package repositories

import (
	"time"

	"chat-warehouse/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Disk records are flat, schema-defined structs decoupled from the
// domain types, so the on-disk format can stay stable while the entity
// model evolves.

type diskUser struct {
	Name      string `bson:"name"`
	Password  string `bson:"password"`
	CreatedAt int64  `bson:"created_at"`
}

type diskGroup struct {
	Name    string     `bson:"name"`
	Members []diskUser `bson:"members"`
}

type diskMessage struct {
	ID         string `bson:"id"`
	SenderName string `bson:"sender_name"`
	SenderKind string `bson:"sender_kind"`
	TargetName string `bson:"target_name"`
	TargetKind string `bson:"target_kind"`
	Body       string `bson:"body"`
	At         int64  `bson:"at"` // unix nanoseconds
}

func fromUser(u domain.User) diskUser {
	return diskUser{
		Name:      u.Name,
		Password:  u.Password,
		CreatedAt: u.CreatedAt.Unix(),
	}
}

func toUser(r diskUser) domain.User {
	return domain.User{
		Name:      r.Name,
		Password:  r.Password,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
	}
}

func fromGroup(g domain.Group) diskGroup {
	return diskGroup{
		Name:    g.Name,
		Members: lo.Map(g.Members, func(u domain.User, _ int) diskUser { return fromUser(u) }),
	}
}

func toGroup(r diskGroup) domain.Group {
	return domain.Group{
		Name:    r.Name,
		Members: lo.Map(r.Members, func(u diskUser, _ int) domain.User { return toUser(u) }),
	}
}

func fromMessage(m domain.Message) diskMessage {
	return diskMessage{
		ID:         m.ID.String(),
		SenderName: m.Sender.Name,
		SenderKind: string(m.Sender.Kind),
		TargetName: m.Target.Name,
		TargetKind: string(m.Target.Kind),
		Body:       m.Body,
		At:         m.At.UnixNano(),
	}
}

func toMessage(r diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:     parsedID,
		Sender: domain.Contact{Name: r.SenderName, Kind: domain.ContactKind(r.SenderKind)},
		Target: domain.Contact{Name: r.TargetName, Kind: domain.ContactKind(r.TargetKind)},
		Body:   r.Body,
		At:     time.Unix(0, r.At).UTC(),
	}, nil
}
