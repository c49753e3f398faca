package services

import (
	"fmt"
	"log/slog"
	"time"

	"chat-warehouse/domain"
	"chat-warehouse/errors"
	"chat-warehouse/projection"
	"chat-warehouse/repositories"
	"chat-warehouse/warehouse"
)

// IChatService is the surface the transport layer calls into on behalf
// of connected clients. It relays warehouse results as-is: a duplicate
// sign-up or a failed sign-in is an ordinary negative response, never a
// crash.
type IChatService interface {
	SignUp(name, password string) (domain.User, error)
	SignIn(name, password string) (domain.User, error)
	CreateGroup(name string, founder domain.User) (domain.Group, error)
	JoinGroup(u domain.User, groupName string) bool
	SendDirect(from, to domain.User, body string) (domain.Message, error)
	SendToGroup(from domain.User, groupName, body string) (domain.Message, error)
	History(a, b domain.User) []domain.Message
	GroupHistory(g domain.Group) []domain.Message
	Overview(u domain.User) []projection.ContactSummary
	Checkpoint() error
}

type ChatService struct {
	warehouse *warehouse.Warehouse
	snapshots repositories.ISnapshotRepository
	log       *slog.Logger
}

func NewChatService(w *warehouse.Warehouse, snapshots repositories.ISnapshotRepository, log *slog.Logger) *ChatService {
	return &ChatService{warehouse: w, snapshots: snapshots, log: log}
}

func (s *ChatService) SignUp(name, password string) (domain.User, error) {
	u, err := domain.NewUser(name, password)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.warehouse.AddUser(u); err != nil {
		return domain.User{}, err // ErrUserAlreadyExists for the transport to relay
	}
	return u, nil
}

// SignIn compares the stored credential directly. An unknown name and a
// wrong password produce the same error so callers cannot probe for
// registered users.
func (s *ChatService) SignIn(name, password string) (domain.User, error) {
	u, ok := s.warehouse.GetUser(name)
	if !ok || u.Password != password {
		return domain.User{}, errors.ErrInvalidCredentials
	}
	return u, nil
}

// CreateGroup stores the group and posts a system notice to it. The
// notice doubles as the group's first message, which makes the group
// visible to message-derived views right away.
func (s *ChatService) CreateGroup(name string, founder domain.User) (domain.Group, error) {
	g, err := domain.NewGroup(name, founder)
	if err != nil {
		return domain.Group{}, err
	}
	s.warehouse.AddGroup(g)
	s.log.Info("group created", "name", g.Name, "founder", founder.Name)

	notice, err := domain.NewGroupMessage(
		domain.SystemContact("server"),
		g,
		fmt.Sprintf("%s created group %s", founder.Name, g.Name),
		time.Now().UTC(),
	)
	if err != nil {
		return domain.Group{}, err
	}
	s.warehouse.AddMessage(notice)
	return g, nil
}

func (s *ChatService) JoinGroup(u domain.User, groupName string) bool {
	joined := s.warehouse.AddUserToGroup(u, groupName)
	if !joined {
		s.log.Debug("join was a no-op", "user", u.Name, "group", groupName)
	}
	return joined
}

func (s *ChatService) SendDirect(from, to domain.User, body string) (domain.Message, error) {
	m, err := domain.NewDirectMessage(from.Contact(), to, body, time.Now().UTC())
	if err != nil {
		return domain.Message{}, err
	}
	s.warehouse.AddMessage(m)
	return m, nil
}

func (s *ChatService) SendToGroup(from domain.User, groupName, body string) (domain.Message, error) {
	g, ok := s.warehouse.GetGroup(groupName)
	if !ok {
		return domain.Message{}, errors.ErrGroupNotFound
	}
	m, err := domain.NewGroupMessage(from.Contact(), g, body, time.Now().UTC())
	if err != nil {
		return domain.Message{}, err
	}
	s.warehouse.AddMessage(m)
	return m, nil
}

func (s *ChatService) History(a, b domain.User) []domain.Message {
	return s.warehouse.GetChatMessagesSorted(a, b)
}

func (s *ChatService) GroupHistory(g domain.Group) []domain.Message {
	return s.warehouse.GetGroupMessages(g)
}

func (s *ChatService) Overview(u domain.User) []projection.ContactSummary {
	return projection.Overview(s.warehouse, u)
}

// Checkpoint snapshots the store and hands it to the persistence layer.
// Called by the server on a timer and during shutdown.
func (s *ChatService) Checkpoint() error {
	return s.snapshots.Save(s.warehouse.Snapshot())
}
