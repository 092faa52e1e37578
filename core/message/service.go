package message

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/user"
)

var ErrNotFound = errors.New("message not found")

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		GetMessageByID(id string) (Message, error)
		InboxMessages(userID string) ([]Message, error)
		SentMessages(userID string) ([]Message, error)
		UpdateMessage(msg Message) (Message, error)
	}

	// UserGetter verifies the recipient exists before sending.
	UserGetter interface {
		GetByID(id string) (user.User, error)
	}

	Service struct {
		repo  Repository
		users UserGetter
	}
)

func NewService(repo Repository, users UserGetter) *Service {
	return &Service{repo: repo, users: users}
}

func (svc *Service) Send(senderID string, nm NewMessage) (Message, error) {
	if _, err := svc.users.GetByID(nm.RecipientID); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Message{}, core.NewValidationError(err, core.FieldError{Field: "recipient_id", Error: "unknown recipient"})
		}
		return Message{}, err
	}
	msg := Message{
		SenderID:    senderID,
		RecipientID: nm.RecipientID,
		Subject:     nm.Subject,
		Body:        nm.Body,
		SentAt:      time.Now().UTC(),
	}
	return svc.repo.CreateMessage(msg)
}

func (svc *Service) Inbox(userID string) ([]Message, error) {
	return svc.repo.InboxMessages(userID)
}

func (svc *Service) Sent(userID string) ([]Message, error) {
	return svc.repo.SentMessages(userID)
}

// MarkRead stamps ReadAt once; only the recipient may mark their message, any
// other caller gets ErrNotFound.
func (svc *Service) MarkRead(id, userID string) (Message, error) {
	msg, err := svc.repo.GetMessageByID(id)
	if err != nil {
		return Message{}, err
	}
	if msg.RecipientID != userID {
		return Message{}, ErrNotFound
	}
	if msg.ReadAt == nil {
		now := time.Now().UTC()
		msg.ReadAt = &now
		return svc.repo.UpdateMessage(msg)
	}
	return msg, nil
}
