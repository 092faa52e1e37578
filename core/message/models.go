package message

import (
	"time"

	"github.com/trezcool/elimu/core"
)

type Message struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	SentAt      time.Time  `json:"sent_at"` // UTC
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

func (m *Message) IsRead() bool { return m.ReadAt != nil }

// NewMessage contains information needed to send a Message.
type NewMessage struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

func (nm *NewMessage) Validate() error {
	nm.Subject = core.CleanString(nm.Subject)
	nm.Body = core.CleanString(nm.Body)
	return core.Validate.Struct(nm)
}
