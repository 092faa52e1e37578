package inmemdb

import (
	"github.com/trezcool/elimu/core/message"
)

type messageRepository struct {
	db *DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	msg.ID = repo.db.nextID()
	repo.db.messages[msg.ID] = &msg
	repo.db.messageOrder = append(repo.db.messageOrder, msg.ID)
	return msg, nil
}

func (repo *messageRepository) GetMessageByID(id string) (message.Message, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if msg, ok := repo.db.messages[id]; ok {
		return *msg, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) InboxMessages(userID string) ([]message.Message, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	msgs := make([]message.Message, 0)
	for _, id := range repo.db.messageOrder {
		if msg := repo.db.messages[id]; msg.RecipientID == userID {
			msgs = append(msgs, *msg)
		}
	}
	return msgs, nil
}

func (repo *messageRepository) SentMessages(userID string) ([]message.Message, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	msgs := make([]message.Message, 0)
	for _, id := range repo.db.messageOrder {
		if msg := repo.db.messages[id]; msg.SenderID == userID {
			msgs = append(msgs, *msg)
		}
	}
	return msgs, nil
}

func (repo *messageRepository) UpdateMessage(msg message.Message) (message.Message, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	origMsg, ok := repo.db.messages[msg.ID]
	if !ok {
		return message.Message{}, message.ErrNotFound
	}
	origMsg.ReadAt = msg.ReadAt

	return *origMsg, nil
}
