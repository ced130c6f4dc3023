package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/google/uuid"
)

// Broadcaster pushes events to connected socket clients. The socket.io
// server satisfies it directly; a nil broadcaster disables push.
type Broadcaster interface {
	BroadcastToRoom(namespace string, room string, event string, args ...interface{}) bool
}

// MessageService is the message log: append-only per-conversation
// history with one-way read-state tracking.
type MessageService struct {
	Registry    *ConversationService
	Messages    repositories.MessageRepository
	Users       repositories.UserRepository
	Broadcaster Broadcaster
}

func NewMessageService(registry *ConversationService, messages repositories.MessageRepository, users repositories.UserRepository, broadcaster Broadcaster) *MessageService {
	return &MessageService{Registry: registry, Messages: messages, Users: users, Broadcaster: broadcaster}
}

// Send appends a message from sender to receiver, resolving (or lazily
// creating) their conversation first. The last-message pointer update
// runs after the append; if it fails because the conversation vanished,
// the message stays visible in reads — the pointer is a cache, not the
// source of truth.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	conversation, err := s.Registry.GetOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(models.TimeFormat)
	message := models.Message{
		ConversationID: conversation.ConversationID,
		MessageID:      uuid.New().String(),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        text,
		IsRead:         false,
		CreatedAt:      now,
	}
	message.SortKey = models.MessageSortKey(now, message.MessageID)

	if err := s.Messages.Append(ctx, &message); err != nil {
		return nil, err
	}

	if err := s.Registry.RecordLastMessage(ctx, conversation.PairKey, &message); err != nil {
		if errors.Is(err, apperrors.ErrConversationNotFound) {
			// Conversation was deleted under us; the message exists,
			// nothing to point at.
			log.Printf("Conversation %s gone during pointer update, skipping", conversation.ConversationID)
		} else {
			return nil, err
		}
	}

	if s.Broadcaster != nil {
		s.Broadcaster.BroadcastToRoom("/", conversation.ConversationID, "newMessage", message)
	}
	return &message, nil
}

// Fetch returns the full history between reader and other in ascending
// creation order. As a side effect every returned message addressed to
// the reader that is still unread gets marked read — an idempotent,
// one-way transition that never touches the other participant's
// messages. No conversation yet is an empty list, not an error.
func (s *MessageService) Fetch(ctx context.Context, readerID, otherID string) ([]models.Message, error) {
	other, err := s.Users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, apperrors.ErrReceiverNotFound
	}

	conversation, err := s.Registry.Conversations.GetByPairKey(ctx, models.PairKey(readerID, otherID))
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return []models.Message{}, nil
	}

	messages, err := s.Messages.ListByConversation(ctx, conversation.ConversationID)
	if err != nil {
		return nil, err
	}

	for i, message := range messages {
		if message.ReceiverID != readerID || message.IsRead {
			continue
		}
		if err := s.Messages.MarkRead(ctx, message.ConversationID, message.SortKey); err != nil {
			// Left unread for the next fetch; mark-as-read may lag a
			// fetch by at most one request.
			log.Printf("Failed to mark message %s as read: %v", message.MessageID, err)
			continue
		}
		messages[i].IsRead = true
	}
	return messages, nil
}
