package repositories

import (
	"context"
	"sort"
	"sync"

	"snapgram_server/models"
)

// MockMessageRepository is an in-memory implementation of MessageRepository.
type MockMessageRepository struct {
	messages map[string]map[string]models.Message // conversationId -> sortKey -> message
	mu       sync.RWMutex
}

// NewMockMessageRepository creates a new instance of MockMessageRepository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{messages: make(map[string]map[string]models.Message)}
}

func (r *MockMessageRepository) Append(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.messages[message.ConversationID]
	if !ok {
		log = make(map[string]models.Message)
		r.messages[message.ConversationID] = log
	}
	log[message.SortKey] = *message
	return nil
}

func (r *MockMessageRepository) GetByKey(_ context.Context, conversationID, sortKey string) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	message, ok := r.messages[conversationID][sortKey]
	if !ok {
		return nil, nil
	}
	return &message, nil
}

func (r *MockMessageRepository) ListByConversation(_ context.Context, conversationID string) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var messages []models.Message
	for _, message := range r.messages[conversationID] {
		messages = append(messages, message)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SortKey < messages[j].SortKey
	})
	return messages, nil
}

func (r *MockMessageRepository) MarkRead(_ context.Context, conversationID, sortKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[conversationID][sortKey]
	if !ok || message.IsRead {
		return nil
	}
	message.IsRead = true
	r.messages[conversationID][sortKey] = message
	return nil
}

func (r *MockMessageRepository) CountUnread(ctx context.Context, conversationID, receiverID string) (int, error) {
	messages, err := r.ListByConversation(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, message := range messages {
		if !message.IsRead && message.ReceiverID == receiverID {
			count++
		}
	}
	return count, nil
}

func (r *MockMessageRepository) DeleteByConversation(_ context.Context, conversationID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.messages[conversationID])
	delete(r.messages, conversationID)
	return n, nil
}
