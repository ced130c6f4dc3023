package repositories

import (
	"context"
	"sync"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
)

// MockConversationRepository is an in-memory implementation of
// ConversationRepository. It enforces the same pair-key uniqueness
// condition as the DynamoDB implementation, so the registry's
// create-race behavior is observable in tests.
type MockConversationRepository struct {
	conversations map[string]models.Conversation // keyed by pairKey
	mu            sync.RWMutex
}

// NewMockConversationRepository creates a new instance of MockConversationRepository.
func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{conversations: make(map[string]models.Conversation)}
}

func (r *MockConversationRepository) Create(_ context.Context, conversation *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[conversation.PairKey]; ok {
		return apperrors.ErrConversationExists
	}
	r.conversations[conversation.PairKey] = *conversation
	return nil
}

func (r *MockConversationRepository) GetByPairKey(_ context.Context, pairKey string) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conversation, ok := r.conversations[pairKey]
	if !ok {
		return nil, nil
	}
	return &conversation, nil
}

func (r *MockConversationRepository) GetByID(_ context.Context, conversationID string) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, conversation := range r.conversations {
		if conversation.ConversationID == conversationID {
			c := conversation
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MockConversationRepository) ListByParticipant(_ context.Context, userID string) ([]models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var conversations []models.Conversation
	for _, conversation := range r.conversations {
		if conversation.HasParticipant(userID) {
			conversations = append(conversations, conversation)
		}
	}
	return conversations, nil
}

func (r *MockConversationRepository) SetLastMessage(_ context.Context, pairKey, messageID, messageKey, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[pairKey]
	if !ok {
		return apperrors.ErrConversationNotFound
	}
	conversation.LastMessageID = messageID
	conversation.LastMessageKey = messageKey
	conversation.UpdatedAt = updatedAt
	r.conversations[pairKey] = conversation
	return nil
}

func (r *MockConversationRepository) Delete(_ context.Context, pairKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, pairKey)
	return nil
}

// Len reports how many conversations exist; used by uniqueness tests.
func (r *MockConversationRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations)
}
