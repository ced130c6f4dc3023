package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/google/uuid"
)

// ConversationService is the conversation registry: it maps an unordered
// pair of users onto exactly one conversation and keeps the last-message
// pointer current.
type ConversationService struct {
	Conversations repositories.ConversationRepository
	Messages      repositories.MessageRepository
	Users         repositories.UserRepository
}

func NewConversationService(conversations repositories.ConversationRepository, messages repositories.MessageRepository, users repositories.UserRepository) *ConversationService {
	return &ConversationService{Conversations: conversations, Messages: messages, Users: users}
}

// GetOrCreate resolves the single conversation for {userA, userB},
// creating it lazily on first contact. The pair is canonicalized before
// lookup, creation is conditional on the pair key being absent, and a
// lost creation race is retried as a lookup — so N concurrent first
// messages still end with one conversation document.
func (s *ConversationService) GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if userA == userB {
		return nil, apperrors.ErrSelfConversation
	}
	for _, id := range []string{userA, userB} {
		user, err := s.Users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, apperrors.ErrUserNotFound
		}
	}

	pairKey := models.PairKey(userA, userB)
	conversation, err := s.Conversations.GetByPairKey(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if conversation != nil {
		return conversation, nil
	}

	now := time.Now().UTC().Format(models.TimeFormat)
	fresh := models.NewConversation(userA, userB)
	fresh.ConversationID = uuid.New().String()
	fresh.CreatedAt = now
	fresh.UpdatedAt = now

	err = s.Conversations.Create(ctx, &fresh)
	if err == nil {
		log.Printf("Created conversation %s for pair %s", fresh.ConversationID, pairKey)
		return &fresh, nil
	}
	if !errors.Is(err, apperrors.ErrConversationExists) {
		return nil, err
	}

	// Lost the creation race; the winner's document is authoritative.
	conversation, err = s.Conversations.GetByPairKey(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperrors.Internal("Conversation disappeared after create conflict")
	}
	return conversation, nil
}

// RecordLastMessage bumps the conversation's cached pointer after a
// message was durably written. It never creates messages or
// conversations; a vanished conversation (concurrent delete) comes back
// as ErrConversationNotFound, which callers treat as a no-op since the
// message itself already exists.
func (s *ConversationService) RecordLastMessage(ctx context.Context, pairKey string, message *models.Message) error {
	updatedAt := time.Now().UTC().Format(models.TimeFormat)
	return s.Conversations.SetLastMessage(ctx, pairKey, message.MessageID, message.SortKey, updatedAt)
}

// List returns the caller's conversations, most recently updated first,
// each with the other participant's public fields, the resolved last
// message and the caller's unread count.
func (s *ConversationService) List(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	conversations, err := s.Conversations.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt > conversations[j].UpdatedAt
	})

	otherIDs := make([]string, 0, len(conversations))
	for _, conversation := range conversations {
		otherIDs = append(otherIDs, conversation.OtherParticipant(userID))
	}
	others, err := s.Users.BatchGet(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summary, err := s.summarize(ctx, &conversation, userID, others)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// Get returns one conversation view. Not found and not-a-participant are
// distinct failures: 404 for an id that resolves to nothing, 403 when
// the conversation exists but the caller is not in it.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*models.ConversationSummary, error) {
	conversation, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperrors.ErrConversationNotFound
	}
	if !conversation.HasParticipant(userID) {
		return nil, apperrors.ErrNotParticipant
	}
	others, err := s.Users.BatchGet(ctx, []string{conversation.OtherParticipant(userID)})
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, conversation, userID, others)
}

// Delete removes a conversation and its whole message history. Messages
// go first: a cascade interrupted halfway leaves an empty conversation
// that a retry can finish off, never messages without a conversation.
func (s *ConversationService) Delete(ctx context.Context, userID, conversationID string) error {
	conversation, err := s.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if conversation == nil {
		return apperrors.ErrConversationNotFound
	}
	if !conversation.HasParticipant(userID) {
		return apperrors.ErrNotParticipant
	}

	deleted, err := s.Messages.DeleteByConversation(ctx, conversation.ConversationID)
	if err != nil {
		return err
	}
	if err := s.Conversations.Delete(ctx, conversation.PairKey); err != nil {
		return err
	}
	log.Printf("Deleted conversation %s and %d messages", conversation.ConversationID, deleted)
	return nil
}

func (s *ConversationService) summarize(ctx context.Context, conversation *models.Conversation, userID string, others map[string]models.User) (*models.ConversationSummary, error) {
	summary := models.ConversationSummary{
		ConversationID: conversation.ConversationID,
		UpdatedAt:      conversation.UpdatedAt,
	}

	if other, ok := others[conversation.OtherParticipant(userID)]; ok {
		summary.Participant = models.UserSummary{
			UserID:       other.UserID,
			Username:     other.Username,
			Email:        other.Email,
			ProfileImage: other.ProfileImage,
		}
	}

	if conversation.LastMessageKey != "" {
		lastMessage, err := s.Messages.GetByKey(ctx, conversation.ConversationID, conversation.LastMessageKey)
		if err != nil {
			return nil, err
		}
		summary.LastMessage = lastMessage
	}

	unread, err := s.Messages.CountUnread(ctx, conversation.ConversationID, userID)
	if err != nil {
		return nil, err
	}
	summary.UnreadMessages = unread
	return &summary, nil
}
