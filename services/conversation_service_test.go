package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, users *repositories.MockUserRepository, userID, username string) *models.User {
	t.Helper()
	now := time.Now().UTC().Format(models.TimeFormat)
	user := models.User{
		UserID:    userID,
		ClerkID:   "clerk_" + userID,
		Username:  username,
		Email:     username + "@example.com",
		Gender:    models.GenderMale,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, users.Create(context.Background(), &user))
	return &user
}

func newConversationFixture(t *testing.T) (*ConversationService, *repositories.MockConversationRepository, *repositories.MockMessageRepository, *repositories.MockUserRepository) {
	t.Helper()
	conversations := repositories.NewMockConversationRepository()
	messages := repositories.NewMockMessageRepository()
	users := repositories.NewMockUserRepository()
	return NewConversationService(conversations, messages, users), conversations, messages, users
}

func TestGetOrCreateReturnsSameConversationForBothOrders(t *testing.T) {
	svc, _, _, users := newConversationFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	first, err := svc.GetOrCreate(context.Background(), "u1", "u2")
	require.NoError(t, err)
	second, err := svc.GetOrCreate(context.Background(), "u2", "u1")
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Equal(t, first.PairKey, second.PairKey)
}

func TestGetOrCreateConcurrentCreatesSingleConversation(t *testing.T) {
	svc, conversations, _, users := newConversationFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	const workers = 16
	ids := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			conversation, err := svc.GetOrCreate(context.Background(), "u1", "u2")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = conversation.ConversationID
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, 1, conversations.Len())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestGetOrCreateRejectsSelfConversation(t *testing.T) {
	svc, _, _, users := newConversationFixture(t)
	seedUser(t, users, "u1", "alice")

	_, err := svc.GetOrCreate(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, apperrors.ErrSelfConversation)
}

func TestGetOrCreateRequiresBothUsers(t *testing.T) {
	svc, _, _, users := newConversationFixture(t)
	seedUser(t, users, "u1", "alice")

	_, err := svc.GetOrCreate(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestRecordLastMessageOnMissingConversation(t *testing.T) {
	svc, _, _, _ := newConversationFixture(t)

	message := &models.Message{
		MessageID: "m1",
		SortKey:   models.MessageSortKey(time.Now().UTC().Format(models.TimeFormat), "m1"),
	}
	err := svc.RecordLastMessage(context.Background(), "u1#u2", message)
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}

func TestListSortsByUpdatedAtDescendingWithSummaries(t *testing.T) {
	svc, conversations, messages, users := newConversationFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")
	seedUser(t, users, "u3", "carol")

	older, err := svc.GetOrCreate(context.Background(), "u1", "u2")
	require.NoError(t, err)
	newer, err := svc.GetOrCreate(context.Background(), "u1", "u3")
	require.NoError(t, err)

	message := models.Message{
		ConversationID: newer.ConversationID,
		MessageID:      "m1",
		SenderID:       "u3",
		ReceiverID:     "u1",
		Content:        "hello",
		CreatedAt:      time.Now().UTC().Format(models.TimeFormat),
	}
	message.SortKey = models.MessageSortKey(message.CreatedAt, message.MessageID)
	require.NoError(t, messages.Append(context.Background(), &message))
	require.NoError(t, conversations.SetLastMessage(context.Background(), newer.PairKey, message.MessageID, message.SortKey, "2026-12-31T00:00:00Z"))
	require.NoError(t, conversations.SetLastMessage(context.Background(), older.PairKey, "", "", "2026-01-01T00:00:00Z"))

	summaries, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, newer.ConversationID, summaries[0].ConversationID)
	assert.Equal(t, "carol", summaries[0].Participant.Username)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "hello", summaries[0].LastMessage.Content)
	assert.Equal(t, 1, summaries[0].UnreadMessages)

	assert.Equal(t, older.ConversationID, summaries[1].ConversationID)
	assert.Equal(t, "bob", summaries[1].Participant.Username)
	assert.Nil(t, summaries[1].LastMessage)
	assert.Zero(t, summaries[1].UnreadMessages)
}

func TestGetDistinguishesMissingFromForbidden(t *testing.T) {
	svc, _, _, users := newConversationFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")
	seedUser(t, users, "u3", "carol")

	conversation, err := svc.GetOrCreate(context.Background(), "u1", "u2")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)

	_, err = svc.Get(context.Background(), "u3", conversation.ConversationID)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)

	summary, err := svc.Get(context.Background(), "u1", conversation.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "bob", summary.Participant.Username)
}

func TestDeleteRemovesMessagesBeforeConversation(t *testing.T) {
	svc, conversations, messages, users := newConversationFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")
	seedUser(t, users, "u3", "carol")

	conversation, err := svc.GetOrCreate(context.Background(), "u1", "u2")
	require.NoError(t, err)
	message := models.Message{
		ConversationID: conversation.ConversationID,
		MessageID:      "m1",
		SenderID:       "u1",
		ReceiverID:     "u2",
		Content:        "hi",
		CreatedAt:      time.Now().UTC().Format(models.TimeFormat),
	}
	message.SortKey = models.MessageSortKey(message.CreatedAt, message.MessageID)
	require.NoError(t, messages.Append(context.Background(), &message))

	err = svc.Delete(context.Background(), "u3", conversation.ConversationID)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
	assert.Equal(t, 1, conversations.Len())

	require.NoError(t, svc.Delete(context.Background(), "u1", conversation.ConversationID))
	assert.Zero(t, conversations.Len())
	remaining, err := messages.ListByConversation(context.Background(), conversation.ConversationID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
