package services

import (
	"context"
	"sync"
	"testing"

	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBroadcaster captures broadcast calls for assertions.
type recordingBroadcaster struct {
	mu    sync.Mutex
	rooms []string
}

func (b *recordingBroadcaster) BroadcastToRoom(_ string, room string, _ string, _ ...interface{}) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, room)
	return true
}

func newMessageFixture(t *testing.T) (*MessageService, *repositories.MockUserRepository, *recordingBroadcaster) {
	t.Helper()
	conversations := repositories.NewMockConversationRepository()
	messages := repositories.NewMockMessageRepository()
	users := repositories.NewMockUserRepository()
	broadcaster := &recordingBroadcaster{}
	registry := NewConversationService(conversations, messages, users)
	return NewMessageService(registry, messages, users, broadcaster), users, broadcaster
}

func TestSendCreatesConversationAndBroadcasts(t *testing.T) {
	svc, users, broadcaster := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	message, err := svc.Send(context.Background(), "u1", "u2", "hi")
	require.NoError(t, err)
	assert.Equal(t, "u1", message.SenderID)
	assert.Equal(t, "u2", message.ReceiverID)
	assert.Equal(t, "hi", message.Content)
	assert.False(t, message.IsRead)

	conversation, err := svc.Registry.GetOrCreate(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, message.MessageID, conversation.LastMessageID)
	assert.Equal(t, []string{conversation.ConversationID}, broadcaster.rooms)
}

func TestSendRejectsWhitespaceOnlyContent(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), "u1", "u2", content)
		assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
	}
}

func TestSendRejectsSelfAndUnknownReceiver(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")

	_, err := svc.Send(context.Background(), "u1", "u1", "hi")
	assert.ErrorIs(t, err, apperrors.ErrSelfConversation)

	_, err = svc.Send(context.Background(), "u1", "ghost", "hi")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestFetchReturnsMessagesInSendOrder(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	first, err := svc.Send(context.Background(), "u1", "u2", "one")
	require.NoError(t, err)
	second, err := svc.Send(context.Background(), "u2", "u1", "two")
	require.NoError(t, err)
	third, err := svc.Send(context.Background(), "u1", "u2", "three")
	require.NoError(t, err)

	messages, err := svc.Fetch(context.Background(), "u1", "u2")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, first.MessageID, messages[0].MessageID)
	assert.Equal(t, second.MessageID, messages[1].MessageID)
	assert.Equal(t, third.MessageID, messages[2].MessageID)
}

func TestFetchMarksOnlyReaderReceivedMessagesRead(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	_, err := svc.Send(context.Background(), "u1", "u2", "hi")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), "u2", "u1", "hey back")
	require.NoError(t, err)

	// u2 fetches: the message u1 sent is now read, u2's own stays as-is.
	messages, err := svc.Fetch(context.Background(), "u2", "u1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.True(t, messages[0].IsRead)
	assert.False(t, messages[1].IsRead)

	// u1's view must agree: only the message addressed to u2 is read.
	messages, err = svc.Fetch(context.Background(), "u1", "u2")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.True(t, messages[0].IsRead)
	assert.True(t, messages[1].IsRead) // u1 just read it
}

func TestFetchIsIdempotent(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	_, err := svc.Send(context.Background(), "u1", "u2", "hi")
	require.NoError(t, err)

	first, err := svc.Fetch(context.Background(), "u2", "u1")
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), "u2", "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFetchWithoutConversationReturnsEmptyList(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	messages, err := svc.Fetch(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestFetchUnknownOtherUserFails(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")

	_, err := svc.Fetch(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, apperrors.ErrReceiverNotFound)
}

func TestUnreadCountDropsToZeroAfterFetch(t *testing.T) {
	svc, users, _ := newMessageFixture(t)
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")

	for _, content := range []string{"one", "two", "three"} {
		_, err := svc.Send(context.Background(), "u1", "u2", content)
		require.NoError(t, err)
	}

	summaries, err := svc.Registry.List(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].UnreadMessages)

	_, err = svc.Fetch(context.Background(), "u2", "u1")
	require.NoError(t, err)

	summaries, err = svc.Registry.List(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].UnreadMessages)

	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "three", summaries[0].LastMessage.Content)
}
