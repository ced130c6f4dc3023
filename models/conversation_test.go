package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsOrderInsensitive(t *testing.T) {
	assert.Equal(t, PairKey("a", "b"), PairKey("b", "a"))
	assert.Equal(t, "a#b", PairKey("b", "a"))
}

func TestNewConversationStoresParticipantsCanonically(t *testing.T) {
	conversation := NewConversation("zed", "amy")
	assert.Equal(t, "amy#zed", conversation.PairKey)
	assert.True(t, conversation.HasParticipant("zed"))
	assert.True(t, conversation.HasParticipant("amy"))
	assert.False(t, conversation.HasParticipant("bob"))
	assert.Equal(t, "amy", conversation.OtherParticipant("zed"))
	assert.Equal(t, "zed", conversation.OtherParticipant("amy"))
}

func TestMessageSortKeysOrderChronologically(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Fractions that would misorder under a trimmed format.
	earlier := MessageSortKey(base.Add(100*time.Millisecond).Format(TimeFormat), "m1")
	later := MessageSortKey(base.Add(120*time.Millisecond).Format(TimeFormat), "m2")
	assert.Less(t, earlier, later)

	sameTimeA := MessageSortKey(base.Format(TimeFormat), "aaa")
	sameTimeB := MessageSortKey(base.Format(TimeFormat), "bbb")
	assert.NotEqual(t, sameTimeA, sameTimeB)
	assert.Less(t, sameTimeA, sameTimeB)
}
