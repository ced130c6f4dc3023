package models

// Conversation pairs exactly two users. The table's partition key is the
// canonical PairKey, so "at most one conversation per unordered pair" is a
// plain key-uniqueness condition checked with a conditional put.
type Conversation struct {
	PairKey        string `dynamodbav:"pairKey" json:"-"`
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	// ParticipantOne < ParticipantTwo lexicographically, always.
	ParticipantOne string `dynamodbav:"participantOne" json:"participantOne"`
	ParticipantTwo string `dynamodbav:"participantTwo" json:"participantTwo"`
	// LastMessageID/LastMessageKey form the cached pointer to the most
	// recent message; empty until the first message exists. Messages are
	// the source of truth, the pointer is a denormalization.
	LastMessageID  string `dynamodbav:"lastMessageId,omitempty" json:"lastMessageId,omitempty"`
	LastMessageKey string `dynamodbav:"lastMessageKey,omitempty" json:"-"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"

const (
	ConversationsIDIndex             = "conversationId-index"
	ConversationsParticipantOneIndex = "participantOne-index"
	ConversationsParticipantTwoIndex = "participantTwo-index"
)

// PairKey canonicalizes an unordered user id pair into a deterministic
// lookup key (smaller id first).
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}

// NewConversation builds a conversation for the pair with participants in
// canonical order. Timestamps and the id are filled by the caller.
func NewConversation(a, b string) Conversation {
	if b < a {
		a, b = b, a
	}
	return Conversation{
		PairKey:        a + "#" + b,
		ParticipantOne: a,
		ParticipantTwo: b,
	}
}

func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantOne == userID || c.ParticipantTwo == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ParticipantOne == userID {
		return c.ParticipantTwo
	}
	return c.ParticipantOne
}
