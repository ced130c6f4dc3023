package models

// Message belongs to exactly one conversation. The sort key is
// createdAt#messageId so a plain ascending query returns creation order;
// the id suffix keeps keys unique if two timestamps collide.
//
// Messages are immutable once written except for IsRead, which only ever
// transitions false -> true, and only for the receiver.
type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	SortKey        string `dynamodbav:"sortKey" json:"-"`
	MessageID      string `dynamodbav:"messageId" json:"messageId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	ReceiverID     string `dynamodbav:"receiverId" json:"receiverId"`
	Content        string `dynamodbav:"content" json:"content"`
	IsRead         bool   `dynamodbav:"isRead" json:"isRead"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// MessagesTable is the DynamoDB table name for messages
const MessagesTable = "Messages"

// TimeFormat is RFC 3339 with a fixed-width nanosecond fraction.
// time.RFC3339Nano trims trailing zeros, which would break the
// lexicographic ordering the sort keys rely on.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func MessageSortKey(createdAt, messageID string) string {
	return createdAt + "#" + messageID
}
