package repositories

import (
	"context"
	"fmt"

	"snapgram_server/db"
	"snapgram_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MessageRepository is the data-access contract for the append-only
// message log. The sort key embeds the creation timestamp, so
// ListByConversation comes back in creation order without an app-side
// sort. MarkRead is a one-way transition: it only flips an unread flag
// and silently no-ops on a message that is already read or gone.
type MessageRepository interface {
	Append(ctx context.Context, message *models.Message) error
	GetByKey(ctx context.Context, conversationID, sortKey string) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, sortKey string) error
	CountUnread(ctx context.Context, conversationID, receiverID string) (int, error)
	DeleteByConversation(ctx context.Context, conversationID string) (int, error)
}

type DynamoMessageRepository struct {
	Dynamo *db.DynamoService
}

func NewDynamoMessageRepository(dynamo *db.DynamoService) *DynamoMessageRepository {
	return &DynamoMessageRepository{Dynamo: dynamo}
}

func messageKey(conversationID, sortKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"sortKey":        &types.AttributeValueMemberS{Value: sortKey},
	}
}

func (r *DynamoMessageRepository) Append(ctx context.Context, message *models.Message) error {
	item, err := attributevalue.MarshalMap(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return r.Dynamo.PutItem(ctx, models.MessagesTable, item)
}

func (r *DynamoMessageRepository) GetByKey(ctx context.Context, conversationID, sortKey string) (*models.Message, error) {
	item, err := r.Dynamo.GetItem(ctx, models.MessagesTable, messageKey(conversationID, sortKey))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var message models.Message
	if err := attributevalue.UnmarshalMap(item, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &message, nil
}

func (r *DynamoMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	items, err := r.Dynamo.QueryItems(ctx, models.MessagesTable, "",
		"conversationId = :conversationId",
		map[string]types.AttributeValue{
			":conversationId": &types.AttributeValueMemberS{Value: conversationID},
		}, nil, true)
	if err != nil {
		return nil, err
	}
	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips isRead to true if it is still false. Losing the
// condition means someone already marked it, which is fine — the
// transition is idempotent and never goes back.
func (r *DynamoMessageRepository) MarkRead(ctx context.Context, conversationID, sortKey string) error {
	_, err := r.Dynamo.UpdateItem(ctx, models.MessagesTable,
		"SET isRead = :true",
		"isRead = :false",
		messageKey(conversationID, sortKey),
		map[string]types.AttributeValue{
			":true":  &types.AttributeValueMemberBOOL{Value: true},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		}, nil)
	if err == db.ErrConditionFailed {
		return nil
	}
	return err
}

func (r *DynamoMessageRepository) CountUnread(ctx context.Context, conversationID, receiverID string) (int, error) {
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

// DeleteByConversation removes the whole message history of a
// conversation and reports how many messages went. Called before the
// conversation document itself is deleted, so a crash mid-cascade never
// leaves messages without their conversation.
func (r *DynamoMessageRepository) DeleteByConversation(ctx context.Context, conversationID string) (int, error) {
	messages, err := r.ListByConversation(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}
	keys := make([]map[string]types.AttributeValue, 0, len(messages))
	for _, message := range messages {
		keys = append(keys, messageKey(message.ConversationID, message.SortKey))
	}
	if err := r.Dynamo.BatchDeleteItems(ctx, models.MessagesTable, keys); err != nil {
		return 0, err
	}
	return len(messages), nil
}
