package repositories

import (
	"context"
	"fmt"

	"snapgram_server/db"
	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConversationRepository is the data-access contract for the conversation
// registry. Create is conditional on the canonical pair key being absent:
// under a concurrent first-contact race exactly one writer wins and the
// loser observes ErrConversationExists, which it retries as a lookup.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *models.Conversation) error
	GetByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error)
	GetByID(ctx context.Context, conversationID string) (*models.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]models.Conversation, error)
	// SetLastMessage is a pure pointer update; it must never create the
	// conversation. If the conversation vanished it reports
	// ErrConversationNotFound.
	SetLastMessage(ctx context.Context, pairKey, messageID, messageKey, updatedAt string) error
	Delete(ctx context.Context, pairKey string) error
}

type DynamoConversationRepository struct {
	Dynamo *db.DynamoService
}

func NewDynamoConversationRepository(dynamo *db.DynamoService) *DynamoConversationRepository {
	return &DynamoConversationRepository{Dynamo: dynamo}
}

func conversationKey(pairKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
}

func (r *DynamoConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	item, err := attributevalue.MarshalMap(conversation)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := r.Dynamo.PutItemIfAbsent(ctx, models.ConversationsTable, item, "pairKey"); err != nil {
		if err == db.ErrConditionFailed {
			return apperrors.ErrConversationExists
		}
		return err
	}
	return nil
}

func (r *DynamoConversationRepository) GetByPairKey(ctx context.Context, pairKey string) (*models.Conversation, error) {
	item, err := r.Dynamo.GetItem(ctx, models.ConversationsTable, conversationKey(pairKey))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}

func (r *DynamoConversationRepository) GetByID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	items, err := r.Dynamo.QueryItems(ctx, models.ConversationsTable, models.ConversationsIDIndex,
		"conversationId = :id",
		map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: conversationID},
		}, nil, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(items[0], &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}

// ListByParticipant queries both participant-position indexes; a user can
// sit on either side of the canonical ordering.
func (r *DynamoConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	for _, index := range []struct{ name, attr string }{
		{models.ConversationsParticipantOneIndex, "participantOne"},
		{models.ConversationsParticipantTwoIndex, "participantTwo"},
	} {
		items, err := r.Dynamo.QueryItems(ctx, models.ConversationsTable, index.name,
			fmt.Sprintf("%s = :userId", index.attr),
			map[string]types.AttributeValue{
				":userId": &types.AttributeValueMemberS{Value: userID},
			}, nil, true)
		if err != nil {
			return nil, err
		}
		var page []models.Conversation
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversations: %w", err)
		}
		conversations = append(conversations, page...)
	}
	return conversations, nil
}

func (r *DynamoConversationRepository) SetLastMessage(ctx context.Context, pairKey, messageID, messageKey, updatedAt string) error {
	_, err := r.Dynamo.UpdateItem(ctx, models.ConversationsTable,
		"SET lastMessageId = :messageId, lastMessageKey = :messageKey, updatedAt = :updatedAt",
		"attribute_exists(pairKey)",
		conversationKey(pairKey),
		map[string]types.AttributeValue{
			":messageId":  &types.AttributeValueMemberS{Value: messageID},
			":messageKey": &types.AttributeValueMemberS{Value: messageKey},
			":updatedAt":  &types.AttributeValueMemberS{Value: updatedAt},
		}, nil)
	if err != nil {
		if err == db.ErrConditionFailed {
			return apperrors.ErrConversationNotFound
		}
		return err
	}
	return nil
}

func (r *DynamoConversationRepository) Delete(ctx context.Context, pairKey string) error {
	return r.Dynamo.DeleteItem(ctx, models.ConversationsTable, conversationKey(pairKey))
}
