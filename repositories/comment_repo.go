package repositories

import (
	"context"
	"fmt"
	"sort"

	"snapgram_server/db"
	"snapgram_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CommentRepository is the data-access contract for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID string) error
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	// ListByPost returns newest first, ListByAuthor has no ordering
	// guarantee (only used by the deletion cascade).
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Comment, error)
	DeleteByPost(ctx context.Context, postID string) (int, error)
}

type DynamoCommentRepository struct {
	Dynamo *db.DynamoService
}

func NewDynamoCommentRepository(dynamo *db.DynamoService) *DynamoCommentRepository {
	return &DynamoCommentRepository{Dynamo: dynamo}
}

func commentKey(commentID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"commentId": &types.AttributeValueMemberS{Value: commentID},
	}
}

func (r *DynamoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	item, err := attributevalue.MarshalMap(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}
	return r.Dynamo.PutItem(ctx, models.CommentsTable, item)
}

func (r *DynamoCommentRepository) Delete(ctx context.Context, commentID string) error {
	return r.Dynamo.DeleteItem(ctx, models.CommentsTable, commentKey(commentID))
}

func (r *DynamoCommentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	item, err := r.Dynamo.GetItem(ctx, models.CommentsTable, commentKey(commentID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var comment models.Comment
	if err := attributevalue.UnmarshalMap(item, &comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}
	return &comment, nil
}

func (r *DynamoCommentRepository) listByIndex(ctx context.Context, index, attr, value string) ([]models.Comment, error) {
	keyCondition := fmt.Sprintf("%s = :v", attr)
	items, err := r.Dynamo.QueryItems(ctx, models.CommentsTable, index, keyCondition,
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		}, nil, false)
	if err != nil {
		return nil, err
	}
	var comments []models.Comment
	if err := attributevalue.UnmarshalListOfMaps(items, &comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}
	return comments, nil
}

func (r *DynamoCommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := r.listByIndex(ctx, models.CommentsPostIndex, "postId", postID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt > comments[j].CreatedAt
	})
	return comments, nil
}

func (r *DynamoCommentRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Comment, error) {
	return r.listByIndex(ctx, models.CommentsAuthorIndex, "authorId", authorID)
}

// DeleteByPost removes every comment of a post and reports how many went.
func (r *DynamoCommentRepository) DeleteByPost(ctx context.Context, postID string) (int, error) {
	comments, err := r.ListByPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	if len(comments) == 0 {
		return 0, nil
	}
	keys := make([]map[string]types.AttributeValue, 0, len(comments))
	for _, comment := range comments {
		keys = append(keys, commentKey(comment.CommentID))
	}
	if err := r.Dynamo.BatchDeleteItems(ctx, models.CommentsTable, keys); err != nil {
		return 0, err
	}
	return len(comments), nil
}
