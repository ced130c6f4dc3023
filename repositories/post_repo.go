package repositories

import (
	"context"
	"fmt"
	"sort"

	"snapgram_server/db"
	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PostRepository is the data-access contract for posts. Like and comment
// membership updates are atomic set primitives; the returned post state
// after a mutation is authoritative.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)

	AddLike(ctx context.Context, postID, userID string) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error)
	AddCommentRef(ctx context.Context, postID, commentID string) error
	RemoveCommentRef(ctx context.Context, postID, commentID string) error
}

type DynamoPostRepository struct {
	Dynamo *db.DynamoService
}

func NewDynamoPostRepository(dynamo *db.DynamoService) *DynamoPostRepository {
	return &DynamoPostRepository{Dynamo: dynamo}
}

func postKey(postID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"postId": &types.AttributeValueMemberS{Value: postID},
	}
}

func (r *DynamoPostRepository) Create(ctx context.Context, post *models.Post) error {
	item, err := attributevalue.MarshalMap(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}
	return r.Dynamo.PutItem(ctx, models.PostsTable, item)
}

func (r *DynamoPostRepository) Save(ctx context.Context, post *models.Post) error {
	return r.Create(ctx, post)
}

func (r *DynamoPostRepository) Delete(ctx context.Context, postID string) error {
	return r.Dynamo.DeleteItem(ctx, models.PostsTable, postKey(postID))
}

func (r *DynamoPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	item, err := r.Dynamo.GetItem(ctx, models.PostsTable, postKey(postID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var post models.Post
	if err := attributevalue.UnmarshalMap(item, &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}
	return &post, nil
}

func (r *DynamoPostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	items, err := r.Dynamo.ScanItems(ctx, models.PostsTable, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var posts []models.Post
	if err := attributevalue.UnmarshalListOfMaps(items, &posts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal posts: %w", err)
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (r *DynamoPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	items, err := r.Dynamo.QueryItems(ctx, models.PostsTable, models.PostsAuthorIndex,
		"authorId = :authorId",
		map[string]types.AttributeValue{
			":authorId": &types.AttributeValueMemberS{Value: authorID},
		}, nil, false)
	if err != nil {
		return nil, err
	}
	var posts []models.Post
	if err := attributevalue.UnmarshalListOfMaps(items, &posts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal posts: %w", err)
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (r *DynamoPostRepository) mutateSet(ctx context.Context, postID, verb, attr, member string) (*models.Post, error) {
	updateExpression := fmt.Sprintf("%s #attr :member", verb)
	attrs, err := r.Dynamo.UpdateItem(ctx, models.PostsTable,
		updateExpression,
		"attribute_exists(postId)",
		postKey(postID),
		map[string]types.AttributeValue{
			":member": &types.AttributeValueMemberSS{Value: []string{member}},
		},
		map[string]string{"#attr": attr})
	if err != nil {
		if err == db.ErrConditionFailed {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	var post models.Post
	if err := attributevalue.UnmarshalMap(attrs, &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}
	return &post, nil
}

func (r *DynamoPostRepository) AddLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.mutateSet(ctx, postID, "ADD", "likes", userID)
}

func (r *DynamoPostRepository) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.mutateSet(ctx, postID, "DELETE", "likes", userID)
}

func (r *DynamoPostRepository) AddCommentRef(ctx context.Context, postID, commentID string) error {
	_, err := r.mutateSet(ctx, postID, "ADD", "comments", commentID)
	return err
}

func (r *DynamoPostRepository) RemoveCommentRef(ctx context.Context, postID, commentID string) error {
	_, err := r.mutateSet(ctx, postID, "DELETE", "comments", commentID)
	return err
}

// Fixed-width timestamps sort lexicographically in time order.
func sortPostsNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
}
