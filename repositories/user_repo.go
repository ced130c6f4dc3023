package repositories

import (
	"context"
	"fmt"
	"strings"

	"snapgram_server/db"
	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserRepository is the data-access contract for the user directory.
// Lookups return (nil, nil) when the user does not exist. The set
// mutations (follow edges, bookmarks, post refs) are atomic add/remove
// primitives keyed on caller + target, never read-modify-write.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	BatchGet(ctx context.Context, userIDs []string) (map[string]models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	SearchByUsername(ctx context.Context, query string) ([]models.User, error)

	// AddFollow/RemoveFollow update both sides of the edge and return
	// the follower's new state; the returned following set is
	// authoritative for the toggle outcome.
	AddFollow(ctx context.Context, followerID, followeeID string) (*models.User, error)
	RemoveFollow(ctx context.Context, followerID, followeeID string) (*models.User, error)
	AddBookmark(ctx context.Context, userID, postID string) (*models.User, error)
	RemoveBookmark(ctx context.Context, userID, postID string) (*models.User, error)
	AddPostRef(ctx context.Context, userID, postID string) error
	RemovePostRef(ctx context.Context, userID, postID string) error
}

type DynamoUserRepository struct {
	Dynamo *db.DynamoService
}

func NewDynamoUserRepository(dynamo *db.DynamoService) *DynamoUserRepository {
	return &DynamoUserRepository{Dynamo: dynamo}
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func (r *DynamoUserRepository) Create(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := r.Dynamo.PutItemIfAbsent(ctx, models.UsersTable, item, "userId"); err != nil {
		if err == db.ErrConditionFailed {
			return apperrors.AlreadyExists("User already exists")
		}
		return err
	}
	return nil
}

func (r *DynamoUserRepository) Save(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return r.Dynamo.PutItem(ctx, models.UsersTable, item)
}

func (r *DynamoUserRepository) Delete(ctx context.Context, userID string) error {
	return r.Dynamo.DeleteItem(ctx, models.UsersTable, userKey(userID))
}

func (r *DynamoUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	item, err := r.Dynamo.GetItem(ctx, models.UsersTable, userKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (r *DynamoUserRepository) getByIndex(ctx context.Context, index, attr, value string) (*models.User, error) {
	keyCondition := fmt.Sprintf("%s = :v", attr)
	items, err := r.Dynamo.QueryItems(ctx, models.UsersTable, index, keyCondition,
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		}, nil, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (r *DynamoUserRepository) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	return r.getByIndex(ctx, models.UsersClerkIDIndex, "clerkId", clerkID)
}

func (r *DynamoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getByIndex(ctx, models.UsersUsernameIndex, "username", username)
}

func (r *DynamoUserRepository) BatchGet(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}
	keys := make([]map[string]types.AttributeValue, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, userKey(id))
	}
	items, err := r.Dynamo.BatchGetItems(ctx, models.UsersTable, keys)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		var user models.User
		if err := attributevalue.UnmarshalMap(item, &user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		users[user.UserID] = user
	}
	return users, nil
}

func (r *DynamoUserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	items, err := r.Dynamo.ScanItems(ctx, models.UsersTable, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return users, nil
}

// SearchByUsername does a case-insensitive substring match over
// usernames. DynamoDB contains() is case-sensitive, so the scan is
// unfiltered and the match happens here; the user table is small.
func (r *DynamoUserRepository) SearchByUsername(ctx context.Context, query string) ([]models.User, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var users []models.User
	for _, user := range all {
		if strings.Contains(strings.ToLower(user.Username), q) {
			users = append(users, user)
		}
	}
	return users, nil
}

// mutateSet runs an atomic ADD or DELETE on one of the user's string
// sets and returns the user's new state.
func (r *DynamoUserRepository) mutateSet(ctx context.Context, userID, verb, attr, member string) (*models.User, error) {
	updateExpression := fmt.Sprintf("%s #attr :member", verb)
	attrs, err := r.Dynamo.UpdateItem(ctx, models.UsersTable,
		updateExpression,
		"attribute_exists(userId)",
		userKey(userID),
		map[string]types.AttributeValue{
			":member": &types.AttributeValueMemberSS{Value: []string{member}},
		},
		map[string]string{"#attr": attr})
	if err != nil {
		if err == db.ErrConditionFailed {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(attrs, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (r *DynamoUserRepository) AddFollow(ctx context.Context, followerID, followeeID string) (*models.User, error) {
	if _, err := r.mutateSet(ctx, followeeID, "ADD", "followers", followerID); err != nil {
		return nil, err
	}
	return r.mutateSet(ctx, followerID, "ADD", "following", followeeID)
}

func (r *DynamoUserRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) (*models.User, error) {
	if _, err := r.mutateSet(ctx, followeeID, "DELETE", "followers", followerID); err != nil {
		return nil, err
	}
	return r.mutateSet(ctx, followerID, "DELETE", "following", followeeID)
}

func (r *DynamoUserRepository) AddBookmark(ctx context.Context, userID, postID string) (*models.User, error) {
	return r.mutateSet(ctx, userID, "ADD", "bookmarks", postID)
}

func (r *DynamoUserRepository) RemoveBookmark(ctx context.Context, userID, postID string) (*models.User, error) {
	return r.mutateSet(ctx, userID, "DELETE", "bookmarks", postID)
}

func (r *DynamoUserRepository) AddPostRef(ctx context.Context, userID, postID string) error {
	_, err := r.mutateSet(ctx, userID, "ADD", "posts", postID)
	return err
}

func (r *DynamoUserRepository) RemovePostRef(ctx context.Context, userID, postID string) error {
	_, err := r.mutateSet(ctx, userID, "DELETE", "posts", postID)
	return err
}
