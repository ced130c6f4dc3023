package repositories

import (
	"context"
	"strings"
	"sync"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]models.User)}
}

func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; ok {
		return apperrors.AlreadyExists("User already exists")
	}
	r.users[user.UserID] = *user
	return nil
}

func (r *MockUserRepository) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = *user
	return nil
}

func (r *MockUserRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

func (r *MockUserRepository) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *MockUserRepository) getWhere(match func(models.User) bool) *models.User {
	for _, user := range r.users {
		if match(user) {
			u := user
			return &u
		}
	}
	return nil
}

func (r *MockUserRepository) GetByClerkID(_ context.Context, clerkID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getWhere(func(u models.User) bool { return u.ClerkID == clerkID }), nil
}

func (r *MockUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getWhere(func(u models.User) bool { return u.Username == username }), nil
}

func (r *MockUserRepository) BatchGet(_ context.Context, userIDs []string) (map[string]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]models.User, len(userIDs))
	for _, id := range userIDs {
		if user, ok := r.users[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

func (r *MockUserRepository) ListAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *MockUserRepository) SearchByUsername(_ context.Context, query string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	var users []models.User
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Username), q) {
			users = append(users, user)
		}
	}
	return users, nil
}

func addMember(set []string, member string) []string {
	if models.Contains(set, member) {
		return set
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	return append(out, member)
}

func removeMember(set []string, member string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if v != member {
			out = append(out, v)
		}
	}
	return out
}

func (r *MockUserRepository) mutateSet(userID string, mutate func(*models.User)) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	mutate(&user)
	r.users[userID] = user
	return &user, nil
}

func (r *MockUserRepository) AddFollow(_ context.Context, followerID, followeeID string) (*models.User, error) {
	if _, err := r.mutateSet(followeeID, func(u *models.User) {
		u.Followers = addMember(u.Followers, followerID)
	}); err != nil {
		return nil, err
	}
	return r.mutateSet(followerID, func(u *models.User) {
		u.Following = addMember(u.Following, followeeID)
	})
}

func (r *MockUserRepository) RemoveFollow(_ context.Context, followerID, followeeID string) (*models.User, error) {
	if _, err := r.mutateSet(followeeID, func(u *models.User) {
		u.Followers = removeMember(u.Followers, followerID)
	}); err != nil {
		return nil, err
	}
	return r.mutateSet(followerID, func(u *models.User) {
		u.Following = removeMember(u.Following, followeeID)
	})
}

func (r *MockUserRepository) AddBookmark(_ context.Context, userID, postID string) (*models.User, error) {
	return r.mutateSet(userID, func(u *models.User) {
		u.Bookmarks = addMember(u.Bookmarks, postID)
	})
}

func (r *MockUserRepository) RemoveBookmark(_ context.Context, userID, postID string) (*models.User, error) {
	return r.mutateSet(userID, func(u *models.User) {
		u.Bookmarks = removeMember(u.Bookmarks, postID)
	})
}

func (r *MockUserRepository) AddPostRef(_ context.Context, userID, postID string) error {
	_, err := r.mutateSet(userID, func(u *models.User) {
		u.Posts = addMember(u.Posts, postID)
	})
	return err
}

func (r *MockUserRepository) RemovePostRef(_ context.Context, userID, postID string) error {
	_, err := r.mutateSet(userID, func(u *models.User) {
		u.Posts = removeMember(u.Posts, postID)
	})
	return err
}
