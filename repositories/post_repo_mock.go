package repositories

import (
	"context"
	"sort"
	"sync"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
)

// MockPostRepository is an in-memory implementation of PostRepository.
type MockPostRepository struct {
	posts map[string]models.Post
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{posts: make(map[string]models.Post)}
}

func (r *MockPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.PostID] = *post
	return nil
}

func (r *MockPostRepository) Save(ctx context.Context, post *models.Post) error {
	return r.Create(ctx, post)
}

func (r *MockPostRepository) Delete(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, postID)
	return nil
}

func (r *MockPostRepository) GetByID(_ context.Context, postID string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	return &post, nil
}

func (r *MockPostRepository) ListAll(_ context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, post)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}

func (r *MockPostRepository) ListByAuthor(_ context.Context, authorID string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var posts []models.Post
	for _, post := range r.posts {
		if post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}

func (r *MockPostRepository) mutateSet(postID string, mutate func(*models.Post)) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	mutate(&post)
	r.posts[postID] = post
	return &post, nil
}

func (r *MockPostRepository) AddLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return r.mutateSet(postID, func(p *models.Post) {
		p.Likes = addMember(p.Likes, userID)
	})
}

func (r *MockPostRepository) RemoveLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return r.mutateSet(postID, func(p *models.Post) {
		p.Likes = removeMember(p.Likes, userID)
	})
}

func (r *MockPostRepository) AddCommentRef(_ context.Context, postID, commentID string) error {
	_, err := r.mutateSet(postID, func(p *models.Post) {
		p.Comments = addMember(p.Comments, commentID)
	})
	return err
}

func (r *MockPostRepository) RemoveCommentRef(_ context.Context, postID, commentID string) error {
	_, err := r.mutateSet(postID, func(p *models.Post) {
		p.Comments = removeMember(p.Comments, commentID)
	})
	return err
}
