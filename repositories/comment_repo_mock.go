package repositories

import (
	"context"
	"sort"
	"sync"

	"snapgram_server/models"
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	comments map[string]models.Comment
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{comments: make(map[string]models.Comment)}
}

func (r *MockCommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.CommentID] = *comment
	return nil
}

func (r *MockCommentRepository) Delete(_ context.Context, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, commentID)
	return nil
}

func (r *MockCommentRepository) GetByID(_ context.Context, commentID string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	comment, ok := r.comments[commentID]
	if !ok {
		return nil, nil
	}
	return &comment, nil
}

func (r *MockCommentRepository) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var comments []models.Comment
	for _, comment := range r.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt > comments[j].CreatedAt
	})
	return comments, nil
}

func (r *MockCommentRepository) ListByAuthor(_ context.Context, authorID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var comments []models.Comment
	for _, comment := range r.comments {
		if comment.AuthorID == authorID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (r *MockCommentRepository) DeleteByPost(ctx context.Context, postID string) (int, error) {
	comments, err := r.ListByPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, comment := range comments {
		delete(r.comments, comment.CommentID)
	}
	return len(comments), nil
}
