package services

import (
	"context"
	"log"
	"strings"
	"time"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/google/uuid"
)

// CommentService owns comments and keeps the parent post's comment refs
// in step with the comment documents.
type CommentService struct {
	Comments repositories.CommentRepository
	Posts    repositories.PostRepository
	Users    repositories.UserRepository
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, users repositories.UserRepository) *CommentService {
	return &CommentService{Comments: comments, Posts: posts, Users: users}
}

// Create writes a comment under postID. The comment document is written
// first and only then attached to the post, matching the deletion order
// which always detaches before removing.
func (s *CommentService) Create(ctx context.Context, author *models.User, postID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyComment
	}
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.ErrPostNotFound
	}

	now := time.Now().UTC().Format(models.TimeFormat)
	comment := models.Comment{
		CommentID: uuid.New().String(),
		Text:      text,
		PostID:    postID,
		AuthorID:  author.UserID,
		CreatedAt: now,
	}
	if err := s.Comments.Create(ctx, &comment); err != nil {
		return nil, err
	}
	if err := s.Posts.AddCommentRef(ctx, postID, comment.CommentID); err != nil {
		log.Printf("Failed to attach comment %s to post %s: %v", comment.CommentID, postID, err)
	}
	return &comment, nil
}

// Delete removes the caller's own comment and detaches it from its post.
func (s *CommentService) Delete(ctx context.Context, caller *models.User, commentID string) error {
	comment, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperrors.ErrCommentNotFound
	}
	if comment.AuthorID != caller.UserID {
		return apperrors.ErrNotCommentAuthor
	}

	if err := s.Posts.RemoveCommentRef(ctx, comment.PostID, commentID); err != nil && err != apperrors.ErrPostNotFound {
		log.Printf("Failed to detach comment %s from post %s: %v", commentID, comment.PostID, err)
	}
	return s.Comments.Delete(ctx, commentID)
}

// ListByPost returns the post's comments newest first with their authors
// resolved.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.ErrPostNotFound
	}
	comments, err := s.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(comments))
	for _, comment := range comments {
		authorIDs = append(authorIDs, comment.AuthorID)
	}
	authors, err := s.Users.BatchGet(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, models.CommentView{
			CommentID: comment.CommentID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
			Author:    summaryOf(authors[comment.AuthorID]),
		})
	}
	return views, nil
}
