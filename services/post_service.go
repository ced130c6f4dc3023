package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/google/uuid"
)

// PostService owns post CRUD, the feed projections and the like and
// bookmark toggles.
type PostService struct {
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Users    repositories.UserRepository
	Media    MediaService
}

func NewPostService(posts repositories.PostRepository, comments repositories.CommentRepository, users repositories.UserRepository, media MediaService) *PostService {
	return &PostService{Posts: posts, Comments: comments, Users: users, Media: media}
}

// Create uploads the image first and only then writes the post, so a
// failed upload never leaves a post without media. AddPostRef failures
// after the write are logged, not rolled back.
func (s *PostService) Create(ctx context.Context, author *models.User, caption string, image *ImageUpload) (*models.Post, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, apperrors.ErrEmptyCaption
	}
	if utf8.RuneCountInString(caption) > models.MaxCaptionLength {
		return nil, apperrors.InvalidArg("Caption length should not exceed 300 characters")
	}
	if image == nil {
		return nil, apperrors.ErrMissingImage
	}

	asset, err := s.Media.Upload(ctx, image.Body, image.Filename, image.ContentType)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependencyFailed, "Something went wrong while uploading image", err)
	}

	now := time.Now().UTC().Format(models.TimeFormat)
	post := models.Post{
		PostID:    uuid.New().String(),
		Caption:   caption,
		Image:     asset.URL,
		ImageKey:  asset.DeleteHandle,
		AuthorID:  author.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Posts.Create(ctx, &post); err != nil {
		if delErr := s.Media.Delete(ctx, asset.DeleteHandle); delErr != nil {
			log.Printf("Failed to delete media asset %s after aborted post: %v", asset.DeleteHandle, delErr)
		}
		return nil, err
	}
	if err := s.Users.AddPostRef(ctx, author.UserID, post.PostID); err != nil {
		log.Printf("Failed to attach post %s to user %s: %v", post.PostID, author.UserID, err)
	}
	return &post, nil
}

// Update edits the caption and/or image of the caller's own post. A
// replaced image releases the old asset best effort.
func (s *PostService) Update(ctx context.Context, caller *models.User, postID string, caption *string, image *ImageUpload) (*models.Post, error) {
	if caption == nil && image == nil {
		return nil, apperrors.ErrNoEditFields
	}
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != caller.UserID {
		return nil, apperrors.ErrNotPostAuthor
	}

	if caption != nil {
		text := strings.TrimSpace(*caption)
		if text == "" {
			return nil, apperrors.ErrEmptyCaption
		}
		if utf8.RuneCountInString(text) > models.MaxCaptionLength {
			return nil, apperrors.InvalidArg("Caption length should not exceed 300 characters")
		}
		post.Caption = text
	}
	if image != nil {
		asset, err := s.Media.Upload(ctx, image.Body, image.Filename, image.ContentType)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDependencyFailed, "Something went wrong while uploading image", err)
		}
		if post.ImageKey != "" {
			if err := s.Media.Delete(ctx, post.ImageKey); err != nil {
				log.Printf("Failed to delete media asset %s: %v", post.ImageKey, err)
			}
		}
		post.Image = asset.URL
		post.ImageKey = asset.DeleteHandle
	}
	post.UpdatedAt = time.Now().UTC().Format(models.TimeFormat)
	if err := s.Posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the caller's own post with its comments and media. The
// comments go first so an interrupted run cannot leave comments pointing
// at a missing post; the media delete is best effort.
func (s *PostService) Delete(ctx context.Context, caller *models.User, postID string) error {
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.UserID {
		return apperrors.ErrNotPostAuthor
	}

	if _, err := s.Comments.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if post.ImageKey != "" {
		if err := s.Media.Delete(ctx, post.ImageKey); err != nil {
			log.Printf("Failed to delete media asset %s: %v", post.ImageKey, err)
		}
	}
	if err := s.Posts.Delete(ctx, postID); err != nil {
		return err
	}
	if err := s.Users.RemovePostRef(ctx, caller.UserID, postID); err != nil {
		log.Printf("Failed to detach post %s from user %s: %v", postID, caller.UserID, err)
	}
	return nil
}

// Feed returns all posts newest first, projected relative to the viewer.
func (s *PostService) Feed(ctx context.Context, viewer *models.User) ([]models.PostFeedItem, error) {
	posts, err := s.Posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.feedItems(ctx, viewer, posts)
}

// UserPosts returns one user's posts newest first, viewer-relative.
func (s *PostService) UserPosts(ctx context.Context, viewer *models.User, authorID string) ([]models.PostFeedItem, error) {
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperrors.ErrUserNotFound
	}
	posts, err := s.Posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.feedItems(ctx, viewer, posts)
}

// Get returns the single-post detail page with resolved comments.
func (s *PostService) Get(ctx context.Context, viewer *models.User, postID string) (*models.PostDetail, error) {
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	authors, err := s.Users.BatchGet(ctx, []string{post.AuthorID})
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	commentAuthorIDs := make([]string, 0, len(comments))
	for _, comment := range comments {
		commentAuthorIDs = append(commentAuthorIDs, comment.AuthorID)
	}
	commentAuthors, err := s.Users.BatchGet(ctx, commentAuthorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, models.CommentView{
			CommentID: comment.CommentID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
			Author:    summaryOf(commentAuthors[comment.AuthorID]),
		})
	}
	return &models.PostDetail{
		PostID:       post.PostID,
		Caption:      post.Caption,
		Image:        post.Image,
		CreatedAt:    post.CreatedAt,
		LikeCount:    len(post.Likes),
		CommentCount: len(post.Comments),
		IsLiked:      models.Contains(post.Likes, viewer.UserID),
		IsBookmarked: models.Contains(viewer.Bookmarks, post.PostID),
		Author:       summaryOf(authors[post.AuthorID]),
		Comments:     views,
	}, nil
}

// Bookmarked resolves the viewer's bookmarked posts, newest first.
func (s *PostService) Bookmarked(ctx context.Context, viewer *models.User) ([]models.PostFeedItem, error) {
	posts := make([]models.Post, 0, len(viewer.Bookmarks))
	for _, postID := range viewer.Bookmarks {
		post, err := s.Posts.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			// Bookmark of a since-deleted post; skip it.
			continue
		}
		posts = append(posts, *post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return s.feedItems(ctx, viewer, posts)
}

// ToggleLike likes the post if the viewer has not liked it, otherwise
// removes the like. The returned flag and count come from the store's
// post-update state.
func (s *PostService) ToggleLike(ctx context.Context, viewer *models.User, postID string) (liked bool, likeCount int, err error) {
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	var updated *models.Post
	if models.Contains(post.Likes, viewer.UserID) {
		updated, err = s.Posts.RemoveLike(ctx, postID, viewer.UserID)
	} else {
		updated, err = s.Posts.AddLike(ctx, postID, viewer.UserID)
	}
	if err != nil {
		return false, 0, err
	}
	return models.Contains(updated.Likes, viewer.UserID), len(updated.Likes), nil
}

// ToggleBookmark adds or removes the post on the viewer's bookmark list.
func (s *PostService) ToggleBookmark(ctx context.Context, viewer *models.User, postID string) (bookmarked bool, err error) {
	if _, err := s.requirePost(ctx, postID); err != nil {
		return false, err
	}
	var updated *models.User
	if models.Contains(viewer.Bookmarks, postID) {
		updated, err = s.Users.RemoveBookmark(ctx, viewer.UserID, postID)
	} else {
		updated, err = s.Users.AddBookmark(ctx, viewer.UserID, postID)
	}
	if err != nil {
		return false, err
	}
	return models.Contains(updated.Bookmarks, postID), nil
}

func (s *PostService) requirePost(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, apperrors.ErrInvalidID
	}
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) feedItems(ctx context.Context, viewer *models.User, posts []models.Post) ([]models.PostFeedItem, error) {
	authorIDs := make([]string, 0, len(posts))
	for _, post := range posts {
		authorIDs = append(authorIDs, post.AuthorID)
	}
	authors, err := s.Users.BatchGet(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.PostFeedItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, models.PostFeedItem{
			PostID:       post.PostID,
			Caption:      post.Caption,
			Image:        post.Image,
			CreatedAt:    post.CreatedAt,
			LikeCount:    len(post.Likes),
			CommentCount: len(post.Comments),
			IsLiked:      models.Contains(post.Likes, viewer.UserID),
			IsBookmarked: models.Contains(viewer.Bookmarks, post.PostID),
			Author:       summaryOf(authors[post.AuthorID]),
		})
	}
	return items, nil
}

func summaryOf(user models.User) models.UserSummary {
	return models.UserSummary{
		UserID:       user.UserID,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	}
}
