package services

import (
	"context"
	"testing"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentFixture(t *testing.T) (*CommentService, *repositories.MockCommentRepository, *repositories.MockPostRepository, *repositories.MockUserRepository) {
	t.Helper()
	comments := repositories.NewMockCommentRepository()
	posts := repositories.NewMockPostRepository()
	users := repositories.NewMockUserRepository()
	return NewCommentService(comments, posts, users), comments, posts, users
}

func TestCreateCommentAttachesToPost(t *testing.T) {
	svc, _, posts, users := newCommentFixture(t)
	ctx := context.Background()
	alice := seedUser(t, users, "u1", "alice")
	require.NoError(t, posts.Create(ctx, &models.Post{PostID: "p1", Caption: "c", AuthorID: "u1"}))

	comment, err := svc.Create(ctx, alice, "p1", "  nice shot  ")
	require.NoError(t, err)
	assert.Equal(t, "nice shot", comment.Text)
	assert.Equal(t, "u1", comment.AuthorID)

	post, err := posts.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Contains(t, post.Comments, comment.CommentID)
}

func TestCreateCommentRejectsWhitespaceOnlyText(t *testing.T) {
	svc, comments, posts, users := newCommentFixture(t)
	ctx := context.Background()
	alice := seedUser(t, users, "u1", "alice")
	require.NoError(t, posts.Create(ctx, &models.Post{PostID: "p1", Caption: "c", AuthorID: "u1"}))

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.Create(ctx, alice, "p1", text)
		assert.ErrorIs(t, err, apperrors.ErrEmptyComment)
	}
	listed, err := comments.ListByPost(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	svc, _, _, users := newCommentFixture(t)
	alice := seedUser(t, users, "u1", "alice")

	_, err := svc.Create(context.Background(), alice, "missing", "hello")
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	svc, comments, posts, users := newCommentFixture(t)
	ctx := context.Background()
	alice := seedUser(t, users, "u1", "alice")
	bob := seedUser(t, users, "u2", "bob")
	require.NoError(t, posts.Create(ctx, &models.Post{PostID: "p1", Caption: "c", AuthorID: "u1"}))

	comment, err := svc.Create(ctx, alice, "p1", "mine")
	require.NoError(t, err)

	err = svc.Delete(ctx, bob, comment.CommentID)
	assert.ErrorIs(t, err, apperrors.ErrNotCommentAuthor)

	require.NoError(t, svc.Delete(ctx, alice, comment.CommentID))
	gone, err := comments.GetByID(ctx, comment.CommentID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	post, err := posts.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, post.Comments)

	err = svc.Delete(ctx, alice, comment.CommentID)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestListByPostNewestFirstWithAuthors(t *testing.T) {
	svc, comments, posts, users := newCommentFixture(t)
	ctx := context.Background()
	seedUser(t, users, "u1", "alice")
	seedUser(t, users, "u2", "bob")
	require.NoError(t, posts.Create(ctx, &models.Post{PostID: "p1", Caption: "c", AuthorID: "u1"}))

	older := models.Comment{CommentID: "c1", PostID: "p1", AuthorID: "u1", Text: "first", CreatedAt: "2026-01-01T00:00:00.000000000Z"}
	newer := models.Comment{CommentID: "c2", PostID: "p1", AuthorID: "u2", Text: "second", CreatedAt: "2026-02-01T00:00:00.000000000Z"}
	require.NoError(t, comments.Create(ctx, &older))
	require.NoError(t, comments.Create(ctx, &newer))

	views, err := svc.ListByPost(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "second", views[0].Text)
	assert.Equal(t, "bob", views[0].Author.Username)
	assert.Equal(t, "first", views[1].Text)

	_, err = svc.ListByPost(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}
