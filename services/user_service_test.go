package services

import (
	"context"
	"strings"
	"testing"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	svc           *UserService
	users         *repositories.MockUserRepository
	posts         *repositories.MockPostRepository
	comments      *repositories.MockCommentRepository
	conversations *repositories.MockConversationRepository
	messages      *repositories.MockMessageRepository
	media         *MockMediaService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users:         repositories.NewMockUserRepository(),
		posts:         repositories.NewMockPostRepository(),
		comments:      repositories.NewMockCommentRepository(),
		conversations: repositories.NewMockConversationRepository(),
		messages:      repositories.NewMockMessageRepository(),
		media:         NewMockMediaService(),
	}
	f.svc = &UserService{
		Users:         f.users,
		Posts:         f.posts,
		Comments:      f.comments,
		Conversations: f.conversations,
		Messages:      f.messages,
		Media:         f.media,
	}
	return f
}

func TestHandleIdentityEventCreatesUser(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.HandleIdentityEvent(context.Background(), IdentityEvent{
		Type:    "user.created",
		ClerkID: "clerk_1",
		Email:   "alice@example.com",
		Gender:  models.GenderFemale,
	})
	require.NoError(t, err)

	user, err := f.users.GetByClerkID(context.Background(), "clerk_1")
	require.NoError(t, err)
	require.NotNil(t, user)
	// Username falls back to the email local part.
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.GenderFemale, user.Gender)
	assert.NotEmpty(t, user.UserID)
}

func TestHandleIdentityEventRejectsInvalidUsername(t *testing.T) {
	f := newUserFixture(t)

	cases := []IdentityEvent{
		{Type: "user.created", ClerkID: "c1", Username: "ab"},
		{Type: "user.created", ClerkID: "c2", Username: "way_too_long_username_x"},
		{Type: "user.created", ClerkID: "c3", Username: "bad name"},
		{Type: "user.created", ClerkID: "c4"},
	}
	for _, event := range cases {
		err := f.svc.HandleIdentityEvent(context.Background(), event)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	}
}

func TestHandleIdentityEventRejectsTakenUsername(t *testing.T) {
	f := newUserFixture(t)
	seedUser(t, f.users, "u1", "alice")

	err := f.svc.HandleIdentityEvent(context.Background(), IdentityEvent{
		Type:     "user.created",
		ClerkID:  "clerk_other",
		Username: "alice",
	})
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))
}

func TestHandleIdentityEventUpdateUpsertsUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.HandleIdentityEvent(context.Background(), IdentityEvent{
		Type:     "user.updated",
		ClerkID:  "clerk_1",
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	user, err := f.users.GetByClerkID(context.Background(), "clerk_1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
}

func TestHandleIdentityEventUpdateMergesFields(t *testing.T) {
	f := newUserFixture(t)
	seedUser(t, f.users, "u1", "alice")

	err := f.svc.HandleIdentityEvent(context.Background(), IdentityEvent{
		Type:    "user.updated",
		ClerkID: "clerk_u1",
		Bio:     "hello there",
		Gender:  models.GenderFemale,
	})
	require.NoError(t, err)

	user, err := f.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username) // unchanged
	assert.Equal(t, "hello there", user.Bio)
	assert.Equal(t, models.GenderFemale, user.Gender)
}

func TestHandleIdentityEventIgnoresUnknownType(t *testing.T) {
	f := newUserFixture(t)
	assert.NoError(t, f.svc.HandleIdentityEvent(context.Background(), IdentityEvent{Type: "session.created"}))
}

func TestDeleteByClerkIDCascades(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := seedUser(t, f.users, "u1", "alice")
	seedUser(t, f.users, "u2", "bob")

	// Follow edges on both sides.
	_, err := f.users.AddFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	_, err = f.users.AddFollow(ctx, "u2", "u1")
	require.NoError(t, err)

	// A post by alice with a comment by bob, and a comment by alice on
	// bob's post.
	alicePost := models.Post{PostID: "p1", Caption: "mine", AuthorID: "u1", ImageKey: "img1", CreatedAt: "2026-01-01T00:00:00.000000000Z"}
	bobPost := models.Post{PostID: "p2", Caption: "theirs", AuthorID: "u2", CreatedAt: "2026-01-02T00:00:00.000000000Z"}
	require.NoError(t, f.posts.Create(ctx, &alicePost))
	require.NoError(t, f.posts.Create(ctx, &bobPost))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{CommentID: "c1", PostID: "p2", AuthorID: "u1", Text: "nice"}))
	require.NoError(t, f.posts.AddCommentRef(ctx, "p2", "c1"))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{CommentID: "c2", PostID: "p1", AuthorID: "u2", Text: "thanks"}))
	require.NoError(t, f.posts.AddCommentRef(ctx, "p1", "c2"))

	// A conversation with one message.
	registry := NewConversationService(f.conversations, f.messages, f.users)
	messageSvc := NewMessageService(registry, f.messages, f.users, nil)
	_, err = messageSvc.Send(ctx, "u1", "u2", "hi")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteByClerkID(ctx, alice.ClerkID))

	// The user document is gone.
	gone, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Alice's post, its comments and its media asset are gone.
	post, err := f.posts.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, post)
	comment, err := f.comments.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Nil(t, comment)

	// Alice's comment on bob's post is gone and detached.
	comment, err = f.comments.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, comment)
	bobPostAfter, err := f.posts.GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Empty(t, bobPostAfter.Comments)

	// The conversation and its messages are gone.
	assert.Zero(t, f.conversations.Len())

	// Bob no longer references alice on either edge.
	bob, err := f.users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.NotContains(t, bob.Followers, "u1")
	assert.NotContains(t, bob.Following, "u1")
}

func TestDeleteByClerkIDUnknownUser(t *testing.T) {
	f := newUserFixture(t)
	err := f.svc.DeleteByClerkID(context.Background(), "clerk_ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestHandleIdentityEventAcksDeletionOfUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	// Redelivered deletions must not error, or the provider retries forever.
	err := f.svc.HandleIdentityEvent(context.Background(), IdentityEvent{
		Type:    "user.deleted",
		ClerkID: "clerk_ghost",
	})
	assert.NoError(t, err)
}

func TestEditProfileRequiresAField(t *testing.T) {
	f := newUserFixture(t)
	alice := seedUser(t, f.users, "u1", "alice")

	_, err := f.svc.EditProfile(context.Background(), alice.ClerkID, EditProfileInput{})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestEditProfileValidatesFields(t *testing.T) {
	f := newUserFixture(t)
	alice := seedUser(t, f.users, "u1", "alice")

	longBio := strings.Repeat("x", models.MaxCaptionLength+1)
	_, err := f.svc.EditProfile(context.Background(), alice.ClerkID, EditProfileInput{Bio: &longBio})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	bad := "other"
	_, err = f.svc.EditProfile(context.Background(), alice.ClerkID, EditProfileInput{Gender: &bad})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestEditProfileCountsBioInRunesNotBytes(t *testing.T) {
	f := newUserFixture(t)
	alice := seedUser(t, f.users, "u1", "alice")

	// 200 two-byte runes: 400 bytes but well under the 300-char limit.
	bio := strings.Repeat("é", 200)
	user, err := f.svc.EditProfile(context.Background(), alice.ClerkID, EditProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, user.Bio)

	tooLong := strings.Repeat("é", models.MaxCaptionLength+1)
	_, err = f.svc.EditProfile(context.Background(), alice.ClerkID, EditProfileInput{Bio: &tooLong})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestEditProfileUploadsImageAndReplacesOld(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := seedUser(t, f.users, "u1", "alice")

	upload := func() *models.User {
		user, err := f.svc.EditProfile(ctx, alice.ClerkID, EditProfileInput{
			Image: &ImageUpload{Body: strings.NewReader("img"), Filename: "a.png", ContentType: "image/png"},
		})
		require.NoError(t, err)
		return user
	}
	first := upload()
	assert.True(t, f.media.Stored(first.ProfileImageKey))

	second := upload()
	assert.True(t, f.media.Stored(second.ProfileImageKey))
	assert.False(t, f.media.Stored(first.ProfileImageKey))
	assert.NotEqual(t, first.ProfileImageKey, second.ProfileImageKey)
}

func TestEditProfileUploadFailureAborts(t *testing.T) {
	f := newUserFixture(t)
	alice := seedUser(t, f.users, "u1", "alice")

	f.media.FailNext = true
	bio := "new bio"
	_, err := f.svc.EditProfile(context.Background(), alice.ClerkID, EditProfileInput{
		Bio:   &bio,
		Image: &ImageUpload{Body: strings.NewReader("img"), Filename: "a.png", ContentType: "image/png"},
	})
	assert.Equal(t, apperrors.CodeDependencyFailed, apperrors.CodeOf(err))

	user, err := f.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, user.Bio)
}

func TestToggleFollowFlipsBothEdges(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := seedUser(t, f.users, "u1", "alice")
	seedUser(t, f.users, "u2", "bob")

	isFollow, err := f.svc.ToggleFollow(ctx, alice, "u2")
	require.NoError(t, err)
	assert.True(t, isFollow)

	bob, err := f.users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Contains(t, bob.Followers, "u1")

	alice, err = f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	isFollow, err = f.svc.ToggleFollow(ctx, alice, "u2")
	require.NoError(t, err)
	assert.False(t, isFollow)

	bob, err = f.users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.NotContains(t, bob.Followers, "u1")
}

func TestToggleFollowRejectsSelf(t *testing.T) {
	f := newUserFixture(t)
	alice := seedUser(t, f.users, "u1", "alice")

	_, err := f.svc.ToggleFollow(context.Background(), alice, "u1")
	assert.ErrorIs(t, err, apperrors.ErrSelfFollow)
}

func TestRecommendedExcludesSelfAndFollowed(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := seedUser(t, f.users, "u1", "alice")
	seedUser(t, f.users, "u2", "bob")
	seedUser(t, f.users, "u3", "carol")
	_, err := f.users.AddFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	alice, err = f.users.GetByID(ctx, "u1")
	require.NoError(t, err)

	results, err := f.svc.Recommended(ctx, alice)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "carol", results[0].Username)
}

func TestProfileViewFlags(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := seedUser(t, f.users, "u1", "alice")
	seedUser(t, f.users, "u2", "bob")
	_, err := f.users.AddFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	alice, err = f.users.GetByID(ctx, "u1")
	require.NoError(t, err)

	profile, err := f.svc.Profile(ctx, alice, "u2")
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsAuthor)
	assert.Equal(t, 1, profile.FollowersCount)

	own, err := f.svc.Profile(ctx, alice, "u1")
	require.NoError(t, err)
	assert.True(t, own.IsAuthor)
	assert.Equal(t, 1, own.FollowingCount)
}

func TestFollowersListIsViewerRelative(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := seedUser(t, f.users, "u1", "alice")
	seedUser(t, f.users, "u2", "bob")
	seedUser(t, f.users, "u3", "carol")
	_, err := f.users.AddFollow(ctx, "u2", "u3") // bob follows carol
	require.NoError(t, err)
	_, err = f.users.AddFollow(ctx, "u1", "u2") // alice follows bob
	require.NoError(t, err)

	followers, err := f.svc.Followers(ctx, alice, "u3")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].Username)
	assert.True(t, followers[0].IsFollowing)

	following, err := f.svc.Following(ctx, alice, "u2")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].Username)
	assert.False(t, following[0].IsFollowing)
}

func TestSearchMatchesCaseInsensitiveSubstring(t *testing.T) {
	f := newUserFixture(t)
	seedUser(t, f.users, "u1", "AliceWonder")
	seedUser(t, f.users, "u2", "bob")

	results, err := f.svc.Search(context.Background(), "wonder")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "AliceWonder", results[0].Username)
}

func TestRequireCaller(t *testing.T) {
	f := newUserFixture(t)
	alice := seedUser(t, f.users, "u1", "alice")

	_, err := f.svc.RequireCaller(context.Background(), "")
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))

	_, err = f.svc.RequireCaller(context.Background(), "clerk_ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	user, err := f.svc.RequireCaller(context.Background(), alice.ClerkID)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
}
