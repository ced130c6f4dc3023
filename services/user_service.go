package services

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"snapgram_server/models"
	"snapgram_server/pkg/apperrors"
	"snapgram_server/repositories"

	"github.com/google/uuid"
)

var usernameRegexp = regexp.MustCompile(`^[0-9A-Za-z]{3,16}$`)

// IdentityEvent is a normalized identity-provider lifecycle event
// (user.created / user.updated / user.deleted).
type IdentityEvent struct {
	Type     string
	ClerkID  string
	Username string
	Email    string
	ImageURL string
	Bio      string
	Gender   string
}

// ImageUpload carries a pending profile/post image from the HTTP layer.
type ImageUpload struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

// EditProfileInput holds the optional profile-edit fields; at least one
// must be set.
type EditProfileInput struct {
	Bio    *string
	Gender *string
	Image  *ImageUpload
}

// UserService owns the user directory: identity-event ingestion, profile
// editing, follow edges and the user deletion cascade.
type UserService struct {
	Users         repositories.UserRepository
	Posts         repositories.PostRepository
	Comments      repositories.CommentRepository
	Conversations repositories.ConversationRepository
	Messages      repositories.MessageRepository
	Media         MediaService
}

// RequireCaller resolves the authenticated external subject id to the
// internal user record.
func (s *UserService) RequireCaller(ctx context.Context, clerkID string) (*models.User, error) {
	if clerkID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := s.Users.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// HandleIdentityEvent applies one identity-provider lifecycle event.
// Unknown event types are logged and acknowledged.
func (s *UserService) HandleIdentityEvent(ctx context.Context, event IdentityEvent) error {
	switch event.Type {
	case "user.created":
		_, err := s.createFromEvent(ctx, event)
		return err
	case "user.updated":
		return s.updateFromEvent(ctx, event)
	case "user.deleted":
		// Deliveries are at-least-once; a redelivered or pre-launch
		// deletion must be acknowledged, not retried forever.
		if err := s.DeleteByClerkID(ctx, event.ClerkID); err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				log.Printf("Deletion event for unknown user %s, nothing to do", event.ClerkID)
				return nil
			}
			return err
		}
		return nil
	default:
		log.Printf("Unhandled identity event type: %s", event.Type)
		return nil
	}
}

func usernameFromEvent(event IdentityEvent) string {
	if event.Username != "" {
		return event.Username
	}
	if at := strings.Index(event.Email, "@"); at > 0 {
		return event.Email[:at]
	}
	return ""
}

func (s *UserService) createFromEvent(ctx context.Context, event IdentityEvent) (*models.User, error) {
	username := usernameFromEvent(event)
	if !usernameRegexp.MatchString(username) {
		return nil, apperrors.InvalidArg("Username must be 3-16 alphanumeric characters")
	}
	existing, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}

	gender := event.Gender
	if gender != models.GenderFemale {
		gender = models.GenderMale
	}
	now := time.Now().UTC().Format(models.TimeFormat)
	user := models.User{
		UserID:       uuid.New().String(),
		ClerkID:      event.ClerkID,
		Username:     username,
		Email:        event.Email,
		ProfileImage: event.ImageURL,
		Bio:          event.Bio,
		Gender:       gender,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, &user); err != nil {
		return nil, err
	}
	log.Printf("User created from identity event: %s (%s)", user.Username, user.ClerkID)
	return &user, nil
}

func (s *UserService) updateFromEvent(ctx context.Context, event IdentityEvent) error {
	user, err := s.Users.GetByClerkID(ctx, event.ClerkID)
	if err != nil {
		return err
	}
	if user == nil {
		// Provider update for a user we never saw; treat as create.
		_, err := s.createFromEvent(ctx, event)
		return err
	}

	if username := usernameFromEvent(event); username != "" {
		user.Username = username
	}
	if event.Email != "" {
		user.Email = event.Email
	}
	if event.ImageURL != "" {
		user.ProfileImage = event.ImageURL
	}
	if event.Bio != "" {
		user.Bio = event.Bio
	}
	if event.Gender == models.GenderMale || event.Gender == models.GenderFemale {
		user.Gender = event.Gender
	}
	user.UpdatedAt = time.Now().UTC().Format(models.TimeFormat)
	return s.Users.Save(ctx, user)
}

// DeleteByClerkID runs the account deletion cascade. The order is fixed
// and children always go before their parents, so an interrupted run
// leaves re-collectible orphans instead of dangling references:
//
//  1. comments the user authored (and their refs on other posts)
//  2. the user's posts, each with its comments and remote image
//  3. the user's conversations, messages first
//  4. follow edges on both sides
//  5. the profile image, then the user document
func (s *UserService) DeleteByClerkID(ctx context.Context, clerkID string) error {
	user, err := s.Users.GetByClerkID(ctx, clerkID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	comments, err := s.Comments.ListByAuthor(ctx, user.UserID)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		if err := s.Posts.RemoveCommentRef(ctx, comment.PostID, comment.CommentID); err != nil {
			log.Printf("Failed to detach comment %s from post %s: %v", comment.CommentID, comment.PostID, err)
		}
		if err := s.Comments.Delete(ctx, comment.CommentID); err != nil {
			return err
		}
	}

	posts, err := s.Posts.ListByAuthor(ctx, user.UserID)
	if err != nil {
		return err
	}
	for _, post := range posts {
		if _, err := s.Comments.DeleteByPost(ctx, post.PostID); err != nil {
			return err
		}
		if post.ImageKey != "" {
			if err := s.Media.Delete(ctx, post.ImageKey); err != nil {
				log.Printf("Failed to delete media asset %s: %v", post.ImageKey, err)
			}
		}
		if err := s.Posts.Delete(ctx, post.PostID); err != nil {
			return err
		}
	}

	conversations, err := s.Conversations.ListByParticipant(ctx, user.UserID)
	if err != nil {
		return err
	}
	for _, conversation := range conversations {
		if _, err := s.Messages.DeleteByConversation(ctx, conversation.ConversationID); err != nil {
			return err
		}
		if err := s.Conversations.Delete(ctx, conversation.PairKey); err != nil {
			return err
		}
	}

	for _, followeeID := range user.Following {
		if _, err := s.Users.RemoveFollow(ctx, user.UserID, followeeID); err != nil {
			log.Printf("Failed to remove follow edge %s -> %s: %v", user.UserID, followeeID, err)
		}
	}
	for _, followerID := range user.Followers {
		if _, err := s.Users.RemoveFollow(ctx, followerID, user.UserID); err != nil {
			log.Printf("Failed to remove follow edge %s -> %s: %v", followerID, user.UserID, err)
		}
	}

	if user.ProfileImageKey != "" {
		if err := s.Media.Delete(ctx, user.ProfileImageKey); err != nil {
			log.Printf("Failed to delete media asset %s: %v", user.ProfileImageKey, err)
		}
	}
	if err := s.Users.Delete(ctx, user.UserID); err != nil {
		return err
	}
	log.Printf("User %s deleted with %d comments, %d posts, %d conversations", user.UserID, len(comments), len(posts), len(conversations))
	return nil
}

// EditProfile updates the caller's own bio, gender and/or profile image.
func (s *UserService) EditProfile(ctx context.Context, clerkID string, input EditProfileInput) (*models.User, error) {
	if input.Bio == nil && input.Gender == nil && input.Image == nil {
		return nil, apperrors.ErrNoEditFields
	}
	user, err := s.RequireCaller(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if utf8.RuneCountInString(bio) > models.MaxCaptionLength {
			return nil, apperrors.InvalidArg("Bio length should not exceed 300 characters")
		}
		user.Bio = bio
	}
	if input.Gender != nil {
		if *input.Gender != models.GenderMale && *input.Gender != models.GenderFemale {
			return nil, apperrors.InvalidArg("Gender must be male or female")
		}
		user.Gender = *input.Gender
	}
	if input.Image != nil {
		asset, err := s.Media.Upload(ctx, input.Image.Body, input.Image.Filename, input.Image.ContentType)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDependencyFailed, "Something went wrong while uploading image", err)
		}
		if user.ProfileImageKey != "" {
			if err := s.Media.Delete(ctx, user.ProfileImageKey); err != nil {
				log.Printf("Failed to delete media asset %s: %v", user.ProfileImageKey, err)
			}
		}
		user.ProfileImage = asset.URL
		user.ProfileImageKey = asset.DeleteHandle
	}

	user.UpdatedAt = time.Now().UTC().Format(models.TimeFormat)
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleFollow follows targetID if not yet followed, otherwise
// unfollows. The returned flag is the final state taken from the
// repository's post-update view, not the caller's intent.
func (s *UserService) ToggleFollow(ctx context.Context, caller *models.User, targetID string) (bool, error) {
	if caller.UserID == targetID {
		return false, apperrors.ErrSelfFollow
	}
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, apperrors.ErrUserNotFound
	}

	var updated *models.User
	if models.Contains(caller.Following, targetID) {
		updated, err = s.Users.RemoveFollow(ctx, caller.UserID, targetID)
	} else {
		updated, err = s.Users.AddFollow(ctx, caller.UserID, targetID)
	}
	if err != nil {
		return false, err
	}
	return models.Contains(updated.Following, targetID), nil
}

// Recommended returns up to 5 random users the caller does not follow.
func (s *UserService) Recommended(ctx context.Context, caller *models.User) ([]models.SearchResult, error) {
	users, err := s.Users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.UserID == caller.UserID || models.Contains(caller.Following, user.UserID) {
			continue
		}
		candidates = append(candidates, user)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	return searchResults(candidates), nil
}

// Profile composes the viewer-relative profile page for targetID.
func (s *UserService) Profile(ctx context.Context, viewer *models.User, targetID string) (*models.ProfileView, error) {
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return &models.ProfileView{
		UserID:         target.UserID,
		Username:       target.Username,
		Email:          target.Email,
		ProfileImage:   target.ProfileImage,
		Bio:            target.Bio,
		Gender:         target.Gender,
		FollowersCount: len(target.Followers),
		FollowingCount: len(target.Following),
		PostsCount:     len(target.Posts),
		IsAuthor:       target.UserID == viewer.UserID,
		IsFollowing:    models.Contains(target.Followers, viewer.UserID),
	}, nil
}

// Followers lists the target's followers with viewer-relative flags.
func (s *UserService) Followers(ctx context.Context, viewer *models.User, targetID string) ([]models.FollowEntry, error) {
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return s.followEntries(ctx, viewer, target.Followers)
}

// Following lists who the target follows, with viewer-relative flags.
func (s *UserService) Following(ctx context.Context, viewer *models.User, targetID string) ([]models.FollowEntry, error) {
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return s.followEntries(ctx, viewer, target.Following)
}

func (s *UserService) followEntries(ctx context.Context, viewer *models.User, ids []string) ([]models.FollowEntry, error) {
	users, err := s.Users.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries := make([]models.FollowEntry, 0, len(ids))
	for _, id := range ids {
		user, ok := users[id]
		if !ok {
			continue
		}
		entries = append(entries, models.FollowEntry{
			UserID:         user.UserID,
			Username:       user.Username,
			ProfileImage:   user.ProfileImage,
			FollowersCount: len(user.Followers),
			IsFollowing:    models.Contains(user.Followers, viewer.UserID),
		})
	}
	return entries, nil
}

// Search matches usernames by case-insensitive substring.
func (s *UserService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	users, err := s.Users.SearchByUsername(ctx, query)
	if err != nil {
		return nil, err
	}
	return searchResults(users), nil
}

func searchResults(users []models.User) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(users))
	for _, user := range users {
		results = append(results, models.SearchResult{
			UserID:       user.UserID,
			Username:     user.Username,
			Email:        user.Email,
			ProfileImage: user.ProfileImage,
			Bio:          user.Bio,
			Gender:       user.Gender,
		})
	}
	return results
}
