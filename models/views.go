package models

// Read-side view shapes. These are composed by the services from the raw
// documents (author joins, counts, viewer-relative flags) and returned to
// the controllers as-is.

// UserSummary is the public author/participant projection embedded in
// feed items, comments and conversation summaries.
type UserSummary struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profileImage"`
}

// ProfileView is the full profile page shape, relative to the viewer.
type ProfileView struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfileImage   string `json:"profileImage"`
	Bio            string `json:"bio"`
	Gender         string `json:"gender"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
	PostsCount     int    `json:"postsCount"`
	IsAuthor       bool   `json:"isAuthor"`
	IsFollowing    bool   `json:"isFollowing"`
}

// FollowEntry is one row of a followers/following listing.
type FollowEntry struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	ProfileImage   string `json:"profileImage"`
	FollowersCount int    `json:"followersCount"`
	IsFollowing    bool   `json:"isFollowing"`
}

// SearchResult is the public projection returned by username search and
// user recommendations.
type SearchResult struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	Bio          string `json:"bio"`
	Gender       string `json:"gender"`
}

// PostFeedItem is the feed projection of a post.
type PostFeedItem struct {
	PostID       string      `json:"postId"`
	Caption      string      `json:"caption"`
	Image        string      `json:"image"`
	CreatedAt    string      `json:"createdAt"`
	LikeCount    int         `json:"likeCount"`
	CommentCount int         `json:"commentCount"`
	IsLiked      bool        `json:"isLiked"`
	IsBookmarked bool        `json:"isBookmarked"`
	Author       UserSummary `json:"author"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	CommentID string      `json:"commentId"`
	Text      string      `json:"text"`
	CreatedAt string      `json:"createdAt"`
	Author    UserSummary `json:"author"`
}

// PostDetail is the single-post page shape.
type PostDetail struct {
	PostID       string        `json:"postId"`
	Caption      string        `json:"caption"`
	Image        string        `json:"image"`
	CreatedAt    string        `json:"createdAt"`
	LikeCount    int           `json:"likeCount"`
	CommentCount int           `json:"commentCount"`
	IsLiked      bool          `json:"isLiked"`
	IsBookmarked bool          `json:"isBookmarked"`
	Author       UserSummary   `json:"author"`
	Comments     []CommentView `json:"comments"`
}

// ConversationSummary is one row of the conversation list: the other
// participant, the resolved last message and the viewer's unread count.
type ConversationSummary struct {
	ConversationID string      `json:"conversationId"`
	UpdatedAt      string      `json:"updatedAt"`
	LastMessage    *Message    `json:"lastMessage"`
	UnreadMessages int         `json:"unreadMessages"`
	Participant    UserSummary `json:"participant"`
}
