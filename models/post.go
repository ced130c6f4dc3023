package models

type Post struct {
	PostID   string `dynamodbav:"postId" json:"postId"`
	Caption  string `dynamodbav:"caption" json:"caption"`
	Image    string `dynamodbav:"image" json:"image"`
	ImageKey string `dynamodbav:"imageKey" json:"-"`
	AuthorID string `dynamodbav:"authorId" json:"authorId"`
	// Likes holds liking user ids, Comments holds comment ids. Both are
	// DynamoDB string sets so membership updates are atomic ADD/DELETE.
	Likes     []string `dynamodbav:"likes,stringset,omitempty" json:"likes"`
	Comments  []string `dynamodbav:"comments,stringset,omitempty" json:"comments"`
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// PostsTable is the DynamoDB table name for posts
const PostsTable = "Posts"

const PostsAuthorIndex = "authorId-index"

// MaxCaptionLength bounds post captions and user bios.
const MaxCaptionLength = 300
