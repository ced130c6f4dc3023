package models

type Comment struct {
	CommentID string `dynamodbav:"commentId" json:"commentId"`
	Text      string `dynamodbav:"text" json:"text"`
	AuthorID  string `dynamodbav:"authorId" json:"authorId"`
	PostID    string `dynamodbav:"postId" json:"postId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// CommentsTable is the DynamoDB table name for comments
const CommentsTable = "Comments"

const (
	CommentsPostIndex   = "postId-index"
	CommentsAuthorIndex = "authorId-index"
)
