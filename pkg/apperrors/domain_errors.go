package apperrors

var (
	// Domain errors — raised in services/repositories
	ErrUserNotFound         = NotFound("User not found")
	ErrPostNotFound         = NotFound("Post not found")
	ErrCommentNotFound      = NotFound("Comment not found")
	ErrConversationNotFound = NotFound("Conversation not found")
	ErrReceiverNotFound     = NotFound("Receiver not found")

	ErrInvalidID        = InvalidArg("Invalid id")
	ErrSelfFollow       = InvalidArg("You can't follow yourself")
	ErrSelfConversation = InvalidArg("You can't message yourself")
	ErrEmptyMessage     = InvalidArg("Message text is required")
	ErrEmptyComment     = InvalidArg("Comment text is required")
	ErrEmptyCaption     = InvalidArg("Caption is required")
	ErrMissingImage     = InvalidArg("Image is required")
	ErrNoEditFields     = InvalidArg("Please provide at least one field to update")

	ErrUsernameTaken      = AlreadyExists("Username is already taken")
	ErrConversationExists = AlreadyExists("Conversation already exists for this pair")

	ErrNotPostAuthor    = Forbidden("Unauthorized: you can only modify your own post")
	ErrNotCommentAuthor = Forbidden("Unauthorized: you can only delete your own comment")
	ErrNotParticipant   = Forbidden("Unauthorized: you are not a participant of this conversation")

	ErrUnauthenticated = Unauthorized("Authentication required")

	ErrUploadFailed = Dependency("Something went wrong while uploading image")
)
