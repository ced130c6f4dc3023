package models

// User is the canonical identity record. It is created from the identity
// provider's user.created webhook event and keyed internally by UserID;
// ClerkID is the external subject id.
type User struct {
	UserID          string   `dynamodbav:"userId" json:"userId"`
	ClerkID         string   `dynamodbav:"clerkId" json:"clerkId"`
	Username        string   `dynamodbav:"username" json:"username"`
	Email           string   `dynamodbav:"email" json:"email"`
	ProfileImage    string   `dynamodbav:"profileImage" json:"profileImage"`
	ProfileImageKey string   `dynamodbav:"profileImageKey,omitempty" json:"-"`
	Bio             string   `dynamodbav:"bio" json:"bio"`
	Gender          string   `dynamodbav:"gender" json:"gender"`
	Followers       []string `dynamodbav:"followers,stringset,omitempty" json:"followers"`
	Following       []string `dynamodbav:"following,stringset,omitempty" json:"following"`
	Posts           []string `dynamodbav:"posts,stringset,omitempty" json:"posts"`
	Bookmarks       []string `dynamodbav:"bookmarks,stringset,omitempty" json:"bookmarks"`
	CreatedAt       string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt       string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// UsersTable is the DynamoDB table name for users
const UsersTable = "Users"

const (
	UsersClerkIDIndex  = "clerkId-index"
	UsersUsernameIndex = "username-index"
)

// Contains reports membership in one of the id sets (followers, likes, ...).
func Contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
