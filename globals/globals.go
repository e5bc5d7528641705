package globals

// Context keys
type ContextKey string

const UserKey ContextKey = "user"
const RequestIDKey ContextKey = "requestId"

// Collection names
const (
	RecipesCollection = "recipes"
	UsersCollection   = "users"
)
