package contextkeys

type contextKey string

const (
	UserIDKey    contextKey = "UserID"
	ActorKey     contextKey = "Actor"
	SessionIDKey contextKey = "SessionID"
)
