package utils

// ContextKey is the type for values the middleware stack places on the
// request context (userId, username, expiresAt).
type ContextKey string
