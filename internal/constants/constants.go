package constants

// Session
const (
	SessionCookieName = "project_session"
	ContextKeyUserID  = "user_id"
	ContextKeyActor   = "actor"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
