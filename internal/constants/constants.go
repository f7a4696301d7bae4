package constants

// Context keys
const (
	ContextKeyIdentity  = "identity"
	ContextKeyRequestID = "request_id"
)

// Validation limits
const (
	MinUsernameLength    = 3
	MinPasswordLength    = 8
	MinTitleLength       = 5
	MaxTitleLength       = 100
	MinDescriptionLength = 10
)

// Pagination
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)
