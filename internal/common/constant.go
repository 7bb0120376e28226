package common

// AuthorizationHeader carries the bearer credential on HTTP requests and
// gRPC metadata.
const (
	AuthorizationHeader = "Authorization"
	AuthorizationMDKey  = "authorization"
	BearerScheme        = "Bearer"
	TokenType           = "bearer"
)

// Roles. The set is fixed; there is no hierarchy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
