package auth

const (
	ScopeOpenID        = "openid"
	ScopeProfile       = "profile"
	ScopeEmail         = "email"
	ScopeSessionsOpen  = "sessions:open"
	ScopeSessionsClose = "sessions:close"
)

// AllScopes defines the full set of scopes used by API clients.
var AllScopes = []string{
	ScopeOpenID,
	ScopeProfile,
	ScopeEmail,
	ScopeSessionsOpen,
	ScopeSessionsClose,
}
