package common

// AuthCookieName is the HTTP cookie that may carry the bearer token when
// the Authorization header is absent. The header always takes precedence.
const AuthCookieName = "auth_token"
