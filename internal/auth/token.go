package auth

import "strings"

const bearerPrefix = "Bearer "

// LoginPayload matches the JSON body required by POST /api/auth
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BearerHeader formats the Authorization header value for authenticated requests.
func BearerHeader(token string) string {
	return bearerPrefix + token
}

// TokenFromHeader extracts the token from the Authorization header of the auth
// response. The NVR returns the bare token, but a value that already carries
// the scheme is accepted too.
func TokenFromHeader(value string) string {
	value = strings.TrimLeft(value, " \t")
	if len(value) >= len(bearerPrefix) && strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		value = value[len(bearerPrefix):]
	}
	return strings.TrimSpace(value)
}
