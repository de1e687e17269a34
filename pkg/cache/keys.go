package cache

import "fmt"

// SessionTokenKey is the default key holding the admin bearer token.
func SessionTokenKey() string {
	return "campo:session:token"
}

// ScopedSessionTokenKey namespaces the token key, e.g. per API origin.
func ScopedSessionTokenKey(scope string) string {
	if scope == "" {
		return SessionTokenKey()
	}
	return fmt.Sprintf("campo:session:%s:token", scope)
}
