package apiclient

import (
	"context"
	"net/http"
	"strings"
)

// DefaultLoginPath is where an expired admin session is sent.
const DefaultLoginPath = "/admin/login"

// Navigator is the host application's notion of the current location.
type Navigator interface {
	CurrentPath() string
	Redirect(path string)
}

// NewLoginRedirector returns a subscriber that sends nav to loginPath after
// a 401, unless nav is already there.
func NewLoginRedirector(nav Navigator, loginPath string) AuthExpiredFunc {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return func(_ context.Context, _ *http.Response) {
		if pathOnly(nav.CurrentPath()) == loginPath {
			return
		}
		nav.Redirect(loginPath)
	}
}

func pathOnly(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i]
	}
	return location
}
