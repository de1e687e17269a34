package main

import (
	"fmt"
	"io"
	"sync"
)

// cliNavigator tracks where the user is in the admin flow. A redirect to
// the login page becomes a hint on stderr.
type cliNavigator struct {
	mu        sync.Mutex
	path      string
	errOut    io.Writer
	redirects []string
}

func newNavigator(start string, errOut io.Writer) *cliNavigator {
	return &cliNavigator{path: start, errOut: errOut}
}

func (n *cliNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Visit moves to path without counting as a redirect.
func (n *cliNavigator) Visit(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
}

func (n *cliNavigator) Redirect(path string) {
	n.mu.Lock()
	n.path = path
	n.redirects = append(n.redirects, path)
	n.mu.Unlock()
	if n.errOut != nil {
		fmt.Fprintln(n.errOut, "Your session has expired. Run `campo login` to sign in again.")
	}
}

// Redirects returns every redirect issued so far.
func (n *cliNavigator) Redirects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.redirects...)
}
