package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	routeLogin = "/login"
	routeQR    = "/qr"
)

// terminal is the line-oriented front-end. It doubles as the Navigator the
// guard and the auth flow redirect through: Replace just swaps the active
// route, and the main loop renders whatever screen the route names.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer

	mu    sync.Mutex
	route string
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{
		in:    bufio.NewScanner(in),
		out:   out,
		route: routeLogin,
	}
}

func (t *terminal) Replace(route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.route != route {
		t.route = route
		fmt.Fprintf(t.out, "\n-> %s\n", route)
	}
}

func (t *terminal) Route() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}

func (t *terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// prompt reads one line for the given label. ok is false on EOF.
func (t *terminal) prompt(label string) (value string, ok bool) {
	fmt.Fprintf(t.out, "%s: ", label)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}
