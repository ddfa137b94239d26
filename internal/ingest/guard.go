package ingest

import (
	"errors"
	"fmt"
)

// ErrStaleResponse marks a response superseded by a newer request.
var ErrStaleResponse = errors.New("stale response")

// Token identifies one request for a resource.
type Token uint64

// Guard hands out request tokens per resource and accepts only the response
// to the latest one. The zero value is ready to use. It is not safe for
// concurrent use; the UI loop owns it.
type Guard struct {
	next   Token
	latest map[string]Token
}

// Begin starts a request for resource and returns its token.
func (g *Guard) Begin(resource string) Token {
	if g.latest == nil {
		g.latest = map[string]Token{}
	}
	g.next++
	g.latest[resource] = g.next
	return g.next
}

// Accept reports whether tok is still the latest request for resource.
func (g *Guard) Accept(resource string, tok Token) bool {
	return tok != 0 && g.latest[resource] == tok
}

// Check is Accept as an error.
func (g *Guard) Check(resource string, tok Token) error {
	if g.Accept(resource, tok) {
		return nil
	}
	return fmt.Errorf("%s request %d: %w", resource, tok, ErrStaleResponse)
}
