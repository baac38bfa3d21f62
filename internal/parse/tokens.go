package parse

import (
	"github.com/ef-ds/deque"
)

// Tokens is the pending token stream of a single bind. Tokens are consumed from the front, and
// expanded flag clusters are pushed back onto the front so they are consumed next.
type Tokens struct {
	d *deque.Deque
}

// NewTokens creates a token stream holding args in order
func NewTokens(args []string) *Tokens {
	d := deque.New()
	for _, a := range args {
		d.PushBack(a)
	}
	return &Tokens{d: d}
}

// Peek returns the next token without consuming it
func (t *Tokens) Peek() (string, bool) {
	v, ok := t.d.Front()
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Pop consumes the next token
func (t *Tokens) Pop() (string, bool) {
	v, ok := t.d.PopFront()
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Push places token in front of every pending token
func (t *Tokens) Push(token string) {
	t.d.PushFront(token)
}

// Len returns the number of pending tokens
func (t *Tokens) Len() int {
	return t.d.Len()
}

// Empty reports whether all tokens were consumed
func (t *Tokens) Empty() bool {
	return t.d.Len() == 0
}
