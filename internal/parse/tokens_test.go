package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens_Order(t *testing.T) {
	tokens := NewTokens([]string{"-abc", "value", "pos"})
	assert.Equal(t, 3, tokens.Len())

	first, ok := tokens.Pop()
	assert.True(t, ok)
	assert.Equal(t, "-abc", first)

	// cluster expansion pushes in reverse so consumption order matches the cluster
	for _, c := range []string{"-c", "-b", "-a"} {
		tokens.Push(c)
	}

	var got []string
	for !tokens.Empty() {
		peeked, _ := tokens.Peek()
		tok, _ := tokens.Pop()
		assert.Equal(t, peeked, tok)
		got = append(got, tok)
	}
	assert.Equal(t, []string{"-a", "-b", "-c", "value", "pos"}, got)
}

func TestTokens_Empty(t *testing.T) {
	tokens := NewTokens(nil)
	assert.True(t, tokens.Empty())

	_, ok := tokens.Peek()
	assert.False(t, ok)
	_, ok = tokens.Pop()
	assert.False(t, ok)
}
