package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomTokensAreUnique(t *testing.T) {
	g := Random{}
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		for _, tok := range []string{g.NextID(), g.NextHash(), g.NextObjectID()} {
			require.False(t, seen[tok], "duplicate token %q", tok)
			seen[tok] = true
		}
	}
}

func TestRandomHashShape(t *testing.T) {
	h := Random{}.NextHash()
	require.True(t, strings.HasPrefix(h, "0x"))
	require.Len(t, h, 66)

	obj := Random{}.NextObjectID()
	require.True(t, strings.HasPrefix(obj, "0x"))
	require.Len(t, obj, 34)
}

func TestSequentialNeverRepeats(t *testing.T) {
	var g Sequential
	require.Equal(t, "tx-1", g.NextID())
	require.Equal(t, "0xhash0002", g.NextHash())
	require.Equal(t, "tx-3", g.NextID())
	require.Equal(t, "0xobj0004", g.NextObjectID())
}
