// Package ident generates the opaque tokens attached to simulated purchases.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Generator hands out tokens that are unique for the life of the process.
type Generator interface {
	NextID() string
	NextHash() string
	NextObjectID() string
}

// Random uses xid for record ids, 32 random bytes for transaction digests and a
// random UUID for result objects.
type Random struct{}

func (Random) NextID() string {
	return xid.New().String()
}

func (Random) NextHash() string {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("ident: read random bytes: %v", err))
	}
	return "0x" + hex.EncodeToString(b[:])
}

func (Random) NextObjectID() string {
	return "0x" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Sequential is a deterministic generator for tests and demos.
type Sequential struct {
	n atomic.Uint64
}

func (s *Sequential) NextID() string {
	return fmt.Sprintf("tx-%d", s.n.Add(1))
}

func (s *Sequential) NextHash() string {
	return fmt.Sprintf("0xhash%04d", s.n.Add(1))
}

func (s *Sequential) NextObjectID() string {
	return fmt.Sprintf("0xobj%04d", s.n.Add(1))
}
