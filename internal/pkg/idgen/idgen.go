// Package idgen provides ID generation for fog exploration documents,
// perception sessions and socket connections
package idgen

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/rpg-perception/internal/pkg/idgen Generator

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// DocumentIDLength is the length of the ids scene documents give their records
const DocumentIDLength = 16

const documentAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DocumentGenerator generates alphanumeric record ids in the same shape the
// scene document store uses for walls, lights and tokens
type DocumentGenerator struct{}

// NewDocument creates a document id generator
func NewDocument() *DocumentGenerator {
	return &DocumentGenerator{}
}

// Generate draws DocumentIDLength characters from a random UUID
func (g *DocumentGenerator) Generate() string {
	u := uuid.New()
	var b strings.Builder
	b.Grow(DocumentIDLength)
	for i := 0; i < DocumentIDLength; i++ {
		b.WriteByte(documentAlphabet[int(u[i])%len(documentAlphabet)])
	}
	return b.String()
}

// UUIDGenerator generates prefixed UUIDs for sessions and connections
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	return withPrefix(g.prefix, uuid.NewString())
}

// SequentialGenerator generates predictable IDs for tests and the render command
type SequentialGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	return withPrefix(g.prefix, fmt.Sprint(g.counter.Add(1)))
}

func withPrefix(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
