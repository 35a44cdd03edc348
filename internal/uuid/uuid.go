// Package uuid generates opaque cast identities behind a mockable interface.
package uuid

import (
	"github.com/google/uuid"
)

// Generator is an interface for generating unique identifiers. Spell cast
// identities come from here so tests can substitute fixed values.
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator with random v4 UUIDs. Cast
// identities carry no structure; they only need to be unique per cast.
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}
