// Package gameid generates sortable game identifiers: a UUIDv7 encoded as
// 26 characters of lowercase Crockford base32.
package gameid

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded id.
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// RandSource supplies the random part of an id. *rand.Rand from
// math/rand/v2 satisfies it.
type RandSource interface {
	Uint64() uint64
}

// Generator creates ids from a clock and a random source.
type Generator struct {
	clock quartz.Clock
	rand  RandSource
}

// NewGenerator returns a generator. A nil clock uses the real clock and a
// nil source uses crypto/rand.
func NewGenerator(clock quartz.Clock, src RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rand: src}
}

// Generate creates a game id from the real clock and crypto/rand
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates a new id
func (g *Generator) Generate() string {
	var uuid [16]byte

	ms := g.clock.Now().UnixMilli()
	for i := range 6 {
		uuid[i] = byte(ms >> (40 - 8*i))
	}

	if g.rand != nil {
		hi, lo := g.rand.Uint64(), g.rand.Uint64()
		for i := range 8 {
			uuid[6+i] = byte(hi >> (8 * i))
		}
		for i := range 2 {
			uuid[14+i] = byte(lo >> (8 * i))
		}
	} else if _, err := rand.Read(uuid[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70 // version 7
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // RFC 4122 variant

	return encoding.EncodeToString(uuid[:])
}

// Validate checks that id is a well-formed game id.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid character %c at position %d", r, i)
		}
	}
	if _, err := encoding.DecodeString(id); err != nil {
		return fmt.Errorf("game ID does not decode: %w", err)
	}
	return nil
}
