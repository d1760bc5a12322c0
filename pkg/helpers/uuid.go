package helpers

import (
	"math/big"

	"github.com/google/uuid"
)

// GenUserUUID generates a fresh UUIDv4 and renders it as the decimal form of
// its 128-bit value. Account identifiers are exposed in this numeric form
// rather than the canonical hex layout.
func GenUserUUID() string {
	id := uuid.New()
	var n big.Int
	n.SetBytes(id[:])
	return n.String()
}
