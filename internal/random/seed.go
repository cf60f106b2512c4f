// Package random generates map seeds for fake game servers.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a non-negative random seed read from crypto/rand.
func NewSeed() (int32, error) {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int32(binary.LittleEndian.Uint32(b[:]) & 0x7fffffff), nil
}
