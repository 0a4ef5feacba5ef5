/*
Package randx provides random number and identifier generation for the game server.

It draws secret round targets with crypto/rand so target sequences are not
predictable from previous rounds, and produces UUID identifiers for chat and
monitor messages.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// TargetMin is the inclusive lower bound of a room's secret target.
	TargetMin = 1

	// TargetMax is the inclusive upper bound of a room's secret target.
	TargetMax = 100
)

// Target draws a secret target uniformly from [TargetMin, TargetMax].
// crypto/rand failure is not recoverable at this layer, so it panics;
// in practice the kernel entropy source never fails after boot.
func Target() int {
	span := int64(TargetMax - TargetMin + 1)

	num, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		panic(fmt.Sprintf("randx: failed to draw target: %v", err))
	}

	return TargetMin + int(num.Int64())
}

// MessageID generates a UUID v4 string to serve as a unique message identifier.
func MessageID() string {
	return uuid.New().String()
}

// FallbackName builds a display name for a client that sent an empty name,
// derived from the connection's ephemeral port so it is locally unique.
func FallbackName(port int) string {
	return fmt.Sprintf("Player_%d", port)
}
