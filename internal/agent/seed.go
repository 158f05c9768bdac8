package agent

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// EntropySeed returns a non-zero seed from the OS entropy source, falling
// back to the clock.
func EntropySeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		if seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1); seed != 0 {
			return seed
		}
	}
	if seed := time.Now().UnixNano(); seed != 0 {
		return seed
	}
	return 1
}
