package histogram

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key returns a stable identifier for "these stones after this many blinks".
// Inputs that are permutations of each other share a key, since the count
// does not depend on order.
func (h Histogram) Key(iterations uint32) string {
	d := xxhash.New()
	var buf [16]byte
	for _, v := range h.Values() {
		binary.LittleEndian.PutUint64(buf[:8], v)
		binary.LittleEndian.PutUint64(buf[8:], h[v])
		_, _ = d.Write(buf[:])
	}
	return fmt.Sprintf("%d:%016x", iterations, d.Sum64())
}
