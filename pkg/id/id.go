package id

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Size is the encoded length of an ID.
const Size = 16

// ID is a time-ordered identifier.
type ID [Size]byte

// Bytes returns a copy of the raw bytes.
func (i ID) Bytes() []byte { return append([]byte(nil), i[:]...) }

// String returns the lowercase hex encoding.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Time returns the millisecond timestamp embedded in the ID.
func (i ID) Time() time.Time {
	return time.UnixMilli(int64(binary.BigEndian.Uint64(i[0:8])))
}

// Compare returns -1, 0 or 1.
func (i ID) Compare(other ID) int {
	for k := 0; k < Size; k++ {
		switch {
		case i[k] < other[k]:
			return -1
		case i[k] > other[k]:
			return 1
		}
	}
	return 0
}

// IsZero reports whether i is the zero ID.
func (i ID) IsZero() bool { return i == ID{} }

// FromBytes copies b into an ID.
func FromBytes(b []byte) (ID, error) {
	var i ID
	if len(b) != Size {
		return i, fmt.Errorf("id: want %d bytes, got %d", Size, len(b))
	}
	copy(i[:], b)
	return i, nil
}

// NowMs returns the current time in unix milliseconds. Tests replace it.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Generator issues strictly increasing IDs. It is safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	lastMs int64
	seq    uint64
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator { return &Generator{} }

// Next returns an ID greater than every ID this generator returned before.
// A clock that moves backwards is pinned to the last seen millisecond.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}
	if ms == g.lastMs {
		g.seq++
	} else {
		g.seq = 0
	}
	g.lastMs = ms

	var i ID
	binary.BigEndian.PutUint64(i[0:8], uint64(ms))
	binary.BigEndian.PutUint64(i[8:16], g.seq)
	return i
}
