package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: a 48-bit millisecond timestamp, a 16-bit per-millisecond
// sequence and 64 random bits, written as 26 Crockford Base32 characters.
// IDs from one process sort in submission order.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var ulidState struct {
	sync.Mutex
	ms  uint64
	seq uint16
}

// NewULID returns a new job ID, unique within the process.
func NewULID() string {
	ulidState.Lock()
	ms := uint64(time.Now().UnixMilli())
	if ms == ulidState.ms {
		ulidState.seq++
	} else {
		ulidState.ms, ulidState.seq = ms, 0
	}
	seq := ulidState.seq
	ulidState.Unlock()

	var id [16]byte
	binary.BigEndian.PutUint64(id[:8], ms<<16)
	binary.BigEndian.PutUint16(id[6:8], seq)
	rand.Read(id[8:])
	return encodeULID(id)
}

// encodeULID writes the 128 bits most significant first, five per character,
// with the first character carrying only the top three.
func encodeULID(id [16]byte) string {
	var out [26]byte
	for i := range out {
		var v byte
		for bit := i*5 - 2; bit < i*5+3; bit++ {
			v <<= 1
			if bit >= 0 && id[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		out[i] = crockford[v]
	}
	return string(out[:])
}
