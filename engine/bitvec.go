package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// bitVecEncoder renders sets of type ids as canonical decimal strings of a
// bit vector and memoizes the result per id set.
type bitVecEncoder struct {
	// sha256 of the sorted, deduplicated ids -> decimal string
	cache map[string]string
}

func newBitVecEncoder() *bitVecEncoder {
	return &bitVecEncoder{cache: make(map[string]string, 256)}
}

// encode sets bit id for every id and renders the result in decimal,
// left-padded with zeros to the width of the largest number that fits in
// max(width, maxID)+1 bits.
func (e *bitVecEncoder) encode(ids []int, width int) string {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	key := fingerprintIDs(ids, width)
	if s, ok := e.cache[key]; ok {
		return s
	}

	bits := width
	v := new(big.Int)
	for _, id := range ids {
		if id < 0 {
			panic(fmt.Sprintf("negative type id %d", id))
		}
		v.SetBit(v, id, 1)
		bits = max(bits, id)
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits+1))
	digits := len(limit.Sub(limit, big.NewInt(1)).String())
	s := v.String()
	if pad := digits - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}

	e.cache[key] = s
	return s
}

func (e *bitVecEncoder) len() int { return len(e.cache) }

func fingerprintIDs(ids []int, width int) string {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], int64(width))
	h.Write(buf[:n])
	for _, id := range ids {
		n = binary.PutVarint(buf[:], int64(id))
		h.Write(buf[:n])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
