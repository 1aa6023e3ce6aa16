// Package encoding packs voxel palette ids for snapshots.
package encoding

import (
	"encoding/binary"
	"fmt"
)

// EncodeRuns run-length encodes palette ids as uvarint (id, run) pairs.
// Chunks are mostly air, so a whole layer usually collapses to a few bytes.
func EncodeRuns(ids []uint16) []byte {
	out := make([]byte, 0, 16)
	for i := 0; i < len(ids); {
		b := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == b; j++ {
			run++
		}
		out = binary.AppendUvarint(out, uint64(b))
		out = binary.AppendUvarint(out, uint64(run))
		i += run
	}
	return out
}

// DecodeRuns expands EncodeRuns output. It fails unless exactly want ids decode.
func DecodeRuns(raw []byte, want int) ([]uint16, error) {
	out := make([]uint16, 0, want)
	for i := 0; i < len(raw); {
		b, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if b > 0xFFFF {
			return nil, fmt.Errorf("block id too large: %d", b)
		}
		if run == 0 || uint64(len(out))+run > uint64(want) {
			return nil, fmt.Errorf("run of %d overflows %d ids", run, want)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, uint16(b))
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("decoded %d ids, want %d", len(out), want)
	}
	return out, nil
}
