package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	itemspkg "crystalsim/internal/sim/world/feature/entities/items"
)

// StateDigest hashes the authoritative state: loaded chunks, item entities
// and agent attachments. Equal digests mean equal worlds.
func (w *World) StateDigest() string {
	h := sha256.New()
	var buf [8]byte
	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	i64 := func(v int) { u64(uint64(int64(v))) }
	str := func(s string) {
		u64(uint64(len(s)))
		h.Write([]byte(s))
	}

	u64(w.tick.Load())
	for _, k := range w.chunks.LoadedChunkKeys() {
		i64(k.CX)
		i64(k.CZ)
		d := w.chunks.Chunks[k].Digest()
		h.Write(d[:])
	}
	for _, id := range itemspkg.SortedIDs(w.items) {
		e := w.items[id]
		str(id)
		u64(math.Float64bits(e.Pos.X))
		u64(math.Float64bits(e.Pos.Y))
		u64(math.Float64bits(e.Pos.Z))
		str(e.Stack.Item)
		i64(e.Stack.Count)
		if p := e.Stack.Props; p != nil {
			i64(p.Size)
			i64(p.Purity)
			i64(p.Cut)
			i64(p.Fracturation)
			i64(p.SizeOverride)
		}
		if a := w.agents[id]; a != nil {
			str(string(a.Kind()))
			i64(a.Progress())
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
