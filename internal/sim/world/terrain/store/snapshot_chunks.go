package store

import (
	"fmt"

	snapv1 "crystalsim/internal/persistence/snapshot"
	"crystalsim/internal/sim/encoding"
)

// ExportLoadedChunks converts loaded chunk data into run-length encoded snapshot chunks.
func ExportLoadedChunks(chunks map[ChunkKey]*Chunk, keys []ChunkKey) []snapv1.ChunkV1 {
	out := make([]snapv1.ChunkV1, 0, len(keys))
	for _, k := range keys {
		ch := chunks[k]
		if ch == nil {
			continue
		}
		out = append(out, snapv1.ChunkV1{
			CX:     k.CX,
			CZ:     k.CZ,
			Height: ch.Height,
			RLE:    encoding.EncodeRuns(ch.Blocks),
		})
	}
	return out
}

// ImportChunks rebuilds a chunk store from snapshot chunks.
func ImportChunks(gen WorldGen, chunks []snapv1.ChunkV1) (*ChunkStore, error) {
	store := NewChunkStore(gen)
	want := ChunkSize * ChunkSize * store.Gen.Height
	for _, ch := range chunks {
		if ch.Height != store.Gen.Height {
			return nil, fmt.Errorf("snapshot chunk height mismatch: got %d want %d", ch.Height, store.Gen.Height)
		}
		blocks, err := encoding.DecodeRuns(ch.RLE, want)
		if err != nil {
			return nil, fmt.Errorf("snapshot chunk %d,%d: %w", ch.CX, ch.CZ, err)
		}
		k := ChunkKey{CX: ch.CX, CZ: ch.CZ}
		c := &Chunk{CX: ch.CX, CZ: ch.CZ, Height: ch.Height, Blocks: blocks, dirty: true}
		_ = c.Digest()
		store.Chunks[k] = c
	}
	return store, nil
}
