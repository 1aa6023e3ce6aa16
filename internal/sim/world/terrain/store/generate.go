package store

// GenerateChunk fills a fresh chunk: a solid floor layer with air above.
func (s *ChunkStore) GenerateChunk(ch *Chunk) {
	for y := 0; y < ch.Height; y++ {
		b := s.Gen.Air
		if y == 0 {
			b = s.Gen.Floor
		}
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				ch.Blocks[ch.index(x, y, z)] = b
			}
		}
	}
}
