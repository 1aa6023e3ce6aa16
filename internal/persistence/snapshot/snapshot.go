package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed      int64 `json:"seed"`
	TickRate  int   `json:"tick_rate_hz"`
	Height    int   `json:"height"`
	BoundaryR int   `json:"boundary_r"`

	// Operational parameters (captured for deterministic replay/resume).
	SnapshotEveryTicks int      `json:"snapshot_every_ticks,omitempty"`
	Growth             GrowthV1 `json:"growth"`

	Chunks []ChunkV1       `json:"chunks"`
	Items  []ItemEntityV1  `json:"items,omitempty"`
	Agents []GrowthAgentV1 `json:"agents,omitempty"`

	Counters CountersV1 `json:"counters"`
}

type GrowthV1 struct {
	ChargedFluid      string `json:"charged_fluid"`
	RetryPenaltyTicks int    `json:"retry_penalty_ticks"`

	Crystal TimingV1 `json:"crystal"`
	Tool    TimingV1 `json:"tool"`
	Dust    TimingV1 `json:"dust"`

	Duplication     bool    `json:"duplication"`
	GemFormation    bool    `json:"gem_formation"`
	GemCatalyst     string  `json:"gem_catalyst,omitempty"`
	GemBlock        string  `json:"gem_block,omitempty"`
	ScanEpsilon     float64 `json:"scan_epsilon,omitempty"`
	CompanionFamily string  `json:"companion_family,omitempty"`
	ResultBlock     string  `json:"result_block,omitempty"`
}

type TimingV1 struct {
	Enabled        bool `json:"enabled"`
	ThresholdTicks int  `json:"threshold_ticks"`
	Odds           int  `json:"odds"`
}

type CountersV1 struct {
	NextItem  uint64 `json:"next_item"`
	NextAgent uint64 `json:"next_agent"`
}

type ChunkV1 struct {
	CX     int    `json:"cx"`
	CZ     int    `json:"cz"`
	Height int    `json:"height"`
	RLE    []byte `json:"rle"` // uvarint (block, run) pairs, see internal/sim/encoding
}

type ItemEntityV1 struct {
	EntityID    string        `json:"entity_id"`
	Pos         [3]float64    `json:"pos"`
	Item        string        `json:"item"`
	Count       int           `json:"count"`
	Props       *PropertiesV1 `json:"props,omitempty"`
	CreatedTick uint64        `json:"created_tick"`
}

type PropertiesV1 struct {
	Size         int  `json:"size"`
	Purity       int  `json:"purity"`
	Cut          int  `json:"cut"`
	Fracturation int  `json:"fracturation"`
	SizeOverride int  `json:"size_override,omitempty"`
	HasOverride  bool `json:"has_override,omitempty"`
}

// GrowthAgentV1 records agent attachment only. Accumulated progress is
// not part of the snapshot; a restored agent starts charging from zero.
type GrowthAgentV1 struct {
	ID       string `json:"id"`
	EntityID string `json:"entity_id"`
	Kind     string `json:"kind"`
	Seed     int64  `json:"seed"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadHeader decodes only the leading JSON header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line is duplicated inside the gob payload.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}
