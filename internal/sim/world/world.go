package world

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"crystalsim/internal/persistence/snapshot"
	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world/terrain/store"
)

var (
	ErrUnknownItem   = errors.New("unknown item")
	ErrUnknownBlock  = errors.New("unknown block")
	ErrBadCount      = errors.New("count must be positive")
	ErrOutOfBounds   = errors.New("position out of bounds")
	ErrPropsRequired = errors.New("item requires a property record")
	ErrSingleUnit    = errors.New("item must be dropped one unit at a time")
)

// DropRequest asks the world loop to drop a stack at pos.
type DropRequest struct {
	Pos   Vec3
	Stack Stack
	Resp  chan DropResponse
}

type DropResponse struct {
	EntityID string
	Err      error
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine; other
// goroutines talk to it through the request channels and read Mirror().
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs
	growth   tuning.Growth

	tick atomic.Uint64

	chunks *store.ChunkStore

	items      map[string]*ItemEntity
	itemsAt    map[Vec3i][]string
	agents     map[string]*growth.Agent
	agentSeeds map[string]int64

	captures []*Capture

	// actor is the agent currently advancing; used to attribute audits.
	actor  string
	events []growth.Notification

	mirror atomic.Pointer[Mirror]

	drops         chan DropRequest
	growthUpdates chan tuning.Growth
	stop          chan struct{}
	stopOnce      sync.Once

	nextItemNum atomic.Uint64

	// Optional sinks (may be nil). Implemented in internal/persistence/*.
	eventLogger EventLogger
	auditLogger AuditLogger

	// Snapshot writing happens off-thread.
	snapshotSink chan<- snapshot.SnapshotV1
}

type EventLogger interface {
	WriteGrowthEvent(ev growth.Notification) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type AuditEntry struct {
	Tick    uint64         `json:"tick"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"` // e.g. "SET_BLOCK"
	Pos     [3]int         `json:"pos"`
	From    uint16         `json:"from"`
	To      uint16         `json:"to"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func New(cfg WorldConfig, cats *catalogs.Catalogs, tune tuning.Tuning) (*World, error) {
	if cats == nil {
		return nil, errors.New("nil catalogs")
	}
	cfg.applyDefaults()

	b := func(id string) (uint16, error) {
		v, ok := cats.Blocks.Index[id]
		if !ok {
			return 0, fmt.Errorf("missing block id in palette: %s", id)
		}
		return v, nil
	}
	air, err := b("AIR")
	if err != nil {
		return nil, err
	}
	floor, err := b(cfg.FloorBlock)
	if err != nil {
		return nil, err
	}
	g := tune.Growth
	g.Normalize()
	if err := checkGrowthBlocks(cats, g); err != nil {
		return nil, err
	}

	w := &World{
		cfg:      cfg,
		catalogs: cats,
		growth:   g,
		chunks: store.NewChunkStore(store.WorldGen{
			Seed:      cfg.Seed,
			BoundaryR: cfg.BoundaryR,
			Height:    cfg.Height,
			Air:       air,
			Floor:     floor,
		}),
		items:         map[string]*ItemEntity{},
		itemsAt:       map[Vec3i][]string{},
		agents:        map[string]*growth.Agent{},
		agentSeeds:    map[string]int64{},
		drops:         make(chan DropRequest, 256),
		growthUpdates: make(chan tuning.Growth, 8),
		stop:          make(chan struct{}),
	}
	w.mirror.Store(&Mirror{WorldID: cfg.ID, Growth: w.growth})
	return w, nil
}

func checkGrowthBlocks(cats *catalogs.Catalogs, g tuning.Growth) error {
	for _, id := range []string{g.ChargedFluid, g.Crystal.GemBlock, g.Dust.ResultBlock} {
		if _, ok := cats.Block(id); !ok {
			return fmt.Errorf("growth config: %w %q", ErrUnknownBlock, id)
		}
	}
	return nil
}

func (w *World) SetEventLogger(l EventLogger)                  { w.eventLogger = l }
func (w *World) SetAuditLogger(l AuditLogger)                  { w.auditLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

// Drops accepts drop requests; they are applied at the next tick boundary.
func (w *World) Drops() chan<- DropRequest { return w.drops }

// GrowthUpdates accepts live growth configuration changes.
func (w *World) GrowthUpdates() chan<- tuning.Growth { return w.growthUpdates }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// BlockPalette returns a copy of the block palette. Catalogs are immutable after load.
func (w *World) BlockPalette() []string {
	return append([]string(nil), w.catalogs.Blocks.Palette...)
}

func (w *World) ItemPalette() []string {
	return append([]string(nil), w.catalogs.Items.Palette...)
}

// Growth returns the configuration agents read this tick.
func (w *World) Growth() tuning.Growth { return w.growth }

// SetGrowth replaces the growth configuration. Loop goroutine only.
func (w *World) SetGrowth(g tuning.Growth) error {
	g.Normalize()
	if err := checkGrowthBlocks(w.catalogs, g); err != nil {
		return err
	}
	w.growth = g
	return nil
}

// ValidateGrowth checks g against the catalogs without applying it. Safe from any goroutine.
func (w *World) ValidateGrowth(g tuning.Growth) error {
	g.Normalize()
	return checkGrowthBlocks(w.catalogs, g)
}

// AgentCount reports live growth agents.
func (w *World) AgentCount() int { return len(w.agents) }
