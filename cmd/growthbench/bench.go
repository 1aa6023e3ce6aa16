package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world"
)

// poolSpacing keeps neighbouring pools out of each other's scan boxes.
const poolSpacing = 3

type benchConfig struct {
	Kind      growth.Kind
	Agents    int
	Ticks     int
	Seed      int64
	Threshold int
	Odds      int
	Tuning    tuning.Tuning
}

// fireRow is one committed mutation of a tracked agent.
type fireRow struct {
	Tick         uint64 `csv:"tick"`
	AgentID      string `csv:"agent_id"`
	Event        string `csv:"event"`
	Item         string `csv:"item"`
	X            int    `csv:"x"`
	Y            int    `csv:"y"`
	Z            int    `csv:"z"`
	Size         int    `csv:"size"`
	Purity       int    `csv:"purity"`
	Cut          int    `csv:"cut"`
	Fracturation int    `csv:"fracturation"`
	SinceLast    uint64 `csv:"since_last"`
}

type benchResult struct {
	Rows       int
	EventKinds map[string]int
	FirstFire  []float64 // ticks from drop to first firing, one per agent that fired
	Intervals  []float64 // ticks between consecutive firings of the same agent
	NeverFired int
	FinalTick  uint64
}

type summary struct {
	N      int
	Mean   float64
	StdDev float64
	P10    float64
	P50    float64
	P90    float64
	Min    float64
	Max    float64
}

func summarize(x []float64) summary {
	if len(x) == 0 {
		return summary{}
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return summary{
		N:      len(sorted),
		Mean:   mean,
		StdDev: std,
		P10:    stat.Quantile(0.1, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

func (s summary) String() string {
	if s.N == 0 {
		return "n=0"
	}
	return fmt.Sprintf("n=%d mean=%.1f stddev=%.1f p10=%.0f p50=%.0f p90=%.0f min=%.0f max=%.0f",
		s.N, s.Mean, s.StdDev, s.P10, s.P50, s.P90, s.Min, s.Max)
}

// csvSink streams rows, writing the header with the first batch.
type csvSink struct {
	w             io.Writer
	headerWritten bool
}

func (c *csvSink) write(rows []fireRow) error {
	if c == nil || c.w == nil || len(rows) == 0 {
		return nil
	}
	if !c.headerWritten {
		if err := gocsv.Marshal(rows, c.w); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, c.w); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

func applyOverrides(cfg benchConfig) (tuning.Tuning, error) {
	t := cfg.Tuning
	var timing *tuning.Timing
	switch cfg.Kind {
	case growth.KindRawCrystal:
		timing = &t.Growth.Crystal.Timing
	case growth.KindTool:
		timing = &t.Growth.Tool.Timing
	case growth.KindDust:
		timing = &t.Growth.Dust.Timing
	default:
		return t, fmt.Errorf("unknown growth kind %q", cfg.Kind)
	}
	timing.Enabled = true
	if cfg.Threshold > 0 {
		timing.ThresholdTicks = cfg.Threshold
	}
	if cfg.Odds > 0 {
		timing.Odds = cfg.Odds
	}
	return t, nil
}

// buildWorld lays out one charged pool per agent on a grid and drops the
// tracked stack (plus its companion, for dust) into each pool.
func buildWorld(cfg benchConfig, cats *catalogs.Catalogs) (*world.World, map[string]uint64, error) {
	tune, err := applyOverrides(cfg)
	if err != nil {
		return nil, nil, err
	}
	side := int(math.Ceil(math.Sqrt(float64(cfg.Agents))))
	w, err := world.New(world.WorldConfig{
		ID:        "growthbench",
		Height:    8,
		Seed:      cfg.Seed,
		BoundaryR: side*poolSpacing + 4,
	}, cats, tune)
	if err != nil {
		return nil, nil, err
	}

	fluid := w.Growth().ChargedFluid
	tracked := make(map[string]uint64, cfg.Agents)
	for i := 0; i < cfg.Agents; i++ {
		cell := world.Vec3i{X: (i % side) * poolSpacing, Y: 1, Z: (i / side) * poolSpacing}
		if err := w.SetBlock(cell, fluid, "BENCH"); err != nil {
			return nil, nil, err
		}
		pos := cell.Center()
		id, err := w.Drop(pos, trackedStack(cfg.Kind))
		if err != nil {
			return nil, nil, err
		}
		tracked[id] = w.CurrentTick()
		if cfg.Kind == growth.KindDust {
			companion := world.Stack{Item: "RAW_CRYSTAL", Count: 1}.WithProps(crystal.New(50, 50, 0, 0))
			if _, err := w.Drop(pos, companion); err != nil {
				return nil, nil, err
			}
		}
	}
	return w, tracked, nil
}

func trackedStack(kind growth.Kind) world.Stack {
	switch kind {
	case growth.KindTool:
		return world.Stack{Item: "CRYSTAL_PICKAXE", Count: 1}.WithProps(crystal.New(100, 40, 20, 60))
	case growth.KindDust:
		return world.Stack{Item: "CRYSTAL_DUST", Count: 1}
	default:
		return world.Stack{Item: "RAW_CRYSTAL", Count: 1}.WithProps(crystal.New(100, 40, 0, 60))
	}
}

func runBench(cfg benchConfig, cats *catalogs.Catalogs, out io.Writer) (benchResult, error) {
	res := benchResult{EventKinds: map[string]int{}}
	if cfg.Agents <= 0 || cfg.Ticks <= 0 {
		return res, fmt.Errorf("agents and ticks must be positive")
	}
	w, tracked, err := buildWorld(cfg, cats)
	if err != nil {
		return res, err
	}
	sink := &csvSink{w: out}
	lastFire := map[string]uint64{}

	for i := 0; i < cfg.Ticks; i++ {
		w.StepOnce()
		m := w.Mirror()
		var rows []fireRow
		for _, ev := range m.Events {
			dropTick, ok := tracked[ev.AgentID]
			if !ok {
				continue
			}
			res.EventKinds[ev.Kind]++
			row := fireRow{
				Tick:    ev.Tick,
				AgentID: ev.AgentID,
				Event:   ev.Kind,
				Item:    ev.Item,
				X:       ev.Pos.X,
				Y:       ev.Pos.Y,
				Z:       ev.Pos.Z,
			}
			if p := ev.Props; p != nil {
				row.Size, row.Purity, row.Cut, row.Fracturation = p.Size, p.Purity, p.Cut, p.Fracturation
			}
			if last, fired := lastFire[ev.AgentID]; fired {
				row.SinceLast = ev.Tick - last
				res.Intervals = append(res.Intervals, float64(row.SinceLast))
			} else {
				row.SinceLast = ev.Tick - dropTick
				res.FirstFire = append(res.FirstFire, float64(row.SinceLast))
			}
			lastFire[ev.AgentID] = ev.Tick
			rows = append(rows, row)
		}
		res.Rows += len(rows)
		if err := sink.write(rows); err != nil {
			return res, err
		}
	}
	res.NeverFired = len(tracked) - len(lastFire)
	res.FinalTick = w.CurrentTick()
	return res, nil
}
