package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	persistlog "crystalsim/internal/persistence/log"
	"crystalsim/internal/persistence/snapshot"
	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world"
)

func main() {
	var (
		snapPath  = flag.String("snapshot", "", "path to .snap.zst")
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst (optional)")
		configDir = flag.String("configs", "./configs", "config directory")
		kind      = flag.String("kind", "", "only print events of this kind (optional)")
		agentID   = flag.String("agent", "", "only print events of this agent (optional)")
		fromTick  = flag.Uint64("from_tick", 0, "first event tick to print (inclusive, optional)")
		toTick    = flag.Uint64("to_tick", 0, "last event tick to print (inclusive, optional)")
		steps     = flag.Int("steps", 0, "after loading, step the restored world this many ticks and print digests")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	printSummary(os.Stdout, snap)

	if *steps > 0 {
		cats, err := catalogs.Load(*configDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load catalogs:", err)
			os.Exit(1)
		}
		w, err := restore(snap, cats)
		if err != nil {
			fmt.Fprintln(os.Stderr, "restore:", err)
			os.Exit(1)
		}
		for i := 0; i < *steps; i++ {
			tick, digest := w.StepOnce()
			fmt.Printf("tick=%d agents=%d digest=%s\n", tick, w.AgentCount(), digest)
		}
	}

	if *eventsDir == "" {
		return
	}
	f := eventFilter{Kind: strings.ToUpper(strings.TrimSpace(*kind)), AgentID: *agentID, From: *fromTick, To: *toTick}
	counts, err := printEvents(os.Stdout, *eventsDir, f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "events:", err)
		os.Exit(1)
	}
	printCounts(os.Stdout, counts)
}

func printSummary(out io.Writer, snap snapshot.SnapshotV1) {
	kinds := map[string]int{}
	byItem := map[string]string{}
	for _, it := range snap.Items {
		byItem[it.EntityID] = it.Item
	}
	for _, a := range snap.Agents {
		kinds[a.Kind]++
	}
	fmt.Fprintf(out, "snapshot v%d world=%s tick=%d seed=%d height=%d boundary_r=%d chunks=%d items=%d agents=%d\n",
		snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.Seed, snap.Height, snap.BoundaryR,
		len(snap.Chunks), len(snap.Items), len(snap.Agents))
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(out, "  agents kind=%s count=%d\n", k, kinds[k])
	}
	fmt.Fprintf(out, "  growth crystal=%v tool=%v dust=%v charged_fluid=%s\n",
		snap.Growth.Crystal.Enabled, snap.Growth.Tool.Enabled, snap.Growth.Dust.Enabled, snap.Growth.ChargedFluid)
}

// restore rebuilds a world from snap so it can be stepped offline.
func restore(snap snapshot.SnapshotV1, cats *catalogs.Catalogs) (*world.World, error) {
	tune := tuning.Defaults()
	w, err := world.New(world.WorldConfig{
		ID:                 snap.Header.WorldID,
		TickRateHz:         snap.TickRate,
		Height:             snap.Height,
		Seed:               snap.Seed,
		BoundaryR:          snap.BoundaryR,
		SnapshotEveryTicks: snap.SnapshotEveryTicks,
	}, cats, tune)
	if err != nil {
		return nil, err
	}
	if err := w.ImportSnapshot(snap); err != nil {
		return nil, err
	}
	return w, nil
}

type eventFilter struct {
	Kind    string
	AgentID string
	From    uint64
	To      uint64
}

func (f eventFilter) match(ev growth.Notification) bool {
	if f.Kind != "" && ev.Kind != f.Kind {
		return false
	}
	if f.AgentID != "" && ev.AgentID != f.AgentID {
		return false
	}
	if ev.Tick < f.From {
		return false
	}
	if f.To != 0 && ev.Tick > f.To {
		return false
	}
	return true
}

func printEvents(out io.Writer, dir string, f eventFilter) (map[string]int, error) {
	counts := map[string]int{}
	err := persistlog.ReadGrowthEvents(dir, func(ev growth.Notification) error {
		if !f.match(ev) {
			return nil
		}
		counts[ev.Kind]++
		line := fmt.Sprintf("tick=%d kind=%s agent=%s item=%s pos=%v", ev.Tick, ev.Kind, ev.AgentID, ev.Item, ev.Pos.ToArray())
		if ev.CompanionID != "" {
			line += " companion=" + ev.CompanionID
		}
		if ev.SpawnedID != "" {
			line += " spawned=" + ev.SpawnedID
		}
		if ev.Props != nil {
			line += fmt.Sprintf(" size=%d purity=%d cut=%d frac=%d", ev.Props.Size, ev.Props.Purity, ev.Props.Cut, ev.Props.Fracturation)
		}
		_, err := fmt.Fprintln(out, line)
		return err
	})
	return counts, err
}

func printCounts(out io.Writer, counts map[string]int) {
	names := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		names = append(names, k)
		total += n
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(out, "events kind=%s count=%d\n", k, counts[k])
	}
	fmt.Fprintf(out, "events total=%d\n", total)
}
