package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/tuning"
)

func main() {
	var (
		kind       = flag.String("kind", string(growth.KindRawCrystal), "growth kind: RAW_CRYSTAL, CRYSTAL_TOOL or CRYSTAL_DUST")
		agents     = flag.Int("agents", 200, "number of independent agents (one charged pool each)")
		ticks      = flag.Int("ticks", 20000, "ticks to simulate")
		seed       = flag.Int64("seed", 1, "world seed")
		csvPath    = flag.String("csv", "", "write one CSV row per firing to this path (optional)")
		configDir  = flag.String("configs", "", "config directory (default: embedded catalogs)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: embedded)")
		threshold  = flag.Int("threshold", 0, "override threshold ticks for the kind (0 keeps tuning)")
		odds       = flag.Int("odds", 0, "override 1-in-N odds for the kind (0 keeps tuning)")
	)
	flag.Parse()

	cats, err := loadCatalogs(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	tune := tuning.Defaults()
	if *tuningPath != "" {
		if tune, err = tuning.Load(*tuningPath); err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
	}

	var out io.Writer
	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create csv:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	cfg := benchConfig{
		Kind:      growth.Kind(strings.ToUpper(strings.TrimSpace(*kind))),
		Agents:    *agents,
		Ticks:     *ticks,
		Seed:      *seed,
		Threshold: *threshold,
		Odds:      *odds,
		Tuning:    tune,
	}
	res, err := runBench(cfg, cats, out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}

	fmt.Printf("kind=%s agents=%d ticks=%d seed=%d firings=%d never_fired=%d\n",
		cfg.Kind, cfg.Agents, cfg.Ticks, cfg.Seed, res.Rows, res.NeverFired)
	names := make([]string, 0, len(res.EventKinds))
	for k := range res.EventKinds {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  event=%s count=%d\n", k, res.EventKinds[k])
	}
	fmt.Printf("first_fire  %s\n", summarize(res.FirstFire))
	fmt.Printf("interval    %s\n", summarize(res.Intervals))
}

func loadCatalogs(dir string) (*catalogs.Catalogs, error) {
	if dir == "" {
		return catalogs.LoadDefault()
	}
	return catalogs.Load(dir)
}
