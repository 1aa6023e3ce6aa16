package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"crystalsim/configs"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version" json:"protocol_version"`

	TickRateHz         int `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	Height             int `yaml:"height" json:"height"`
	WorldBoundaryR     int `yaml:"world_boundary_r" json:"world_boundary_r"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks" json:"snapshot_every_ticks"`

	Growth Growth `yaml:"growth" json:"growth"`
}

// Growth is the configuration surface every growth agent reads once per tick.
type Growth struct {
	ChargedFluid      string `yaml:"charged_fluid" json:"charged_fluid"`
	RetryPenaltyTicks int    `yaml:"retry_penalty_ticks" json:"retry_penalty_ticks"`

	Crystal CrystalGrowth `yaml:"crystal" json:"crystal"`
	Tool    ToolGrowth    `yaml:"tool" json:"tool"`
	Dust    DustGrowth    `yaml:"dust" json:"dust"`
}

type Timing struct {
	Enabled        bool `yaml:"enabled" json:"enabled"`
	ThresholdTicks int  `yaml:"threshold_ticks" json:"threshold_ticks"`
	Odds           int  `yaml:"odds" json:"odds"` // 1-in-Odds per tick once past the threshold
}

type CrystalGrowth struct {
	Timing       `yaml:",inline"`
	Duplication  bool   `yaml:"duplication" json:"duplication"`
	GemFormation bool   `yaml:"gem_formation" json:"gem_formation"`
	GemCatalyst  string `yaml:"gem_catalyst" json:"gem_catalyst"`
	GemBlock     string `yaml:"gem_block" json:"gem_block"`
}

type ToolGrowth struct {
	Timing      `yaml:",inline"`
	ScanEpsilon float64 `yaml:"scan_epsilon" json:"scan_epsilon"`
}

type DustGrowth struct {
	Timing          `yaml:",inline"`
	CompanionFamily string `yaml:"companion_family" json:"companion_family"`
	ResultBlock     string `yaml:"result_block" json:"result_block"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (Tuning, error) {
	t := Defaults()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	return t, nil
}

// Defaults returns the tuning embedded in the binary.
func Defaults() Tuning {
	var t Tuning
	if err := yaml.Unmarshal(configs.TuningYAML, &t); err != nil {
		panic(fmt.Sprintf("embedded tuning.yaml: %v", err))
	}
	t.Normalize()
	return t
}

// Normalize fills zero values with the stock growth constants.
func (t *Tuning) Normalize() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 20
	}
	if t.Height <= 0 {
		t.Height = 64
	}
	if t.SnapshotEveryTicks < 0 {
		t.SnapshotEveryTicks = 0
	}
	t.Growth.Normalize()
}

func (g *Growth) Normalize() {
	if g.ChargedFluid == "" {
		g.ChargedFluid = "CHARGED_WATER"
	}
	if g.RetryPenaltyTicks <= 0 {
		g.RetryPenaltyTicks = 20
	}
	normTiming(&g.Crystal.Timing, 1200, 300)
	normTiming(&g.Tool.Timing, 1000, 300)
	normTiming(&g.Dust.Timing, 600, 20)
	if g.Crystal.GemCatalyst == "" {
		g.Crystal.GemCatalyst = "LUMINOUS_DUST"
	}
	if g.Crystal.GemBlock == "" {
		g.Crystal.GemBlock = "GEM_CLUSTER_0"
	}
	if g.Tool.ScanEpsilon < 0 {
		g.Tool.ScanEpsilon = 0
	}
	if g.Dust.CompanionFamily == "" {
		g.Dust.CompanionFamily = "RAW_CRYSTAL"
	}
	if g.Dust.ResultBlock == "" {
		g.Dust.ResultBlock = "CELESTIAL_CRYSTAL"
	}
}

func normTiming(t *Timing, threshold, odds int) {
	if t.ThresholdTicks <= 0 {
		t.ThresholdTicks = threshold
	}
	if t.Odds <= 0 {
		t.Odds = odds
	}
}
