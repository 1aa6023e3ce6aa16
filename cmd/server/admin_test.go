package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crystalsim/internal/persistence/snapshot"
	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth/crystal"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world"
)

func newAdminTestWorld(t *testing.T) *world.World {
	t.Helper()
	cats, err := catalogs.LoadDefault()
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	tune := tuning.Defaults()
	cfg := world.ConfigFromTuning("admin_test", 11, tune)
	cfg.Height = 8
	cfg.BoundaryR = 32
	w, err := world.New(cfg, cats, tune)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

func TestAdminState_ReportsMirror(t *testing.T) {
	w := newAdminTestWorld(t)
	st := world.Stack{Item: "RAW_CRYSTAL", Count: 1}.WithProps(crystal.New(10, 20, 0, 0))
	if _, err := w.Drop(world.Vec3{X: 0.5, Y: 1.5, Z: 0.5}, st); err != nil {
		t.Fatalf("drop: %v", err)
	}
	w.StepOnce()

	mux := http.NewServeMux()
	registerAdmin(mux, w, nil)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/v1/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var got adminState
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.WorldID != "admin_test" || got.Agents != 1 || got.AgentKinds["RAW_CRYSTAL"] != 1 {
		t.Fatalf("unexpected state: %+v", got)
	}
	if !got.Growth.Crystal.Enabled {
		t.Fatalf("expected growth config in state: %+v", got.Growth)
	}
}

func TestAdminGrowth_UpdateAppliesNextTick(t *testing.T) {
	w := newAdminTestWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	mux := http.NewServeMux()
	registerAdmin(mux, w, nil)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := tuning.Defaults().Growth
	g.Tool.Enabled = false
	body, _ := json.Marshal(g)
	resp, err := http.Post(srv.URL+"/admin/v1/growth", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status %d", resp.StatusCode)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if m := w.Mirror(); m != nil && !m.Growth.Tool.Enabled {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("growth update never published")
}

func TestAdminGrowth_RejectsUnknownBlock(t *testing.T) {
	w := newAdminTestWorld(t)
	mux := http.NewServeMux()
	registerAdmin(mux, w, nil)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := tuning.Defaults().Growth
	g.Crystal.GemBlock = "NOT_A_BLOCK"
	body, _ := json.Marshal(g)
	resp, err := http.Post(srv.URL+"/admin/v1/growth", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMetrics_Exposition(t *testing.T) {
	w := newAdminTestWorld(t)
	if _, err := w.Drop(world.Vec3{X: 0.5, Y: 1.5, Z: 0.5}, world.Stack{Item: "CRYSTAL_DUST", Count: 2}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	w.StepOnce()

	rec := httptest.NewRecorder()
	metricsHandler(w, nil, map[string]lineCounter{"events": fixedCount(4)})(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	b, _ := io.ReadAll(rec.Body)
	out := string(b)
	for _, want := range []string{
		`crystalsim_world_tick{world="admin_test"} 1`,
		`crystalsim_growth_agents{world="admin_test",kind="CRYSTAL_DUST"} 1`,
		`crystalsim_log_lines_total{world="admin_test",log="events"} 4`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics missing %q:\n%s", want, out)
		}
	}
}

type fixedCount int64

func (c fixedCount) Written() int64 { return int64(c) }

func TestOpenWorld_ResumesFromSnapshot(t *testing.T) {
	w := newAdminTestWorld(t)
	st := world.Stack{Item: "RAW_CRYSTAL", Count: 1}.WithProps(crystal.New(10, 20, 0, 0))
	id, err := w.Drop(world.Vec3{X: 0.5, Y: 1.5, Z: 0.5}, st)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	w.StepOnce()
	w.StepOnce()

	dir := t.TempDir()
	path := snapshotPath(dir, 1)
	if err := snapshot.WriteSnapshot(path, w.ExportSnapshot(1)); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if got := latestSnapshot(dir); got != path {
		t.Fatalf("latestSnapshot=%q want %q", got, path)
	}

	resumed, err := openWorld("admin_test", 999, path, w.Catalogs(), tuning.Defaults())
	if err != nil {
		t.Fatalf("openWorld: %v", err)
	}
	if resumed.CurrentTick() != 2 || resumed.AgentCount() != 1 {
		t.Fatalf("resumed tick=%d agents=%d", resumed.CurrentTick(), resumed.AgentCount())
	}
	if _, ok := resumed.Mirror().AgentState(id); !ok {
		t.Fatalf("resumed mirror missing agent %s", id)
	}

	if _, err := openWorld("other", 11, path, w.Catalogs(), tuning.Defaults()); err == nil {
		t.Fatalf("expected world id mismatch")
	}
	if _, err := openWorld("admin_test", 11, filepath.Join(dir, "missing.snap.zst"), w.Catalogs(), tuning.Defaults()); err == nil {
		t.Fatalf("expected missing snapshot error")
	}
}
