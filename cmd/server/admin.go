package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world"
)

type adminState struct {
	WorldID     string         `json:"world_id"`
	Tick        uint64         `json:"tick"`
	MirrorTick  uint64         `json:"mirror_tick"`
	Agents      int            `json:"agents"`
	AgentKinds  map[string]int `json:"agent_kinds"`
	Charging    int            `json:"charging"`
	EventsCount int            `json:"events_last_tick"`
	Growth      tuning.Growth  `json:"growth"`
}

func stateFromMirror(w *world.World) adminState {
	st := adminState{
		WorldID:    w.ID(),
		Tick:       w.CurrentTick(),
		AgentKinds: map[string]int{},
	}
	m := w.Mirror()
	if m == nil {
		return st
	}
	st.MirrorTick = m.Tick
	st.Agents = len(m.Agents)
	st.EventsCount = len(m.Events)
	st.Growth = m.Growth
	for _, a := range m.Agents {
		st.AgentKinds[string(a.Kind)]++
		if a.Charging {
			st.Charging++
		}
	}
	return st
}

func healthzHandler(rw http.ResponseWriter, r *http.Request) {
	rw.WriteHeader(200)
	_, _ = rw.Write([]byte("ok"))
}

// lineCounter is satisfied by the JSONL loggers.
type lineCounter interface{ Written() int64 }

func metricsHandler(w *world.World, idx runtimeIndex, logs map[string]lineCounter) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		st := stateFromMirror(w)
		id := st.WorldID

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP crystalsim_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE crystalsim_world_tick gauge\n")
		fmt.Fprintf(rw, "crystalsim_world_tick{world=%q} %d\n", id, st.Tick)

		fmt.Fprintf(rw, "# HELP crystalsim_growth_agents Live growth agents by kind.\n")
		fmt.Fprintf(rw, "# TYPE crystalsim_growth_agents gauge\n")
		kinds := make([]string, 0, len(st.AgentKinds))
		for k := range st.AgentKinds {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(rw, "crystalsim_growth_agents{world=%q,kind=%q} %d\n", id, k, st.AgentKinds[k])
		}

		fmt.Fprintf(rw, "# HELP crystalsim_growth_charging Agents currently accumulating progress.\n")
		fmt.Fprintf(rw, "# TYPE crystalsim_growth_charging gauge\n")
		fmt.Fprintf(rw, "crystalsim_growth_charging{world=%q} %d\n", id, st.Charging)

		fmt.Fprintf(rw, "# HELP crystalsim_growth_events_last_tick Growth notifications emitted in the last tick.\n")
		fmt.Fprintf(rw, "# TYPE crystalsim_growth_events_last_tick gauge\n")
		fmt.Fprintf(rw, "crystalsim_growth_events_last_tick{world=%q} %d\n", id, st.EventsCount)

		if len(logs) > 0 {
			names := make([]string, 0, len(logs))
			for name := range logs {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(rw, "# HELP crystalsim_log_lines_total JSONL lines written since start.\n")
			fmt.Fprintf(rw, "# TYPE crystalsim_log_lines_total counter\n")
			for _, name := range names {
				fmt.Fprintf(rw, "crystalsim_log_lines_total{world=%q,log=%q} %d\n", id, name, logs[name].Written())
			}
		}

		if idx == nil {
			return
		}
		s := idx.Stats()
		fmt.Fprintf(rw, "# HELP crystalsim_index_queue_depth Index writer backlog.\n")
		fmt.Fprintf(rw, "# TYPE crystalsim_index_queue_depth gauge\n")
		fmt.Fprintf(rw, "crystalsim_index_queue_depth{world=%q} %d\n", id, s.QueueDepth)
		fmt.Fprintf(rw, "# HELP crystalsim_index_dropped_total Index writes dropped because the queue was full.\n")
		fmt.Fprintf(rw, "# TYPE crystalsim_index_dropped_total counter\n")
		fmt.Fprintf(rw, "crystalsim_index_dropped_total{world=%q,kind=%q} %d\n", id, "event", s.DropEventTotal)
		fmt.Fprintf(rw, "crystalsim_index_dropped_total{world=%q,kind=%q} %d\n", id, "audit", s.DropAuditTotal)
		fmt.Fprintf(rw, "crystalsim_index_dropped_total{world=%q,kind=%q} %d\n", id, "snapshot", s.DropSnapshotTotal)
	}
}

// registerAdmin wires local-only admin endpoints. They never block the world loop.
func registerAdmin(mux *http.ServeMux, w *world.World, logger *log.Logger) {
	mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(stateFromMirror(w))
	})
	mux.HandleFunc("/admin/v1/growth", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		switch r.Method {
		case http.MethodGet:
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(stateFromMirror(w).Growth)
		case http.MethodPost:
			var g tuning.Growth
			if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
				http.Error(rw, "bad growth json: "+err.Error(), http.StatusBadRequest)
				return
			}
			if err := w.ValidateGrowth(g); err != nil {
				http.Error(rw, err.Error(), http.StatusBadRequest)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			select {
			case w.GrowthUpdates() <- g:
			case <-ctx.Done():
				http.Error(rw, "world busy", http.StatusServiceUnavailable)
				return
			}
			if logger != nil {
				logger.Printf("growth config updated (crystal=%v tool=%v dust=%v)", g.Crystal.Enabled, g.Tool.Enabled, g.Dust.Enabled)
			}
			rw.Header().Set("Content-Type", "application/json")
			rw.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(rw).Encode(map[string]any{"ok": true, "tick": w.CurrentTick()})
		default:
			rw.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func defaultEnableAdminHTTP() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEPLOY_ENV"))) {
	case "staging", "production":
		return false
	default:
		return true
	}
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
