package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crystalsim/internal/persistence/indexdb"
	"crystalsim/internal/persistence/snapshot"
	"crystalsim/internal/sim/catalogs"
	"crystalsim/internal/sim/growth"
	"crystalsim/internal/sim/tuning"
	"crystalsim/internal/sim/world"
)

type runtimeIndex interface {
	world.EventLogger
	world.AuditLogger
	Close() error
	Stats() indexdb.Stats
	UpsertCatalogs(cats *catalogs.Catalogs, tune tuning.Tuning) error
	RecordSnapshot(path string, snap snapshot.SnapshotV1)
}

func openRuntimeIndex(worldDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("CS_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		dbPath := filepath.Join(worldDir, "index", "world.sqlite")
		return indexdb.OpenSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unsupported CS_INDEX_BACKEND: %s", backend)
	}
}

type multiEventLogger struct {
	a world.EventLogger
	b world.EventLogger
}

func (m multiEventLogger) WriteGrowthEvent(ev growth.Notification) error {
	if m.a != nil {
		_ = m.a.WriteGrowthEvent(ev)
	}
	if m.b != nil {
		_ = m.b.WriteGrowthEvent(ev)
	}
	return nil
}

type multiAuditLogger struct {
	a world.AuditLogger
	b world.AuditLogger
}

func (m multiAuditLogger) WriteAudit(entry world.AuditEntry) error {
	if m.a != nil {
		_ = m.a.WriteAudit(entry)
	}
	if m.b != nil {
		_ = m.b.WriteAudit(entry)
	}
	return nil
}
