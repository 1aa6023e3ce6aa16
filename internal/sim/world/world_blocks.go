package world

import (
	"fmt"

	"crystalsim/internal/sim/catalogs"
)

func (w *World) blockIndexAt(p Vec3i) uint16 {
	return w.chunks.GetBlock(p.X, p.Y, p.Z)
}

// BlockAt returns the definition of the block at p. Out-of-bounds cells read as air.
func (w *World) BlockAt(p Vec3i) catalogs.BlockDef {
	d, ok := w.catalogs.BlockByIndex(w.blockIndexAt(p))
	if !ok {
		d, _ = w.catalogs.Block("AIR")
	}
	return d
}

// BlockName is BlockAt(p).ID.
func (w *World) BlockName(p Vec3i) string { return w.BlockAt(p).ID }

func (w *World) InBounds(p Vec3i) bool { return w.chunks.InBounds(p.X, p.Y, p.Z) }

// SetBlock overwrites a cell unconditionally. Used for world setup and admin edits.
func (w *World) SetBlock(p Vec3i, block, reason string) error {
	to, ok := w.catalogs.Blocks.Index[block]
	if !ok {
		return fmt.Errorf("set block: %w %q", ErrUnknownBlock, block)
	}
	from := w.blockIndexAt(p)
	if !w.chunks.SetBlock(p.X, p.Y, p.Z, to) {
		return fmt.Errorf("set block %v: %w", p.ToArray(), ErrOutOfBounds)
	}
	if from != to {
		w.auditSetBlock(w.tick.Load(), "WORLD", p, from, to, reason)
	}
	return nil
}

// PlaceBlock writes block at p if the cell exists and its current block is
// replaceable. It reports whether the placement happened.
func (w *World) PlaceBlock(p Vec3i, block string) bool {
	to, ok := w.catalogs.Blocks.Index[block]
	if !ok || !w.InBounds(p) {
		return false
	}
	if !w.BlockAt(p).Replaceable {
		return false
	}
	from := w.blockIndexAt(p)
	if !w.chunks.SetBlock(p.X, p.Y, p.Z, to) {
		return false
	}
	w.auditSetBlock(w.tick.Load(), w.actorOr("WORLD"), p, from, to, "GROWTH")
	return true
}

func (w *World) actorOr(def string) string {
	if w.actor != "" {
		return w.actor
	}
	return def
}

func (w *World) auditSetBlock(tick uint64, actor string, pos Vec3i, from, to uint16, reason string) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:   tick,
		Actor:  actor,
		Action: "SET_BLOCK",
		Pos:    pos.ToArray(),
		From:   from,
		To:     to,
		Reason: reason,
	})
}

func (w *World) auditEvent(tick uint64, actor string, action string, pos Vec3i, reason string, details map[string]any) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:    tick,
		Actor:   actor,
		Action:  action,
		Pos:     pos.ToArray(),
		Reason:  reason,
		Details: details,
	})
}
