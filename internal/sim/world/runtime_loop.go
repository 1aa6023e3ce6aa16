package world

import (
	"context"
	"time"

	"crystalsim/internal/sim/tuning"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingDrops []DropRequest
	var pendingGrowth []tuning.Growth

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.drops:
			pendingDrops = append(pendingDrops, req)
		case g := <-w.growthUpdates:
			pendingGrowth = append(pendingGrowth, g)
		case <-ticker.C:
			w.step(pendingDrops, pendingGrowth)
			pendingDrops = pendingDrops[:0]
			pendingGrowth = pendingGrowth[:0]
		}
	}
}

func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

// SubmitDrop forwards a drop to the running loop and waits for the result.
func (w *World) SubmitDrop(ctx context.Context, pos Vec3, st Stack) (string, error) {
	resp := make(chan DropResponse, 1)
	select {
	case w.drops <- DropRequest{Pos: pos, Stack: st, Resp: resp}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case r := <-resp:
		return r.EntityID, r.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
