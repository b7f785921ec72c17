// Package tick drives the fixed-rate simulation loop: one ticker firing at
// the configured tick rate, each fire stepping every active world (bounded
// in parallel) and handing the resulting snapshots to a broadcaster.
package tick

import (
	"context"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"dropzone/internal/world"
	"dropzone/logging"
	loggingsimulation "dropzone/logging/simulation"
)

const tickBudgetCatchupMaxTicks = 3

// WorldHandle is one active match instance plus the per-tick command queue
// feeding it, as tracked by the engine.
type WorldHandle struct {
	ID       string
	World    *world.World
	Commands func() []world.Command
}

// Broadcaster receives the per-world results of one tick for delivery to
// clients. Called once per world, off the world's own goroutine slot.
type Broadcaster interface {
	Broadcast(worldID string, tick uint64, result world.StepResult)
}

// Engine runs the fixed-rate tick loop across however many worlds are
// registered at the time each tick fires.
type Engine struct {
	tickRate    int
	maxParallel int

	pub         logging.Publisher
	broadcaster Broadcaster

	tick uint64

	handles func() []WorldHandle
}

// NewEngine constructs a tick engine. handles is called once per tick to
// get the current set of active worlds, since worlds start and finish
// between ticks as lobbies launch and matches end.
func NewEngine(tickRate int, pub logging.Publisher, broadcaster Broadcaster, handles func() []WorldHandle) *Engine {
	maxParallel := runtime.NumCPU()
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Engine{
		tickRate:    tickRate,
		maxParallel: maxParallel,
		pub:         pub,
		broadcaster: broadcaster,
		handles:     handles,
	}
}

// Run drives the tick loop until ctx is canceled, stepping every
// registered world once per tick with up to maxParallel running
// concurrently.
func (e *Engine) Run(ctx context.Context) {
	interval := time.Second / time.Duration(e.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	budgetSeconds := 1.0 / float64(e.tickRate)
	maxDtSeconds := budgetSeconds * tickBudgetCatchupMaxTicks
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			tickStart := time.Now()
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDtSeconds {
				dt = maxDtSeconds
				clamped = true
			}
			last = now

			e.runOneTick(ctx, now, dt)

			duration := time.Since(tickStart)
			if interval > 0 && duration > interval {
				ratio := float64(duration) / float64(interval)
				loggingsimulation.TickBudgetOverrun(ctx, e.pub, e.tick, loggingsimulation.TickBudgetOverrunPayload{
					DurationMillis: duration.Milliseconds(),
					BudgetMillis:   interval.Milliseconds(),
					Ratio:          ratio,
				})
				log.Printf("[tick] budget overrun: duration=%s budget=%s ratio=%.2f clamped=%v", duration, interval, ratio, clamped)
			}
		}
	}
}

func (e *Engine) runOneTick(ctx context.Context, now time.Time, dt float64) {
	tick := e.tick + 1
	e.tick = tick

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.maxParallel)

	for _, handle := range e.handles() {
		handle := handle
		group.Go(func() error {
			commands := handle.Commands()
			result := handle.World.Step(groupCtx, e.pub, tick, now, dt, commands)
			if e.broadcaster != nil {
				e.broadcaster.Broadcast(handle.ID, tick, result)
			}
			return nil
		})
	}

	_ = group.Wait()
}

// CurrentTick returns the last tick number the engine completed.
func (e *Engine) CurrentTick() uint64 {
	return e.tick
}
