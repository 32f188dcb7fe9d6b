// Package engine - ticker.go
// Real-time driver for the simulation. The Ticker owns the engine's
// single logical thread: wall-clock steps and player commands are
// serialized through one mutex so the engine itself stays lock-free.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
	"github.com/overwatch-sim/overwatch/server/internal/platform/metrics"
)

// TimeTickPayload is attached to the periodic TIME_TICK event so clients
// can sync their clocks.
type TimeTickPayload struct {
	Tick    int64   `json:"tick"`
	SimTime float64 `json:"sim_time"`
	Phase   Phase   `json:"phase"`
}

// Ticker drives Engine.Step from the wall clock.
type Ticker struct {
	engine   *Engine
	eventLog *events.EventLog
	logger   *logger.Logger
	rate     time.Duration

	mu sync.Mutex
}

// NewTicker creates a ticker stepping at the given rate (e.g. 50ms = 20 TPS).
func NewTicker(e *Engine, eventLog *events.EventLog, log *logger.Logger, rate time.Duration) *Ticker {
	return &Ticker{
		engine:   e,
		eventLog: eventLog,
		logger:   log,
		rate:     rate,
	}
}

// Start begins the simulation loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("simulation ticker started (%s per tick)", t.rate)

	ticker := time.NewTicker(t.rate)
	defer ticker.Stop()

	last := time.Now()
	var sinceAnnounce float64

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("simulation ticker stopped")
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			start := time.Now()
			t.mu.Lock()
			t.engine.Step(dt)
			tick := t.engine.Tick()
			simTime := t.engine.SimTime()
			phase := t.engine.Phase()
			t.mu.Unlock()
			metrics.Get().RecordTick(time.Since(start))

			// Announce the clock once a second, not every tick.
			sinceAnnounce += dt
			if sinceAnnounce >= 1.0 {
				sinceAnnounce = 0
				t.eventLog.Append(events.GameEvent{
					ID:        events.GenerateEventID(),
					Timestamp: now,
					Type:      events.EventTypeTimeTick,
					ActorID:   "SYSTEM_CLOCK",
					Tick:      tick,
					Payload:   TimeTickPayload{Tick: tick, SimTime: simTime, Phase: phase},
				})
			}
		}
	}
}

// Do executes a command on the engine's logical thread.
func (t *Ticker) Do(cmd Command) Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.ExecuteCommand(cmd)
}

// Snapshot returns a consistent view of the roster and phase.
func (t *Ticker) Snapshot() StateSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.Snapshot()
}
