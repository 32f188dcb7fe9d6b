// Package main - sim-runner
// Headless mission runner. Steps the engine with a fixed synthetic delta
// so the same seed always produces the same battle, then prints the
// outcome. Used for balancing missions and regression runs without a
// server or clients.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/engine"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/mission"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
)

func main() {
	var (
		missionFile = flag.String("mission", "", "mission YAML file (default: built-in patrol)")
		seed        = flag.Int64("seed", 1337, "simulation seed")
		dt          = flag.Float64("dt", 0.05, "synthetic seconds per tick")
		maxSeconds  = flag.Float64("max-seconds", 300, "give up after this much simulated time")
		strikeGrid  = flag.String("strike", "", "call a cluster strike on this grid cell at t=5s (e.g. E8)")
		quiet       = flag.Bool("quiet", false, "suppress engine logging")
	)
	flag.Parse()

	appLogger := logger.NewLogger()
	if *quiet {
		appLogger = logger.NewNop()
	}

	m := mission.Default()
	if *missionFile != "" {
		var err error
		m, err = mission.Load(*missionFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mission: %v\n", err)
			os.Exit(2)
		}
	}

	eventLog := events.NewEventLog(nil)
	eng := engine.NewEngine(eventLog, appLogger, *seed)
	for _, u := range mission.BuildUnits(m) {
		eng.Register(u)
	}

	var strikeCoord *unit.Vec
	if *strikeGrid != "" {
		v, err := mission.GridToWorld(*strikeGrid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "strike: %v\n", err)
			os.Exit(2)
		}
		strikeCoord = &v
	}

	// Scripted orders: advance the squad toward the center line, weapons
	// free once moving, optional fire support at the five second mark.
	center := unit.Vec{X: 0, Z: 0}
	script := []struct {
		at  float64
		cmd engine.Command
	}{
		{at: 1.0, cmd: engine.Command{Action: engine.ActionMove, Unit: "all", Coord: &center}},
		{at: 2.0, cmd: engine.Command{Action: engine.ActionEngage, Unit: "all"}},
	}
	if strikeCoord != nil {
		script = append(script, struct {
			at  float64
			cmd engine.Command
		}{at: 5.0, cmd: engine.Command{
			Action: engine.ActionAirstrike,
			Coord:  strikeCoord,
			Params: engine.CommandParams{Type: "cluster"},
		}})
	}

	next := 0
	for eng.Phase() == engine.PhaseActive && eng.SimTime() < *maxSeconds {
		for next < len(script) && eng.SimTime() >= script[next].at {
			res := eng.ExecuteCommand(script[next].cmd)
			if !res.Success {
				fmt.Printf("t=%6.2f  command %q rejected: %s\n",
					eng.SimTime(), script[next].cmd.Action, res.Message)
			}
			next++
		}
		eng.Step(*dt)
	}

	summarize(eng, eventLog, m)
	if eng.Phase() == engine.PhaseDefeat {
		os.Exit(1)
	}
}

func summarize(eng *engine.Engine, eventLog *events.EventLog, m *mission.Mission) {
	fmt.Printf("mission: %s\n", m.Name)
	fmt.Printf("outcome: %s after %.1fs (%d ticks)\n", eng.Phase(), eng.SimTime(), eng.Tick())
	fmt.Printf("shots:   %d\n", len(eventLog.GetByType(events.EventTypeBulletFired)))
	fmt.Printf("strikes: %d\n", len(eventLog.GetByType(events.EventTypeAirstrikeImpact)))

	fmt.Println("units:")
	for _, u := range eng.Roster().All() {
		status := "KIA"
		if u.Alive {
			status = "alive"
		}
		fmt.Printf("  %-12s %-8s %-5s at %s\n",
			u.Callsign, u.Team, status, mission.WorldToGrid(u.Pos))
	}
}
