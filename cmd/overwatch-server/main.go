// Package main is the entry point for the Overwatch tactical server.
// It only handles configuration, dependency injection, and transport
// wiring. NO simulation logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/spf13/viper"

	"github.com/overwatch-sim/overwatch/server/internal/domain/unit"
	"github.com/overwatch-sim/overwatch/server/internal/engine"
	"github.com/overwatch-sim/overwatch/server/internal/events"
	"github.com/overwatch-sim/overwatch/server/internal/infra/storage"
	"github.com/overwatch-sim/overwatch/server/internal/mission"
	"github.com/overwatch-sim/overwatch/server/internal/network"
	"github.com/overwatch-sim/overwatch/server/internal/platform/logger"
	"github.com/overwatch-sim/overwatch/server/internal/platform/metrics"
	"github.com/overwatch-sim/overwatch/server/internal/radio"
)

// gameID identifies the singleton mission run in persistent storage.
const gameID = "MISSION_1"

// sqlitePersister translates domain events to storage rows.
type sqlitePersister struct {
	repo *storage.SQLiteEventRepository
}

func (p *sqlitePersister) Append(event events.GameEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	start := time.Now()
	err := p.repo.Append(context.Background(), storage.GameEvent{
		ID:        event.ID,
		GameID:    gameID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Payload:   payloadMap,
		Tick:      event.Tick,
	})
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}

func loadConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("db_path", "overwatch.db")
	v.SetDefault("mission_file", "")
	v.SetDefault("tick_ms", 50)
	v.SetDefault("seed", int64(1337))
	v.SetDefault("radio_seed", int64(7))

	v.SetConfigName("overwatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/overwatch")
	_ = v.ReadInConfig() // config file is optional

	v.SetEnvPrefix("OVERWATCH")
	v.AutomaticEnv()
	return v
}

func loadMission(cfg *viper.Viper, appLogger *logger.Logger) *mission.Mission {
	path := cfg.GetString("mission_file")
	if path == "" {
		appLogger.Info("No mission file configured, using built-in patrol mission")
		return mission.Default()
	}
	m, err := mission.Load(path)
	if err != nil {
		appLogger.Error("Failed to load mission %s: %v", path, err)
		os.Exit(1)
	}
	appLogger.Info("Loaded mission %q (%d friendlies, %d hostiles)",
		m.Name, len(m.FriendlySpawns), len(m.EnemySpawns))
	return m
}

func persistRoster(ctx context.Context, repo *storage.SQLiteSnapshotRepository, snap engine.StateSnapshot) {
	for _, u := range snap.Units {
		_ = repo.Upsert(ctx, storage.UnitSnapshot{
			UnitID:   u.ID,
			GameID:   gameID,
			Callsign: u.Callsign,
			Team:     string(u.Team),
			X:        u.Pos.X,
			Z:        u.Pos.Z,
			Facing:   u.Facing,
			Alive:    u.Alive,
			State:    string(u.State),
		})
	}
}

// startAnnouncer polls the event log and pushes radio chatter for kills
// and mission end to every connected observer.
func startAnnouncer(ctx context.Context, eventLog *events.EventLog, hub *network.Hub, responder *radio.Responder) {
	go func() {
		poll := time.NewTicker(200 * time.Millisecond)
		defer poll.Stop()

		lastProcessed := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-poll.C:
				all := eventLog.Replay()
				for _, ev := range all[lastProcessed:] {
					line, speaker := dialogueFor(ev, responder)
					if line != "" {
						hub.BroadcastJSON("dialogue", map[string]string{
							"speaker": speaker,
							"text":    line,
						})
					}
				}
				lastProcessed = len(all)
			}
		}
	}()
}

func dialogueFor(ev events.GameEvent, responder *radio.Responder) (line, speaker string) {
	switch ev.Type {
	case events.EventTypeUnitKilled:
		p, ok := ev.Payload.(engine.UnitKilledPayload)
		if !ok {
			return "", ""
		}
		if p.Team == unit.TeamEnemy {
			return responder.EnemyDown(), "alpha"
		}
		return responder.FriendlyDown(p.Callsign), "alpha"
	case events.EventTypeGameOver:
		p, ok := ev.Payload.(engine.GameOverPayload)
		if !ok {
			return "", ""
		}
		return responder.GameOver(p.Outcome == engine.PhaseVictory), "overwatch"
	}
	return "", ""
}

// commandRequest is the HTTP command payload. Coordinates arrive either
// as world coordinates or as a letter-number grid reference.
type commandRequest struct {
	Action string               `json:"action"`
	Unit   string               `json:"unit,omitempty"`
	Coord  *unit.Vec            `json:"coordinate,omitempty"`
	Grid   string               `json:"gridCoord,omitempty"`
	Params engine.CommandParams `json:"params"`
}

func (cr commandRequest) toCommand() (engine.Command, error) {
	cmd := engine.Command{
		Action: cr.Action,
		Unit:   cr.Unit,
		Coord:  cr.Coord,
		Params: cr.Params,
	}
	if cmd.Coord == nil && cr.Grid != "" {
		v, err := mission.GridToWorld(cr.Grid)
		if err != nil {
			return cmd, err
		}
		cmd.Coord = &v
	}
	return cmd, nil
}

func main() {
	appLogger := logger.NewLogger()
	cfg := loadConfig()

	appLogger.Info("Initializing 'Overwatch' authoritative server...")

	dbPath := cfg.GetString("db_path")
	appLogger.Info("Initializing SQLite database %q...", dbPath)
	db, err := storage.InitSQLite(dbPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: %v", err)
		os.Exit(1)
	}
	eventRepo := storage.NewSQLiteEventRepository(db)
	snapRepo := storage.NewSQLiteSnapshotRepository(db)

	eventLog := events.NewEventLog(&sqlitePersister{repo: eventRepo})

	appLogger.Info("Bootstrapping engine subsystems...")
	seed := cfg.GetInt64("seed")
	gameEngine := engine.NewEngine(eventLog, appLogger, seed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := loadMission(cfg, appLogger)
	for _, u := range mission.BuildUnits(m) {
		gameEngine.Register(u)
	}

	tickRate := time.Duration(cfg.GetInt("tick_ms")) * time.Millisecond
	simTicker := engine.NewTicker(gameEngine, eventLog, appLogger, tickRate)
	go simTicker.Start(ctx)

	// Periodic roster backup for after-action review.
	persistRoster(ctx, snapRepo, simTicker.Snapshot())
	go func() {
		backup := time.NewTicker(5 * time.Second)
		defer backup.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backup.C:
				persistRoster(ctx, snapRepo, simTicker.Snapshot())
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket hub...")
	hub := network.NewHub(appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	responder := radio.NewResponder(cfg.GetInt64("radio_seed"))
	startAnnouncer(ctx, eventLog, hub, responder)

	router := mux.NewRouter()

	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, simTicker, responder, w, r, appLogger)
	})

	router.HandleFunc("/api/command", func(w http.ResponseWriter, r *http.Request) {
		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		cmd, err := req.toCommand()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res := simTicker.Do(cmd)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result":   res,
			"dialogue": responder.Acknowledge(cmd.Action, res.Success),
			"speaker":  "alpha",
		})
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(simTicker.Snapshot())
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/mission", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		var evs []events.GameEvent
		if t := r.URL.Query().Get("type"); t != "" {
			evs = eventLog.GetByType(events.EventType(t))
		} else {
			evs = eventLog.Replay()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(evs)
	}).Methods(http.MethodGet)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"phase":  gameEngine.Phase(),
		})
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/metrics/prom", metrics.PrometheusHandler()).Methods(http.MethodGet)

	addr := cfg.GetString("listen_addr")
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP API & WS server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	// Final roster flush so the database reflects the end state.
	persistRoster(shutdownCtx, snapRepo, gameEngine.Snapshot())
	_ = db.Close()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests from the web client dev server
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, dispatcher network.CommandDispatcher, responder *radio.Responder, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := network.NewClient(hub, conn, dispatcher, responder)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
