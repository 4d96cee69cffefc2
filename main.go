package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wfunc/colorparty/config"
	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/monitor"
	"github.com/wfunc/colorparty/persistence"
	"github.com/wfunc/colorparty/server"
	"github.com/wfunc/colorparty/timer"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load config: %v", err)
	}

	pg := cfg.Database.Postgres
	db, err := persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	mon := monitor.NewMonitor("colorparty")
	mon.StartServer(cfg.Server.MonitorAddress)

	gameServer := server.NewGameServer(cfg, db, mon)

	timers := timer.NewManager()
	defer timers.Stop()
	timers.Schedule(cfg.Game.SweepInterval, cfg.Game.SweepInterval, func() {
		removed := gameServer.RoomManager().Sweep(cfg.Game.IdleGrace)
		if removed > 0 {
			mon.SetActiveRooms(gameServer.RoomManager().Count())
		}
	})

	go func() {
		if err := gameServer.Start(); err != nil {
			logger.Log.Fatalf("Game server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	gameServer.Shutdown()
}
