package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/xiangqi-backend/internal/config"
	"github.com/benbeisheim/xiangqi-backend/internal/controller"
	"github.com/benbeisheim/xiangqi-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "allowed CORS and websocket origin")
	flag.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "thinking time per team")
	flag.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "matchmaking tick")
	logLevel := flag.String("log-level", "", "trace, debug, info, warn or error")
	flag.Parse()

	if *logLevel != "" {
		level, err := config.ParseLevel(*logLevel)
		if err != nil {
			log.Fatal(err)
		}
		cfg.LogLevel = level
	}
	log.SetLevel(cfg.LogLevel)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameManager := service.NewGameManager(cfg.ClockTime, cfg.MatchInterval)
	defer gameManager.Stop()
	gameService := service.NewGameService(gameManager)

	controller.Register(app, gameService, cfg.AllowOrigins)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
