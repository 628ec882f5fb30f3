package main

import (
	"flag"
	"os"
	"time"

	"locafesta/config"
	"locafesta/controllers"
	dbpkg "locafesta/db"
	"locafesta/router"
	"locafesta/workers"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.json", "caminho do config.json")
	pretty := flag.Bool("pretty", false, "log legível no console (dev)")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.Get(*configPath)

	dbpkg.SetConfigurations(cfg)
	controllers.SetJWTSecret(cfg.Security.JwtSecret)
	controllers.SetSweepToken(cfg.Security.SweepToken)

	database, err := dbpkg.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no banco")
	}
	defer database.Close()

	// Sweeper interno é opcional: com um cron externo batendo no endpoint
	// /api/eventos/sweep, deixe interval_seconds = 0.
	if cfg.Sweep.IntervalSeconds > 0 {
		interval := time.Duration(cfg.Sweep.IntervalSeconds) * time.Second
		workers.StartStatusSweeper(database, interval)
		log.Info().Dur("interval", interval).Msg("status sweeper interno ligado")
	}

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	router.Initialize(r, cfg)

	log.Info().Str("port", cfg.ApiPort).Msg("locafesta listening")
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
