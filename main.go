package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cupgame/internal/httpserver"
	"cupgame/internal/prizes"
	"cupgame/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := prizes.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load prize pool")
	}

	st, err := store.OpenSQLite(getEnv("DB_PATH", "./data/cupgame.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open statistics store")
	}
	defer st.Close()

	srv := httpserver.New(st)
	port := getEnv("PORT", "5176")
	log.Info().Str("port", port).Msg("starting cupgame server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
