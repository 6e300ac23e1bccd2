package main

import (
	"context"
	"net/http"
	"time"

	"bracket-arbiter/internal/config"
	"bracket-arbiter/internal/events"
	"bracket-arbiter/internal/ledger"
	"bracket-arbiter/internal/logging"
	"bracket-arbiter/internal/match"
	"bracket-arbiter/internal/reputation"
	"bracket-arbiter/internal/store"
	"bracket-arbiter/internal/tournament"
	httptransport "bracket-arbiter/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	appCfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(appCfg.Log)
	cfg := appCfg.Server

	var (
		bank   ledger.Bank
		scores reputation.ScoreStore
		st     *store.Store
	)
	if cfg.PostgresDSN != "" {
		st, err = store.New(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("ensure schema failed")
		}
		bank = st
		scores = st
	} else {
		log.Info().Msg("no POSTGRES_DSN, running on in-memory bank and registry")
		bank = ledger.NewMemBank(cfg.InitialBalance)
		scores = reputation.NewMemScores()
	}

	led := ledger.New(bank)
	registry := reputation.NewService(scores, cfg.BaseStake)
	buf := events.NewBuffer(0)
	defer buf.Close()

	factory := &match.Factory{
		Ledger:         led,
		Registry:       registry,
		Store:          st,
		Events:         buf,
		JuryCollateral: cfg.JuryCollateral,
	}
	coord := tournament.NewCoordinator(led, factory, st, buf)

	handlers := httptransport.NewHandlers(coord, led, registry, buf)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httptransport.NewRouter(handlers),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
