package main

import (
	"log"

	"legal-backend/internal/bootstrap"
	"legal-backend/internal/shared/config"
	"legal-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("starting API server on %s (env=%s)", addr, cfg.Env)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
