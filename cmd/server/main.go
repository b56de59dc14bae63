package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restman-ops/api/internal/config"
	"github.com/restman-ops/api/internal/database"
	"github.com/restman-ops/api/internal/router"
	"github.com/restman-ops/api/internal/suggest"
	"github.com/restman-ops/api/internal/ws"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("unable to reach database: %v", err)
	}

	queries := database.New(pool)

	hub := ws.NewHub()
	go hub.Run()

	suggester, err := suggest.New(cfg.OpenAIKey, cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("unable to initialize suggester: %v", err)
	}

	r := router.New(cfg, queries, pool, hub, suggester)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
