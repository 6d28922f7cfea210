package main

import (
	"log"

	"paintbrawl/internal/config"
	"paintbrawl/internal/server"
	"paintbrawl/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	hub := server.NewHub(st)
	srv := server.NewServer(hub, st, st, cfg.StaticDir)

	log.Println("Starting paintbrawl server...")
	if err := srv.Start(cfg.Addr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
