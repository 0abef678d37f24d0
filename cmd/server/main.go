package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/handlers"
	"marketplace/internal/services"
	"marketplace/internal/store"
	"marketplace/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	balances := store.NewBalanceStore(database)
	connects := store.NewConnectsStore(database)
	transactions := store.NewTransactionStore(database)
	jobs := store.NewJobStore(database)
	proposals := store.NewProposalStore(database)
	invitations := store.NewInvitationStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	service := services.NewLedgerService(txRunner, users, balances, connects, transactions, jobs, proposals, invitations, hub)

	handler := handlers.New(txRunner, cfg, users, service, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("marketplace API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
