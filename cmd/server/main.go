package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymledger/internal/config"
	"gymledger/internal/db"
	"gymledger/internal/handlers"
	"gymledger/internal/services"
	"gymledger/internal/store"
	"gymledger/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	packs := store.NewPackStore(database)
	classTypes := store.NewClassTypeStore(database)
	teachers := store.NewTeacherStore(database)
	schedules := store.NewScheduleStore(database)
	reservations := store.NewReservationStore(database)
	payments := store.NewPaymentStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	ledger := services.NewPackLedgerService(txRunner, users, packs, schedules, reservations, audit, hub, cfg.VenueLocation())

	handler := handlers.New(txRunner, cfg, users, packs, classTypes, teachers, schedules, reservations, payments, audit, ledger, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("gym ledger API listening on %s", server.Addr)
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
