package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/shopfront/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	addr := getEnv("ADDR", ":3000")
	adminUser := getEnv("ADMIN_USER", "admin")
	adminPassword := getEnv("ADMIN_PASSWORD", "admin123")
	jwtSecret := os.Getenv("JWT_SECRET")
	postgresConnStr := os.Getenv("DATABASE_URL")
	kafkaBrokersStr := os.Getenv("KAFKA_BROKERS")
	kafkaTopic := getEnv("KAFKA_TOPIC", "item-changes")

	log.Println("[Items] ========================================")
	log.Println("[Items] Item collection server")
	log.Println("[Items] ========================================")

	var store server.ItemStore
	if postgresConnStr != "" {
		db, err := server.ConnectPostgres(postgresConnStr)
		if err != nil {
			log.Fatalf("[Items] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		pg := server.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("[Items] %v", err)
		}
		store = pg
		log.Println("[Items] Store: PostgreSQL")
	} else {
		store = server.NewMemoryStore()
		log.Println("[Items] Store: in-memory (seeded with demo catalog)")
	}

	var feed *server.ChangeFeed
	if kafkaBrokersStr != "" {
		brokers := strings.Split(kafkaBrokersStr, ",")
		feed = server.NewChangeFeed(brokers, kafkaTopic)
		defer feed.Close()
		log.Printf("[Items] Change feed: Kafka %v topic %s", brokers, kafkaTopic)
	} else {
		log.Println("[Items] Change feed: disabled")
	}

	if jwtSecret == "" {
		log.Println("[Items] Auth: disabled (no JWT_SECRET, demo mode)")
	} else {
		log.Println("[Items] Auth: bearer token required on mutations")
	}

	hash, err := server.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("[Items] Failed to hash admin password: %v", err)
	}
	creds := server.Credentials{Username: adminUser, PasswordHash: hash}

	srv := &http.Server{
		Addr:    addr,
		Handler: server.New(store, feed, creds, jwtSecret).Router(),
	}

	go func() {
		log.Printf("[Items] Listening on %s", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Items] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Items] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
