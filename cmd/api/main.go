package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/pharmaca-api/internal/access"
	"github.com/harentsoaR/pharmaca-api/internal/config"
	"github.com/harentsoaR/pharmaca-api/internal/events"
	"github.com/harentsoaR/pharmaca-api/internal/handlers"
	"github.com/harentsoaR/pharmaca-api/internal/server"
	"github.com/harentsoaR/pharmaca-api/internal/services"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"github.com/harentsoaR/pharmaca-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("MONGO_DATABASE: %s", cfg.Mongo.Database)
	log.Printf("API_PORT: %s", cfg.APIPort)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("MongoDB disconnect: %v", err)
		}
	}()
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	db := client.Database(cfg.Mongo.Database)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")

	// --- Initialize Services ---
	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()
	notificationSvc := services.NewNotificationService(publisher)
	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)

	h := handlers.NewHandler(store.New(db), tokens, access.DefaultPolicy(), notificationSvc)

	// --- Gin Router ---
	r, err := server.NewRouter(h, cfg.CORS.Origins)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, release := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer release()
	go func() {
		log.Printf("Starting server on port %s", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-stop.Done()
	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
