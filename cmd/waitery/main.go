package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rafaapcode/waitery-backend-sub000/internal/api"
	"github.com/rafaapcode/waitery-backend-sub000/internal/auth"
	"github.com/rafaapcode/waitery-backend-sub000/internal/catalog"
	"github.com/rafaapcode/waitery-backend-sub000/internal/config"
	"github.com/rafaapcode/waitery-backend-sub000/internal/database"
	"github.com/rafaapcode/waitery-backend-sub000/internal/notify"
	"github.com/rafaapcode/waitery-backend-sub000/internal/orders"
	"github.com/rafaapcode/waitery-backend-sub000/internal/scope"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "config/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Metrics.Port = *metricsPort
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	enforcer, err := auth.NewEnforcer(cfg.Auth.RBACModel, cfg.Auth.RBACPolicy)
	if err != nil {
		log.Fatalf("Failed to load RBAC policy: %v", err)
	}

	checker := scope.NewChecker(db)
	hub := notify.NewHub()

	catalogService := catalog.NewService(
		catalog.NewProductRepository(db),
		catalog.NewCategoryRepository(db),
		catalog.NewIngredientRepository(db),
		checker,
	)
	orderService := orders.NewService(
		orders.NewOrderRepository(db),
		catalog.NewProductRepository(db),
		checker,
		hub,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewServer(orderService, catalogService, hub, []byte(cfg.Auth.JWTSecret), enforcer).Router(),
	}

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
