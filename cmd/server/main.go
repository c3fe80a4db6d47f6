package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/confeitaria/internal/config"
	"github.com/diewo77/confeitaria/internal/server"
	"github.com/diewo77/confeitaria/internal/storage"
	"github.com/diewo77/confeitaria/internal/store"
)

// simple middleware chain
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run storage migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if *migrateOnlyFlag {
		os.Setenv("MIGRATIONS", "1")
		rs, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		_ = rs.Close()
		log.Println("migrations completed; exiting as requested")
		return
	}

	rs, err := storage.Open(cfg.StorageDriver, cfg.DataDir, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	ctx := context.Background()
	products, err := store.LoadProducts(ctx, rs)
	if err != nil {
		log.Fatalf("load products: %v", err)
	}
	orders, err := store.LoadOrders(ctx, rs)
	if err != nil {
		log.Fatalf("load orders: %v", err)
	}

	if cfg.Env == "development" {
		products.Subscribe(func() { log.Println("catalog state changed") })
		orders.Subscribe(func() { log.Println("order state changed") })
	}

	log.Printf("Starting server env=%s port=%s storage=%s", cfg.Env, cfg.Port, cfg.StorageDriver)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(server.New(products, orders, rs))}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	// Drain the durable-write queues before letting go of the storage.
	if err := server.CloseStores(shutdownCtx, products, orders); err != nil {
		log.Printf("Error draining writes: %v", err)
	}
	if err := rs.Close(); err != nil {
		log.Printf("Error closing storage: %v", err)
	}
	log.Println("Server gracefully stopped")
}
