package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Cheertaboi/pos-billing-service/internal/api"
	"github.com/Cheertaboi/pos-billing-service/internal/api/middleware"
	"github.com/Cheertaboi/pos-billing-service/internal/cache"
	"github.com/Cheertaboi/pos-billing-service/internal/client"
	"github.com/Cheertaboi/pos-billing-service/internal/config"
	"github.com/Cheertaboi/pos-billing-service/internal/repository"
	"github.com/Cheertaboi/pos-billing-service/internal/service"
	"github.com/Cheertaboi/pos-billing-service/pkg/db"
)

func main() {
	cfg := config.Load()

	// load DB config from env
	dbCfg, err := db.LoadPostgresConfig()
	if err != nil {
		log.Fatalf("db config: %v", err)
	}
	conn, err := db.NewPostgresConnection(dbCfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer conn.Close()

	var opts []service.Option
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// registers still work in memory, they just won't survive a restart
			log.Printf("redis ping: %v", err)
		}
		cancel()
		opts = append(opts, service.WithRegisterCache(cache.NewRedisCache(rdb, cfg.RegisterTTL)))
	} else {
		log.Println("REDIS_ADDR not set, registers are kept in memory only")
	}

	svc := service.NewPOSService(
		cache.NewRegisterStore(),
		repository.NewCouponRepo(conn),
		client.NewSaleClient(cfg.SaleAPIURL, cfg.SaleAPITimeout),
		cfg.TaxRate,
		opts...,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Mount("/", api.NewRouter(svc))

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("starting pos-service on %s (tax rate %s%%)", cfg.HTTPAddr, cfg.TaxRate)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}

	<-idleConnsClosed
	log.Println("server stopped")
}
