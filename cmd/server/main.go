package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "rocketvote/docs"
	"rocketvote/internal/config"
	"rocketvote/internal/domain/poll"
	"rocketvote/internal/domain/reveal"
	"rocketvote/internal/domain/tally"
	api "rocketvote/internal/http"
	"rocketvote/internal/metrics"
	"rocketvote/internal/notify"
	jwtpkg "rocketvote/internal/platform/jwt"
	"rocketvote/internal/platform/keyval"
	"rocketvote/internal/retry"
	"rocketvote/internal/worker"
)

// @title           RocketVote API
// @version         1.0
// @description     Real-time poll and vote-tally service
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	metrics.Register()

	store := keyval.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer store.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := retry.DoWithRetry(pingCtx, 5, 500*time.Millisecond, func() error {
		return store.Ping(pingCtx)
	}); err != nil {
		pingCancel()
		log.Fatalf("store connect error: %v", err)
	}
	pingCancel()

	bus := notify.NewBus(nil)
	repo := poll.NewRepository(store, nil)
	tallyEngine := tally.NewEngine(store, bus, nil)
	queue := worker.NewDeletionQueue(store)
	coordinator := reveal.NewCoordinator(repo, queue, bus, cfg.DeleteDelay, nil)
	deletionWorker := worker.NewDeletionWorker(queue, repo, cfg.SweepInterval)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, "")

	router := api.NewRouter(repo, tallyEngine, coordinator, bus, jwtMgr, store)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go deletionWorker.Run(ctx)

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
