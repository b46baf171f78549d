// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reloop/internal/ai"
	"reloop/internal/config"
	"reloop/internal/geocode"
	httptransport "reloop/internal/http"
	"reloop/internal/infra"
	"reloop/internal/modules/assist"
	"reloop/internal/modules/discovery"
	"reloop/internal/modules/impact"
	"reloop/internal/modules/pickup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("RELOOP_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var resolver pickup.Resolver
	if cfg.Maps.APIKey != "" {
		resolver, err = geocode.NewService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("geocode init: %v", err)
		}
	} else {
		log.Print("GOOGLE_MAPS_API_KEY not set; pickups are stored without coordinates")
	}

	impactStore := impact.NewStore(dbPool)
	impactSvc := impact.NewService(impactStore)

	discoveryStore := discovery.NewStore(redisClient)
	discoverySvc := discovery.NewService(discoveryStore, cfg.Discovery)

	pickupStore := pickup.NewStore(dbPool)
	pickupSvc := pickup.NewService(pickupStore, resolver, impactSvc, discoverySvc, cfg.Pickup)

	var assistSvc *assist.Service
	if cfg.AI.GeminiKey != "" {
		classifier, err := ai.NewGeminiClassifier(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer classifier.Close()
		assistSvc = assist.NewService(assist.NewStore(dbPool), classifier)
	} else {
		log.Print("GEMINI_API_KEY not set; assist endpoint disabled")
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Pickup:    pickupSvc,
		Discovery: discoverySvc,
		Impact:    impactSvc,
		Assist:    assistSvc,
		Verifier:  verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
