// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cedar/internal/config"
	httptransport "cedar/internal/http"
	"cedar/internal/infra"
	"cedar/internal/maps"
	"cedar/internal/modules/fare"
	"cedar/internal/modules/fleet"
	"cedar/internal/modules/location"
	"cedar/internal/modules/quote"
	"cedar/internal/modules/route"
	"cedar/internal/modules/trip"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Maps.APIKey == "" {
		log.Fatal("CEDAR_MAPS_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
	} else {
		log.Print("CEDAR_FIREBASE_PROJECT_ID not set; auth disabled")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	adapter, err := maps.NewGoogleAdapter(cfg.Maps.APIKey, cfg.Region)
	if err != nil {
		log.Fatal(err)
	}

	resolver := location.NewResolver(adapter, location.NewCache(redisClient))
	routeSvc := route.NewService(adapter, cfg.Routing)
	fareSvc := fare.NewService(cfg.Rates)

	fleetStore := fleet.NewStore(dbPool)
	fleetSvc := fleet.NewService(fleetStore, fleet.NewPositions(redisClient))

	tripStore := trip.NewStore(dbPool)
	tripSvc := trip.NewService(tripStore, fleetSvc)

	quoteSvc := quote.NewService(resolver, routeSvc, fareSvc, fleetSvc, tripSvc)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Resolver: resolver,
		Quote:    quoteSvc,
		Route:    routeSvc,
		Trip:     tripSvc,
		Fleet:    fleetSvc,
		Verifier: verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("cedar-api listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
