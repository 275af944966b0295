package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"courier-route-service/internal/adapters/cache"
	"courier-route-service/internal/adapters/routing"
	"courier-route-service/internal/api"
	"courier-route-service/internal/config"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (OSRM, Redis/Postgres caches) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	osrmBaseURL := config.Get("OSRM_BASE_URL", "https://router.project-osrm.org")
	osrmProfile := config.Get("OSRM_PROFILE", "driving")
	osrmTimeout := config.GetDuration("OSRM_TIMEOUT", 10*time.Second)

	routeCache, closeCache, err := buildRouteCache()
	if err != nil {
		log.Fatal(err)
	}
	if closeCache != nil {
		defer closeCache()
	}

	client := &http.Client{Timeout: osrmTimeout}
	resolver, err := routing.NewOSRMResolver(osrmBaseURL, osrmProfile, client, routeCache)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(resolver, osrmTimeout)

	// Write timeout leaves room for retried cold-cache resolutions; the
	// stream endpoint hijacks its connection and is unaffected.
	log.Printf("Server listening addr=:%s osrm=%s", port, osrmBaseURL)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildRouteCache picks the cache backend from CACHE_BACKEND:
// "redis", "postgres", or "none" (default).
func buildRouteCache() (ports.RouteCache, func(), error) {
	switch backend := config.Get("CACHE_BACKEND", "none"); backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: config.Get("REDIS_ADDR", "localhost:6379"),
			DB:   config.GetInt("REDIS_DB", 0),
		})
		ttl := config.GetDuration("ROUTE_CACHE_TTL", 5*time.Minute)
		return cache.NewRedisRouteCache(client, ttl), func() { _ = client.Close() }, nil

	case "postgres":
		conn, err := db.Open(config.Get("DATABASE_URL", ""))
		if err != nil {
			return nil, nil, err
		}
		sqlCache := cache.NewSQLRouteCache(conn)
		if err := sqlCache.InitSchema(context.Background()); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return sqlCache, func() { _ = conn.Close() }, nil

	default:
		return nil, nil, nil
	}
}
