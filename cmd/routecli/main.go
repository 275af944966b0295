package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"courier-route-service/internal/adapters/cache"
	"courier-route-service/internal/adapters/routing"
	"courier-route-service/internal/config"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/services"
)

// routecli plans routes and quotes fees offline, and initializes the
// Postgres route cache schema.
//
//	routecli plan -origin-lat .. -origin-lon .. -stops stops.json
//	routecli fee -km 3.5
//	routecli decode -polyline '_p~iF~ps|U_ulLnnqC'
//	routecli initdb
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: routecli <plan|fee|decode|initdb> [flags]")
	}

	switch os.Args[1] {
	case "plan":
		runPlan(os.Args[2:])
	case "fee":
		runFee(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	case "initdb":
		runInitDB()
	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}
}

type stopFile struct {
	Pickups  []stopEntry `json:"pickups"`
	Dropoffs []stopEntry `json:"dropoffs"`
}

type stopEntry struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func runPlan(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	originLat := fs.Float64("origin-lat", 0, "driver latitude")
	originLon := fs.Float64("origin-lon", 0, "driver longitude")
	stopsPath := fs.String("stops", "", "path to a JSON stop file")
	_ = fs.Parse(args)

	if *stopsPath == "" {
		log.Fatal("plan: -stops is required")
	}

	raw, err := os.ReadFile(*stopsPath)
	if err != nil {
		log.Fatalf("plan: read stops file: %v", err)
	}

	var file stopFile
	if err := json.Unmarshal(raw, &file); err != nil {
		log.Fatalf("plan: parse stops file: %v", err)
	}

	origin := domain.Coordinate{Lat: *originLat, Lon: *originLon}
	if !origin.Valid() {
		log.Fatal("plan: origin is not a valid coordinate")
	}

	plan := services.PlanStackedRoute(
		origin,
		toStops(file.Pickups, domain.StopPickup),
		toStops(file.Dropoffs, domain.StopDropoff),
	)

	for i, s := range plan.Stops {
		fmt.Printf("%2d. [%s] %s (%s) %.5f,%.5f\n", i+1, s.Kind, s.Name, s.ID, s.Lat, s.Lon)
	}
	fmt.Printf("total distance: %.2f km\n", plan.TotalDistanceKm)
	fmt.Printf("estimated time: %.0f min\n", plan.EstimatedMinutes)
}

func runFee(args []string) {
	fs := flag.NewFlagSet("fee", flag.ExitOnError)
	km := fs.Float64("km", -1, "trip distance in kilometers")
	_ = fs.Parse(args)

	if *km < 0 {
		log.Fatal("fee: -km must be a non-negative distance")
	}

	fmt.Printf("fee for %.2f km: %.2f\n", *km, services.DeliveryFee(*km))
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	encoded := fs.String("polyline", "", "encoded polyline string")
	_ = fs.Parse(args)

	if *encoded == "" {
		log.Fatal("decode: -polyline is required")
	}

	coords, err := routing.DecodePolyline(*encoded)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}

	for _, c := range coords {
		fmt.Printf("%.5f,%.5f\n", c.Lat, c.Lon)
	}
}

func runInitDB() {
	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing route cache schema...")
	if err := cache.NewSQLRouteCache(conn).InitSchema(context.Background()); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}

func toStops(entries []stopEntry, kind domain.StopKind) []domain.Stop {
	stops := make([]domain.Stop, 0, len(entries))
	for _, e := range entries {
		stops = append(stops, domain.Stop{
			Coordinate: domain.Coordinate{Lat: e.Lat, Lon: e.Lon},
			ID:         e.ID,
			Name:       e.Name,
			Kind:       kind,
		})
	}
	return stops
}
