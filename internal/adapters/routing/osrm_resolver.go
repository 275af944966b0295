package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
)

// ErrInsufficientWaypoints is returned when a route is requested for fewer
// than two waypoints. No network call is made in that case.
var ErrInsufficientWaypoints = errors.New("route resolution requires at least 2 waypoints")

// OSRMResolver implements RouteResolver against an OSRM HTTP endpoint
// (the public router.project-osrm.org or a self-hosted instance).
//
// It coordinates:
//   - Request construction (OSRM orders axes lon,lat)
//   - Geometry and leg decoding into the client coordinate model (lat,lon)
//   - Optional resolved-route caching
//   - External API calls with retry/backoff
//
// The resolver is safe for concurrent use.
type OSRMResolver struct {
	session *http.Client
	baseURL string
	profile string
	cache   ports.RouteCache
}

// NewOSRMResolver builds a resolver. client may be nil, in which case a
// 10-second-timeout client is used so requests can never hang unbounded.
// cache may be nil to disable caching. defaultProfile falls back to "driving".
func NewOSRMResolver(baseURL string, defaultProfile string, client *http.Client, cache ports.RouteCache) (*OSRMResolver, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base URL is empty")
	}

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if defaultProfile == "" {
		defaultProfile = "driving"
	}

	return &OSRMResolver{
		session: client,
		baseURL: baseURL,
		profile: defaultProfile,
		cache:   cache,
	}, nil
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
	Legs []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// Resolve requests a road route visiting waypoints in order and converts the
// response into the client coordinate model.
func (o *OSRMResolver) Resolve(
	ctx context.Context,
	waypoints []domain.Coordinate,
	opts ports.ResolveOptions,
) (_ *domain.ResolvedRoute, err error) {
	defer obs.Time(ctx, "osrm.Resolve")(&err)

	if len(waypoints) < 2 {
		return nil, ErrInsufficientWaypoints
	}
	for i, wp := range waypoints {
		if !wp.Valid() {
			return nil, fmt.Errorf("resolve route: waypoint %d is not a valid coordinate", i)
		}
	}

	profile := opts.Profile
	if profile == "" {
		profile = o.profile
	}

	// Check the resolved-route cache before issuing external API calls.
	if o.cache != nil {
		cached, err := o.cache.Get(ctx, profile, waypoints)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	endpoint := o.routeURL(profile, waypoints, opts.Steps)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "Ok" {
		if decoded.Message != "" {
			return nil, fmt.Errorf("routing service rejected request: %s (%s)", decoded.Code, decoded.Message)
		}
		return nil, fmt.Errorf("routing service rejected request: %s", decoded.Code)
	}
	if len(decoded.Routes) == 0 {
		return nil, errors.New("routing service returned no routes")
	}

	route, err := toResolvedRoute(decoded.Routes[0])
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, profile, waypoints, route); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return route, nil
}

// routeURL builds the OSRM route endpoint for an ordered waypoint path.
// Waypoints are encoded lon,lat and joined by semicolons.
func (o *OSRMResolver) routeURL(profile string, waypoints []domain.Coordinate, steps bool) string {
	parts := make([]string, 0, len(waypoints))
	for _, wp := range waypoints {
		ll := wp.LonLat()
		parts = append(parts,
			strconv.FormatFloat(ll[0], 'f', -1, 64)+","+strconv.FormatFloat(ll[1], 'f', -1, 64))
	}

	u := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		o.baseURL, profile, strings.Join(parts, ";"))
	if steps {
		u += "&steps=true"
	}
	return u
}

// toResolvedRoute converts the first OSRM route to the client model. Every
// [lon, lat] geometry pair is swapped into {Lat, Lon}: the external service
// and the client disagree on axis order, and the conversion must be exact.
func toResolvedRoute(r osrmRoute) (*domain.ResolvedRoute, error) {
	coords := make([]domain.Coordinate, 0, len(r.Geometry.Coordinates))
	for i, pair := range r.Geometry.Coordinates {
		if len(pair) != 2 {
			return nil, fmt.Errorf("malformed geometry pair at index %d", i)
		}
		coords = append(coords, domain.Coordinate{Lat: pair[1], Lon: pair[0]})
	}

	legs := make([]domain.RouteLeg, 0, len(r.Legs))
	for i, leg := range r.Legs {
		legs = append(legs, domain.RouteLeg{
			Index:       i,
			DistanceKm:  leg.Distance / 1000,
			DurationMin: ceilMinutes(leg.Duration),
		})
	}

	// Distance stays unrounded; rounding is a presentation concern.
	return &domain.ResolvedRoute{
		Coordinates: coords,
		DistanceKm:  r.Distance / 1000,
		DurationMin: ceilMinutes(r.Duration),
		Legs:        legs,
	}, nil
}

func ceilMinutes(seconds float64) int {
	return int(math.Ceil(seconds / 60))
}
