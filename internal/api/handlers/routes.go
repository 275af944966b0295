package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"courier-route-service/internal/adapters/routing"
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
)

// RouteHandler exposes stop sequencing, road-route resolution, and polyline
// decoding.
type RouteHandler struct {
	Resolver ports.RouteResolver
}

// Plan sequences pickups and dropoffs for a driver position and returns the
// ordered plan with straight-line distance and ETA estimates. Pure
// computation, no external calls.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	origin := domain.Coordinate{Lat: req.Origin.Lat, Lon: req.Origin.Lon}
	if !origin.Valid() {
		writeError(w, r, http.StatusBadRequest, "origin is not a valid coordinate")
		return
	}

	pickups, err := toStops(req.Pickups, domain.StopPickup)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	dropoffs, err := toStops(req.Dropoffs, domain.StopDropoff)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan := services.PlanStackedRoute(origin, pickups, dropoffs)

	res := dto.PlanResponse{
		Stops:            make([]dto.StopDTO, 0, len(plan.Stops)),
		TotalDistanceKm:  plan.TotalDistanceKm,
		EstimatedMinutes: plan.EstimatedMinutes,
	}
	for _, s := range plan.Stops {
		res.Stops = append(res.Stops, dto.StopDTO{
			ID:   s.ID,
			Name: s.Name,
			Kind: string(s.Kind),
			Lat:  s.Lat,
			Lon:  s.Lon,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Resolve requests a road-following route for an ordered waypoint sequence
// from the external routing service.
func (h *RouteHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	waypoints := make([]domain.Coordinate, 0, len(req.Waypoints))
	for _, c := range req.Waypoints {
		waypoints = append(waypoints, domain.Coordinate{Lat: c.Lat, Lon: c.Lon})
	}

	opts := ports.ResolveOptions{Profile: req.Profile, Steps: req.Steps}
	route, err := h.Resolver.Resolve(r.Context(), waypoints, opts)
	if err != nil {
		if errors.Is(err, routing.ErrInsufficientWaypoints) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("resolve route failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "route resolution failed")
		return
	}

	writeJSON(w, r, http.StatusOK, toResolveResponse(route))
}

// Decode converts an encoded polyline (e.g. backend-precomputed geometry)
// into a coordinate list.
func (h *RouteHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req dto.DecodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	coords, err := routing.DecodePolyline(req.Polyline)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := dto.DecodeResponse{Coordinates: make([]dto.CoordinateDTO, 0, len(coords))}
	for _, c := range coords {
		res.Coordinates = append(res.Coordinates, dto.CoordinateDTO{Lat: c.Lat, Lon: c.Lon})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// decodeBody enforces POST with a single strict JSON object body.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	return true
}

func toStops(in []dto.StopDTO, kind domain.StopKind) ([]domain.Stop, error) {
	stops := make([]domain.Stop, 0, len(in))
	for _, s := range in {
		c := domain.Coordinate{Lat: s.Lat, Lon: s.Lon}
		if !c.Valid() {
			return nil, errors.New("stop " + s.ID + " is not a valid coordinate")
		}
		k := kind
		if s.Kind != "" {
			k = domain.StopKind(s.Kind)
		}
		stops = append(stops, domain.Stop{Coordinate: c, ID: s.ID, Name: s.Name, Kind: k})
	}
	return stops, nil
}

func toResolveResponse(route *domain.ResolvedRoute) dto.ResolveResponse {
	res := dto.ResolveResponse{
		Coordinates: make([]dto.CoordinateDTO, 0, len(route.Coordinates)),
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
		Legs:        make([]dto.RouteLegResponse, 0, len(route.Legs)),
	}
	for _, c := range route.Coordinates {
		res.Coordinates = append(res.Coordinates, dto.CoordinateDTO{Lat: c.Lat, Lon: c.Lon})
	}
	for _, l := range route.Legs {
		res.Legs = append(res.Legs, dto.RouteLegResponse{
			Index:       l.Index,
			DistanceKm:  l.DistanceKm,
			DurationMin: l.DurationMin,
		})
	}
	return res
}
