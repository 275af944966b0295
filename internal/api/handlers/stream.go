package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler serves a live route over WebSocket. The client streams
// driver position and stop updates; the server pushes a route state snapshot
// whenever the resolved route changes. Each connection owns an independent
// watcher, so stale resolutions for superseded positions are never pushed.
type StreamHandler struct {
	Resolver       ports.RouteResolver
	ResolveTimeout time.Duration
}

type streamUpdate struct {
	Origin  *dto.CoordinateDTO  `json:"origin"`
	Stops   []dto.CoordinateDTO `json:"stops"`
	Profile string              `json:"profile"`
	Refetch bool                `json:"refetch"`
}

type streamState struct {
	Coords  []dto.CoordinateDTO    `json:"coords"`
	Route   *routeInfoDTO          `json:"route"`
	Legs    []dto.RouteLegResponse `json:"legs"`
	Loading bool                   `json:"loading"`
	Error   string                 `json:"error,omitempty"`
}

type routeInfoDTO struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
}

// Stream upgrades the connection and relays updates both ways until the
// client disconnects.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var first streamUpdate
	if err := conn.ReadJSON(&first); err != nil {
		return
	}

	watcher := services.NewRouteWatcher(
		h.Resolver,
		ports.ResolveOptions{Profile: first.Profile, Steps: true},
		h.ResolveTimeout,
	)
	defer watcher.Close()

	// Writer: one goroutine owns the connection's write side.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range watcher.Updates() {
			if err := conn.WriteJSON(toStreamState(st)); err != nil {
				return
			}
		}
	}()

	applyUpdate(watcher, first)

	for {
		var upd streamUpdate
		if err := conn.ReadJSON(&upd); err != nil {
			break
		}
		applyUpdate(watcher, upd)
	}

	watcher.Close()
	<-done
}

func applyUpdate(watcher *services.RouteWatcher, upd streamUpdate) {
	if upd.Refetch {
		watcher.Refetch()
		return
	}
	if upd.Origin == nil {
		return
	}

	origin := domain.Coordinate{Lat: upd.Origin.Lat, Lon: upd.Origin.Lon}
	stops := make([]domain.Coordinate, 0, len(upd.Stops))
	for _, s := range upd.Stops {
		stops = append(stops, domain.Coordinate{Lat: s.Lat, Lon: s.Lon})
	}

	watcher.Update(origin, stops)
}

func toStreamState(st services.RouteState) streamState {
	out := streamState{
		Coords:  make([]dto.CoordinateDTO, 0, len(st.Coords)),
		Legs:    make([]dto.RouteLegResponse, 0, len(st.Legs)),
		Loading: st.Loading,
		Error:   st.Err,
	}
	for _, c := range st.Coords {
		out.Coords = append(out.Coords, dto.CoordinateDTO{Lat: c.Lat, Lon: c.Lon})
	}
	for _, l := range st.Legs {
		out.Legs = append(out.Legs, dto.RouteLegResponse{
			Index:       l.Index,
			DistanceKm:  l.DistanceKm,
			DurationMin: l.DurationMin,
		})
	}
	if st.Info != nil {
		out.Route = &routeInfoDTO{
			DistanceKm:  st.Info.DistanceKm,
			DurationMin: st.Info.DurationMin,
		}
	}
	return out
}
