package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
)

// gateResolver blocks every Resolve call until the test releases it,
// so tests can control the order in which resolutions settle.
type gateResolver struct {
	mu        sync.Mutex
	calls     []chan *domain.ResolvedRoute
	waypoints [][]domain.Coordinate
}

func (r *gateResolver) Resolve(
	ctx context.Context,
	waypoints []domain.Coordinate,
	opts ports.ResolveOptions,
) (*domain.ResolvedRoute, error) {
	ch := make(chan *domain.ResolvedRoute, 1)
	r.mu.Lock()
	r.calls = append(r.calls, ch)
	r.waypoints = append(r.waypoints, waypoints)
	r.mu.Unlock()

	route := <-ch
	if route == nil {
		return nil, errors.New("resolution failed")
	}
	return route, nil
}

func (r *gateResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *gateResolver) waypointsFor(i int) []domain.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waypoints[i]
}

func (r *gateResolver) release(i int, route *domain.ResolvedRoute) {
	r.mu.Lock()
	ch := r.calls[i]
	r.mu.Unlock()
	ch <- route
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func routeWithDistance(km float64) *domain.ResolvedRoute {
	return &domain.ResolvedRoute{
		Coordinates: []domain.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}},
		DistanceKm:  km,
		DurationMin: 1,
	}
}

func TestWatcherStaleResultDiscarded(t *testing.T) {
	resolver := &gateResolver{}
	w := NewRouteWatcher(resolver, ports.ResolveOptions{}, time.Minute)
	defer w.Close()

	origin := domain.Coordinate{Lat: 0, Lon: 0}
	w.Update(origin, []domain.Coordinate{{Lat: 0, Lon: 1}})
	waitFor(t, "first resolution to start", func() bool { return resolver.callCount() == 1 })

	// Inputs change while the first resolution is in flight.
	w.Update(origin, []domain.Coordinate{{Lat: 0, Lon: 2}})
	waitFor(t, "second resolution to start", func() bool { return resolver.callCount() == 2 })

	// The newer resolution settles first...
	resolver.release(1, routeWithDistance(222))
	waitFor(t, "second result applied", func() bool {
		st := w.State()
		return st.Info != nil && st.Info.DistanceKm == 222
	})

	// ...then the stale one settles and must be ignored.
	resolver.release(0, routeWithDistance(111))
	time.Sleep(20 * time.Millisecond)

	st := w.State()
	if st.Info == nil || st.Info.DistanceKm != 222 {
		t.Fatalf("stale result overwrote state: %+v", st)
	}
	if st.Loading {
		t.Fatal("watcher still loading after current generation settled")
	}
}

func TestWatcherNoWritesAfterClose(t *testing.T) {
	resolver := &gateResolver{}
	w := NewRouteWatcher(resolver, ports.ResolveOptions{}, time.Minute)

	w.Update(domain.Coordinate{Lat: 0, Lon: 0}, []domain.Coordinate{{Lat: 0, Lon: 1}})
	waitFor(t, "resolution to start", func() bool { return resolver.callCount() == 1 })

	w.Close()
	resolver.release(0, routeWithDistance(333))
	time.Sleep(20 * time.Millisecond)

	if st := w.State(); st.Info != nil {
		t.Fatalf("state written after Close: %+v", st)
	}
}

func TestWatcherUnchangedInputIsNoop(t *testing.T) {
	resolver := &gateResolver{}
	w := NewRouteWatcher(resolver, ports.ResolveOptions{}, time.Minute)
	defer w.Close()

	origin := domain.Coordinate{Lat: 0, Lon: 0}
	stops := []domain.Coordinate{{Lat: 0, Lon: 1}}

	w.Update(origin, stops)
	waitFor(t, "resolution to start", func() bool { return resolver.callCount() == 1 })

	// Same values again: must not trigger a second resolution.
	w.Update(origin, []domain.Coordinate{{Lat: 0, Lon: 1}})
	time.Sleep(20 * time.Millisecond)

	if n := resolver.callCount(); n != 1 {
		t.Fatalf("resolver called %d times for identical inputs, want 1", n)
	}
}

func TestWatcherInsufficientWaypointsGoesIdle(t *testing.T) {
	resolver := &gateResolver{}
	w := NewRouteWatcher(resolver, ports.ResolveOptions{}, time.Minute)
	defer w.Close()

	w.Update(domain.Coordinate{Lat: 0, Lon: 0}, nil)
	time.Sleep(20 * time.Millisecond)

	if n := resolver.callCount(); n != 0 {
		t.Fatalf("resolver called %d times for a single waypoint, want 0", n)
	}
	st := w.State()
	if st.Loading || st.Err != "" || st.Info != nil || len(st.Coords) != 0 {
		t.Fatalf("watcher not idle: %+v", st)
	}
}

func TestWatcherDropsInvalidWaypoints(t *testing.T) {
	resolver := &gateResolver{}
	w := NewRouteWatcher(resolver, ports.ResolveOptions{}, time.Minute)
	defer w.Close()

	// Origin with no GPS fix yet; the two stops are routable on their own.
	origin := domain.Coordinate{Lat: 91, Lon: 0}
	w.Update(origin, []domain.Coordinate{{Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}})
	waitFor(t, "resolution to start", func() bool { return resolver.callCount() == 1 })

	got := resolver.waypointsFor(0)
	if len(got) != 2 {
		t.Fatalf("resolver received %d waypoints, want the 2 valid stops", len(got))
	}
	for _, c := range got {
		if !c.Valid() {
			t.Fatalf("invalid waypoint reached the resolver: %+v", c)
		}
	}

	resolver.release(0, routeWithDistance(3))
	waitFor(t, "result applied", func() bool { return w.State().Info != nil })
	if st := w.State(); st.Err != "" {
		t.Fatalf("resolution failed: %s", st.Err)
	}
}

func TestWatcherFailureClearsGeometry(t *testing.T) {
	resolver := &gateResolver{}
	w := NewRouteWatcher(resolver, ports.ResolveOptions{}, time.Minute)
	defer w.Close()

	origin := domain.Coordinate{Lat: 0, Lon: 0}
	w.Update(origin, []domain.Coordinate{{Lat: 0, Lon: 1}})
	waitFor(t, "resolution to start", func() bool { return resolver.callCount() == 1 })
	resolver.release(0, routeWithDistance(5))
	waitFor(t, "success applied", func() bool { return w.State().Info != nil })

	w.Refetch()
	waitFor(t, "refetch to start", func() bool { return resolver.callCount() == 2 })
	resolver.release(1, nil) // nil route makes the gate resolver fail

	waitFor(t, "failure applied", func() bool { return w.State().Err != "" })
	st := w.State()
	if len(st.Coords) != 0 || st.Info != nil {
		t.Fatalf("failure did not clear geometry: %+v", st)
	}
	if st.Loading {
		t.Fatal("watcher still loading after failure")
	}
}
