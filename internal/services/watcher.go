package services

import (
	"context"
	"sync"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
)

// RouteInfo carries the headline metrics of the currently resolved route.
type RouteInfo struct {
	DistanceKm  float64
	DurationMin int
}

// RouteState is a snapshot of a watcher's presentation state.
//
// Loading means a resolution is in flight; previously resolved geometry is
// kept visible until the new result lands. On failure the geometry is
// cleared and Err carries a human-readable reason.
type RouteState struct {
	Coords  []domain.Coordinate
	Info    *RouteInfo
	Legs    []domain.RouteLeg
	Loading bool
	Err     string
}

// RouteWatcher keeps a resolved road route synchronized with a changing set
// of waypoints (driver position plus delivery stops). Each instance owns its
// state exclusively; instances share nothing, so any number may run
// concurrently.
//
// Staleness contract: every input change bumps a generation counter and
// cancels the in-flight resolution. A result is applied only if its
// generation is still current when it arrives; late results for superseded
// inputs are discarded, and nothing is ever written after Close.
type RouteWatcher struct {
	resolver ports.RouteResolver
	opts     ports.ResolveOptions
	timeout  time.Duration

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	waypoints []domain.Coordinate
	state     RouteState
	updates   chan RouteState
	closed    bool
}

// NewRouteWatcher creates an idle watcher. timeout bounds every individual
// resolution; zero or negative falls back to 10 seconds so an unresponsive
// routing service can never pin the watcher in Loading forever.
func NewRouteWatcher(resolver ports.RouteResolver, opts ports.ResolveOptions, timeout time.Duration) *RouteWatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RouteWatcher{
		resolver: resolver,
		opts:     opts,
		timeout:  timeout,
		updates:  make(chan RouteState, 1),
	}
}

// Update feeds the watcher a new origin and stop set. Inputs equal by value
// to the previous ones are a no-op. Fewer than two valid waypoints resets
// the watcher to idle (and abandons any in-flight resolution); otherwise a
// fresh resolution starts for the valid points of the new input generation.
func (w *RouteWatcher) Update(origin domain.Coordinate, stops []domain.Coordinate) {
	waypoints := make([]domain.Coordinate, 0, 1+len(stops))
	waypoints = append(waypoints, origin)
	waypoints = append(waypoints, stops...)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if equalWaypoints(waypoints, w.waypoints) {
		return
	}
	w.waypoints = waypoints
	w.startLocked()
}

// Refetch forces a re-resolution of the current inputs, e.g. after a
// transient failure.
func (w *RouteWatcher) Refetch() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.startLocked()
}

// startLocked supersedes any in-flight resolution and begins a new one for
// the current waypoints. Invalid coordinates (a GPS fix not yet acquired, an
// unset stop) are dropped rather than sent to the resolver; fewer than two
// valid waypoints resets to idle. Caller holds w.mu.
func (w *RouteWatcher) startLocked() {
	w.gen++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	waypoints := validWaypoints(w.waypoints)
	if len(waypoints) < 2 {
		w.state = RouteState{}
		w.publishLocked()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	w.cancel = cancel

	w.state.Loading = true
	w.state.Err = ""
	w.publishLocked()

	gen := w.gen
	go func() {
		defer cancel()
		route, err := w.resolver.Resolve(ctx, waypoints, w.opts)
		w.apply(gen, route, err)
	}()
}

// apply writes a resolution outcome, unless the watcher moved on to newer
// inputs or was closed while the call was in flight.
func (w *RouteWatcher) apply(gen uint64, route *domain.ResolvedRoute, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || gen != w.gen {
		return
	}

	if err != nil {
		w.state = RouteState{Err: err.Error()}
		w.publishLocked()
		return
	}

	w.state = RouteState{
		Coords: route.Coordinates,
		Info: &RouteInfo{
			DistanceKm:  route.DistanceKm,
			DurationMin: route.DurationMin,
		},
		Legs: route.Legs,
	}
	w.publishLocked()
}

// State returns the current snapshot.
func (w *RouteWatcher) State() RouteState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Updates delivers state snapshots. The channel holds only the latest
// snapshot: a slow consumer observes the newest state, never a backlog. It
// is closed by Close.
func (w *RouteWatcher) Updates() <-chan RouteState {
	return w.updates
}

// Close abandons any in-flight resolution and suppresses all further state
// writes. Safe to call more than once.
func (w *RouteWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.gen++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	close(w.updates)
}

// publishLocked replaces the buffered snapshot, latest-wins. Caller holds w.mu.
func (w *RouteWatcher) publishLocked() {
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- w.state:
	default:
	}
}

func equalWaypoints(a, b []domain.Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func validWaypoints(waypoints []domain.Coordinate) []domain.Coordinate {
	valid := make([]domain.Coordinate, 0, len(waypoints))
	for _, c := range waypoints {
		if c.Valid() {
			valid = append(valid, c)
		}
	}
	return valid
}
