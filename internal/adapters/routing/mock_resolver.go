package routing

import (
	"context"
	"errors"
	"sync"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
)

// MockResolver returns a canned route or error for tests and offline use.
// Safe for concurrent use.
type MockResolver struct {
	Route *domain.ResolvedRoute
	Err   error

	mu    sync.Mutex
	calls int
}

func (m *MockResolver) Resolve(
	ctx context.Context,
	waypoints []domain.Coordinate,
	opts ports.ResolveOptions,
) (*domain.ResolvedRoute, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if len(waypoints) < 2 {
		return nil, ErrInsufficientWaypoints
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Route == nil {
		return nil, errors.New("mock resolver has no route configured")
	}
	return m.Route, nil
}

// CallCount reports how many times Resolve has been invoked.
func (m *MockResolver) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
