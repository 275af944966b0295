package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"courier-route-service/internal/adapters/routing"
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
)

func newTestServer(t *testing.T, resolver *routing.MockResolver) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(resolver, 10*time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &routing.MockResolver{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestPlanEndpoint(t *testing.T) {
	srv := newTestServer(t, &routing.MockResolver{})

	body := `{
		"origin": {"lat": 0, "lon": 0},
		"pickups": [
			{"id": "r2", "lat": 0, "lon": 2},
			{"id": "r1", "lat": 0, "lon": 1}
		],
		"dropoffs": [
			{"id": "c1", "lat": 0, "lon": 3}
		]
	}`
	resp := postJSON(t, srv.URL+"/routes/plan", body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var plan dto.PlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	wantOrder := []string{"r1", "r2", "c1"}
	if len(plan.Stops) != len(wantOrder) {
		t.Fatalf("stop count = %d, want %d", len(plan.Stops), len(wantOrder))
	}
	for i, id := range wantOrder {
		if plan.Stops[i].ID != id {
			t.Errorf("stop %d = %q, want %q", i, plan.Stops[i].ID, id)
		}
	}
	if plan.TotalDistanceKm <= 0 || plan.EstimatedMinutes <= 0 {
		t.Errorf("metrics not populated: %+v", plan)
	}
}

func TestPlanEndpointRejectsBadOrigin(t *testing.T) {
	srv := newTestServer(t, &routing.MockResolver{})

	resp := postJSON(t, srv.URL+"/routes/plan", `{"origin": {"lat": 99, "lon": 0}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResolveEndpoint(t *testing.T) {
	resolver := &routing.MockResolver{
		Route: &domain.ResolvedRoute{
			Coordinates: []domain.Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}},
			DistanceKm:  1.2345,
			DurationMin: 3,
			Legs:        []domain.RouteLeg{{Index: 0, DistanceKm: 1.2345, DurationMin: 3}},
		},
	}
	srv := newTestServer(t, resolver)

	resp := postJSON(t, srv.URL+"/routes/resolve",
		`{"waypoints": [{"lat": 0, "lon": 0}, {"lat": 0, "lon": 1}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var route dto.ResolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if route.DistanceKm != 1.2345 || len(route.Legs) != 1 {
		t.Errorf("response = %+v, want mock route", route)
	}
}

func TestResolveEndpointInsufficientWaypoints(t *testing.T) {
	srv := newTestServer(t, &routing.MockResolver{})

	resp := postJSON(t, srv.URL+"/routes/resolve", `{"waypoints": [{"lat": 0, "lon": 0}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" {
		t.Error("failure response missing error message")
	}
}

func TestDecodeEndpoint(t *testing.T) {
	srv := newTestServer(t, &routing.MockResolver{})

	resp := postJSON(t, srv.URL+"/routes/decode", `{"polyline": "_p~iF~ps|U_ulLnnqC"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var decoded dto.DecodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(decoded.Coordinates) != 2 {
		t.Fatalf("decoded %d points, want 2", len(decoded.Coordinates))
	}

	resp = postJSON(t, srv.URL+"/routes/decode", `{"polyline": "_p~iF~ps|"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("truncated polyline: status = %d, want 400", resp.StatusCode)
	}
}

func TestFeeQuoteEndpoint(t *testing.T) {
	srv := newTestServer(t, &routing.MockResolver{})

	resp, err := http.Get(srv.URL + "/fees/quote?distance_km=3.5")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var quote dto.FeeQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if quote.Fee == nil || math.Abs(*quote.Fee-110.0) > 1e-9 {
		t.Fatalf("fee = %v, want 110.0", quote.Fee)
	}

	// Unknown distance quotes a null fee.
	resp2, err := http.Get(srv.URL + "/fees/quote")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp2.Body.Close()

	var nullQuote dto.FeeQuoteResponse
	if err := json.NewDecoder(resp2.Body).Decode(&nullQuote); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if nullQuote.Fee != nil {
		t.Fatalf("fee for unknown distance = %v, want null", *nullQuote.Fee)
	}

	// Present but unparseable distance is a client error.
	resp3, err := http.Get(srv.URL + "/fees/quote?distance_km=abc")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp3.StatusCode)
	}
}
