package routing

import (
	"math"
	"testing"

	"courier-route-service/internal/domain"
)

func TestDecodePolylineKnownVector(t *testing.T) {
	// Reference vector from the polyline algorithm documentation.
	coords, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Coordinate{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}

	if len(coords) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(coords), len(want))
	}
	for i := range want {
		if math.Abs(coords[i].Lat-want[i].Lat) > 1e-5 || math.Abs(coords[i].Lon-want[i].Lon) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, coords[i], want[i])
		}
	}
}

func TestPolylineRoundTrip(t *testing.T) {
	original := []domain.Coordinate{
		{Lat: 25.03302, Lon: 121.56542},
		{Lat: 25.04201, Lon: 121.55301},
		{Lat: -33.86882, Lon: 151.20930},
		{Lat: 0, Lon: 0},
		{Lat: 0.00001, Lon: -0.00001},
	}

	decoded, err := DecodePolyline(EncodePolyline(original))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(decoded) != len(original) {
		t.Fatalf("round trip changed point count: %d -> %d", len(original), len(decoded))
	}
	for i := range original {
		if math.Abs(decoded[i].Lat-original[i].Lat) > 1e-5 || math.Abs(decoded[i].Lon-original[i].Lon) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v (within 1e-5)", i, decoded[i], original[i])
		}
	}
}

func TestDecodePolylineEmpty(t *testing.T) {
	coords, err := DecodePolyline("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coords) != 0 {
		t.Fatalf("decoded %d points from empty input, want 0", len(coords))
	}
}

func TestDecodePolylineTruncated(t *testing.T) {
	// Drop the final byte of a valid single-point encoding: the longitude
	// value is left without its terminating group.
	if _, err := DecodePolyline("_p~iF~ps|"); err == nil {
		t.Fatal("expected error for truncated polyline")
	}

	// Continuation bit set on the very last byte.
	if _, err := DecodePolyline("_"); err == nil {
		t.Fatal("expected error for dangling continuation")
	}
}

func TestDecodePolylineInvalidByte(t *testing.T) {
	if _, err := DecodePolyline("\x1f\x1f"); err == nil {
		t.Fatal("expected error for byte below the encoding range")
	}
}
