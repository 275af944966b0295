package routing

import (
	"fmt"
	"math"
	"strings"

	"courier-route-service/internal/domain"
)

// polylineScale is the fixed coordinate precision of the encoded polyline
// format (5 decimal places).
const polylineScale = 1e5

// DecodePolyline decodes a compact ASCII polyline (signed-varint zig-zag
// delta encoding, 5-bit chunks, 1e5 scale) into a coordinate list. This is
// the encoding used by OSRM and Google-style directions APIs for
// pre-computed route geometry.
//
// The decoder walks the string left to right, accumulating latitude and
// longitude deltas independently. Truncated input is an error; decoding any
// validly-encoded string is lossless at the format's 1e-5 precision.
func DecodePolyline(encoded string) ([]domain.Coordinate, error) {
	coords := make([]domain.Coordinate, 0, len(encoded)/4)

	var lat, lon int64
	pos := 0
	for pos < len(encoded) {
		dLat, next, err := decodeDelta(encoded, pos)
		if err != nil {
			return nil, err
		}
		lat += dLat

		dLon, next, err := decodeDelta(encoded, next)
		if err != nil {
			return nil, err
		}
		lon += dLon
		pos = next

		coords = append(coords, domain.Coordinate{
			Lat: float64(lat) / polylineScale,
			Lon: float64(lon) / polylineScale,
		})
	}

	return coords, nil
}

// decodeDelta reads one signed value starting at pos: 5-bit groups, low to
// high, each carrying a continuation bit, then zig-zag sign decoding.
func decodeDelta(encoded string, pos int) (int64, int, error) {
	var result int64
	var shift uint

	for {
		if pos >= len(encoded) {
			return 0, 0, fmt.Errorf("truncated polyline at byte %d", pos)
		}
		b := int64(encoded[pos]) - 63
		if b < 0 {
			return 0, 0, fmt.Errorf("invalid polyline byte %q at %d", encoded[pos], pos)
		}
		pos++

		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}

// EncodePolyline is the inverse of DecodePolyline. It exists for symmetry in
// tests and for callers that hand geometry back to services speaking the
// encoded format.
func EncodePolyline(coords []domain.Coordinate) string {
	var sb strings.Builder

	var prevLat, prevLon int64
	for _, c := range coords {
		lat := int64(math.Round(c.Lat * polylineScale))
		lon := int64(math.Round(c.Lon * polylineScale))

		encodeDelta(&sb, lat-prevLat)
		encodeDelta(&sb, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return sb.String()
}

func encodeDelta(sb *strings.Builder, delta int64) {
	v := delta << 1
	if delta < 0 {
		v = ^v
	}
	for v >= 0x20 {
		sb.WriteByte(byte((0x20 | (v & 0x1f)) + 63))
		v >>= 5
	}
	sb.WriteByte(byte(v + 63))
}
