package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/services"
)

// FeeHandler exposes delivery fee quotes.
type FeeHandler struct{}

// Quote returns the tiered delivery fee for a distance. An absent
// distance_km parameter means "distance unknown" and quotes a null fee; a
// present but unparseable one is a client error.
func (h *FeeHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("distance_km"))

	var distanceKm *float64
	if raw != "" {
		km, err := strconv.ParseFloat(raw, 64)
		if err != nil || km < 0 {
			writeError(w, r, http.StatusBadRequest, "distance_km must be a non-negative number")
			return
		}
		distanceKm = &km
	}

	res := dto.FeeQuoteResponse{
		DistanceKm: distanceKm,
		Fee:        services.DeliveryFeeQuote(distanceKm),
	}

	writeJSON(w, r, http.StatusOK, res)
}
