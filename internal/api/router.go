package api

import (
	"net/http"
	"time"

	"courier-route-service/internal/api/handlers"
	"courier-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(resolver ports.RouteResolver, resolveTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Resolver: resolver}
	feeHandler := &handlers.FeeHandler{}
	streamHandler := &handlers.StreamHandler{
		Resolver:       resolver,
		ResolveTimeout: resolveTimeout,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/plan", routeHandler.Plan)
	mux.HandleFunc("/routes/resolve", routeHandler.Resolve)
	mux.HandleFunc("/routes/decode", routeHandler.Decode)
	mux.HandleFunc("/routes/stream", streamHandler.Stream)
	mux.HandleFunc("/fees/quote", feeHandler.Quote)

	return requestIDMiddleware(loggingMiddleware(mux))
}
