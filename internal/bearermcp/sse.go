package bearermcp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bearer-community/bearer-mcp/internal/config"
)

// RunSSE serves the MCP server over SSE. Each client connection gets its own
// server instance; all of them share the immutable cfg. The listener shuts
// down when ctx is cancelled.
func RunSSE(ctx context.Context, version string, cfg *config.Config) error {
	handler := mcp.NewSSEHandler(func(*http.Request) *mcp.Server {
		return NewServer(version, cfg)
	})

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	r.Get("/", statusHandler(version, cfg))
	r.Get("/health", healthHandler)
	r.Mount("/sse", handler)

	srv := &http.Server{
		Addr:              cfg.SSEAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("sse server shutdown: %v", err)
		}
	}()

	log.Printf("Starting SSE server on %s", cfg.SSEAddr())
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "sse server")
	}
	return nil
}

func statusHandler(version string, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"name":             serverName,
			"version":          version,
			"status":           "running",
			"transport":        "sse",
			"endpoint":         "/sse",
			"workingDirectory": cfg.WorkingDir,
		})
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write status response: %v", err)
	}
}
