// Package server exposes the analysis engine and test history over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// NewRouter registers every API route.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/analyze", WithLogging(h.Analyze))
	mux.HandleFunc("POST /api/diff", WithLogging(h.Diff))

	mux.HandleFunc("POST /api/tests", WithLogging(h.CreateTest))
	mux.HandleFunc("GET /api/tests", WithLogging(h.ListTests))
	mux.HandleFunc("GET /api/tests/summary", WithLogging(h.Summary))
	mux.HandleFunc("GET /api/tests/{id}", WithLogging(h.GetTest))
	mux.HandleFunc("DELETE /api/tests/{id}", WithLogging(h.DeleteTest))
	mux.HandleFunc("GET /api/tests/{id}/report", WithLogging(h.Report))

	return CORS(mux)
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		slog.Info("server closed")
		return nil
	}
}
