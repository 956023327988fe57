package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/katalvlaran/lvroute/codec"
	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/geometry"
	"github.com/katalvlaran/lvroute/planner"
	"github.com/katalvlaran/lvroute/store"
)

const maxBody = 8 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	return nil
}

var errBadRequest = errors.New("invalid request body")

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, core.ErrInvalidOperation),
		errors.Is(err, geometry.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidName),
		errors.Is(err, planner.ErrUnknownAlgorithm),
		errors.Is(err, codec.ErrBadIndex),
		errors.Is(err, codec.ErrBadReference),
		errors.Is(err, codec.ErrSelfLoop),
		errors.Is(err, codec.ErrNilDocument):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNodeNotFound),
		errors.Is(err, core.ErrTargetNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, errJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoRoute),
		errors.Is(err, planner.ErrStartNotSet),
		errors.Is(err, planner.ErrEndNotSet),
		errors.Is(err, planner.ErrNoTargets),
		errors.Is(err, planner.ErrDisconnectedNode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", lrw.statusCode),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// local editors only
		if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:") {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
