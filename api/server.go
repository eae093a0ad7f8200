package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/events"
	"github.com/ironledger/statecore/core/execution"
	"github.com/ironledger/statecore/core/rws"
	"github.com/ironledger/statecore/observability/metrics"
)

// Server wires the Transition Driver up to an HTTP surface: one handler per
// route, backed by a shared world-state store and contract runtime.
type Server struct {
	store   rws.WorldStateStorage
	view    rws.WorldStateView
	runtime *contract.Runtime
	proto   config.Protocol
	emitter events.Emitter
	logger  *slog.Logger
	metrics *metrics.TransitionMetrics
	tracer  trace.Tracer
}

// New constructs a Server. store and view are usually the same backing
// object (e.g. *memws.Store) implementing both interfaces.
func New(store rws.WorldStateStorage, view rws.WorldStateView, rt *contract.Runtime, proto config.Protocol, emitter events.Emitter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Server{
		store:   store,
		view:    view,
		runtime: rt,
		proto:   proto,
		emitter: emitter,
		logger:  logger,
		metrics: metrics.Registry(),
		tracer:  otel.Tracer("transitiond"),
	}
}

// Router builds the chi router exposing /v1/transition, /healthz, and
// /metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/v1/transition", s.handleTransition)
	r.Handle("/metrics", metrics.Handler())

	return r
}

type requestIDKey struct{}

// requestID stamps every request with a UUID, echoed back on the response
// and attached to every log line the handler emits for it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// observe wraps every request in a trace span and records its duration and
// outcome.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := s.tracer.Start(r.Context(), r.URL.Path, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", r.URL.Path),
		))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		s.logger.Info("request handled",
			"request_id", requestIDFrom(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, bd, err := req.decode()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	result := execution.Transition(r.Context(), s.view, s.runtime, tx, bd, s.proto, s.emitter)
	elapsed := time.Since(start).Seconds()

	variant := "v4"
	if tx.Variant == 5 {
		variant = "v5"
	}

	if result.Err != nil {
		s.metrics.ObserveOutcome("rejected", variant, 0, elapsed)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(TransitionResponse{Error: result.Err.Error()})
		return
	}

	if err := s.store.ApplyWriteSet(result.NewWriteSet); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	outcome := "success"
	if result.Receipt != nil && result.Receipt.ExitStatusOverall != 0 {
		outcome = "aborted"
	}
	s.metrics.ObserveOutcome(outcome, variant, result.Receipt.GasUsed, elapsed)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(TransitionResponse{Receipt: encodeReceipt(result.Receipt)})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(TransitionResponse{Error: err.Error()})
}
