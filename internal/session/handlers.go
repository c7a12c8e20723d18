package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"exactcalc/internal/engine"
	"exactcalc/internal/history"
	"exactcalc/internal/keymap"
	"exactcalc/internal/observability"
	"exactcalc/internal/rational"
)

// tracer is the session feature's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("session")

// API is the HTTP surface over the session registry. Rejected engine input is
// not an HTTP error: the engine swallows it (silent no-op or sticky error
// state) and the handler returns the resulting state with 200, mirroring the
// display contract. HTTP errors are reserved for malformed requests and
// unknown sessions.
type API struct {
	sessions *Manager
}

// NewAPI returns the handler set backed by m.
func NewAPI(m *Manager) *API {
	return &API{sessions: m}
}

// RegisterRoutes mounts the session endpoints under /sessions.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", a.Create)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", a.Get)
			r.Delete("/", a.Delete)
			r.Post("/digits", a.Digits)
			r.Post("/operations", a.Operations)
			r.Post("/keys", a.Keys)
			r.Get("/value", a.GetValue)
			r.Put("/value", a.PutValue)
			r.Get("/history", a.History)
			r.Post("/history/{index}/recall", a.Recall)
			r.Put("/mode", a.Mode)
		})
	})
}

func (a *API) startSpan(r *http.Request, opName string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	ctx, span := tracer.Start(ctx, "session."+opName,
		trace.WithAttributes(
			attribute.String("session.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return ctx, span, logger
}

// lookup resolves {sessionID}, writing the 404 itself when the session is
// gone.
func (a *API) lookup(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, ok := a.sessions.Get(id)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", fmt.Errorf("no session %q", id), http.StatusNotFound, w)
		return nil, false
	}
	span.SetAttributes(attribute.String("session.id", id))
	return s, true
}

// finish records the success metric, closes out the span, logs one
// completion line and writes the JSON payload.
func finish(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName string, status int, payload any, fields ...zap.Field) {
	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
	span.SetStatus(codes.Ok, "")

	fields = append(fields,
		zap.String("operation", opName),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	logger.Info("session operation completed", fields...)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Create handles POST /sessions
func (a *API) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "create")
	defer span.End()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	var mode engine.Mode
	if req.Mode != "" {
		var err error
		mode, err = engine.ParseMode(req.Mode)
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "create", "unknown mode", err, http.StatusBadRequest, w)
			return
		}
	}

	s, evicted := a.sessions.Create(mode)
	activeSessions.Add(ctx, 1)
	if evicted > 0 {
		activeSessions.Add(ctx, -int64(evicted))
	}
	span.SetAttributes(attribute.String("session.id", s.ID))

	var state stateResponse
	s.Do(func(e *engine.Engine, _ *history.Log) {
		state = stateOf(s.ID, e)
	})
	finish(ctx, span, logger, w, "create", http.StatusCreated, state,
		zap.String("session_id", s.ID),
		zap.Int("evicted", evicted),
	)
}

// Get handles GET /sessions/{sessionID}
func (a *API) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "get")
	defer span.End()

	s, ok := a.lookup(ctx, span, logger, "get", w, r)
	if !ok {
		return
	}

	var state stateResponse
	s.Do(func(e *engine.Engine, _ *history.Log) {
		state = stateOf(s.ID, e)
	})
	finish(ctx, span, logger, w, "get", http.StatusOK, state, zap.String("session_id", s.ID))
}

// Delete handles DELETE /sessions/{sessionID}
func (a *API) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "delete")
	defer span.End()

	id := chi.URLParam(r, "sessionID")
	if !a.sessions.Delete(id) {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", fmt.Errorf("no session %q", id), http.StatusNotFound, w)
		return
	}
	activeSessions.Add(ctx, -1)
	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "delete")))
	span.SetAttributes(attribute.String("session.id", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("session operation completed",
		zap.String("operation", "delete"),
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Digits handles POST /sessions/{sessionID}/digits. A multi-rune digit
// string is fed to the engine one rune at a time.
func (a *API) Digits(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "digits")
	defer span.End()

	var req digitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "digits", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if req.Digit == "" {
		observability.RecordError(ctx, span, logger, errorCounter, "digits", "missing digit", errors.New("digit field is empty"), http.StatusBadRequest, w)
		return
	}

	s, ok := a.lookup(ctx, span, logger, "digits", w, r)
	if !ok {
		return
	}

	var state stateResponse
	s.Do(func(e *engine.Engine, _ *history.Log) {
		for _, ch := range req.Digit {
			e.InputDigit(ch)
		}
		state = stateOf(s.ID, e)
	})
	finish(ctx, span, logger, w, "digits", http.StatusOK, state,
		zap.String("session_id", s.ID),
		zap.String("digit", req.Digit),
	)
}

// Operations handles POST /sessions/{sessionID}/operations
func (a *API) Operations(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "operations")
	defer span.End()

	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "operations", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	op, ok := engine.ParseOp(req.Operation)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, "operations", "unknown operation", fmt.Errorf("operation %q", req.Operation), http.StatusBadRequest, w)
		return
	}
	span.SetAttributes(attribute.String("session.engine_op", string(op)))

	s, found := a.lookup(ctx, span, logger, "operations", w, r)
	if !found {
		return
	}

	var state stateResponse
	s.Do(func(e *engine.Engine, _ *history.Log) {
		e.PerformOperation(op)
		state = stateOf(s.ID, e)
	})
	finish(ctx, span, logger, w, "operations", http.StatusOK, state,
		zap.String("session_id", s.ID),
		zap.String("engine_op", string(op)),
		zap.Bool("engine_error", state.Error),
	)
}

// Keys handles POST /sessions/{sessionID}/keys, feeding raw key tokens
// through the keymap. Unknown tokens are skipped and reported back.
func (a *API) Keys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "keys")
	defer span.End()

	var req keysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	s, ok := a.lookup(ctx, span, logger, "keys", w, r)
	if !ok {
		return
	}
	keyEvents.Add(ctx, int64(len(req.Keys)))
	span.SetAttributes(attribute.Int("session.key_count", len(req.Keys)))

	var resp keysResponse
	s.Do(func(e *engine.Engine, _ *history.Log) {
		applied, unknown := keymap.Apply(e, req.Keys)
		resp = keysResponse{
			stateResponse: stateOf(s.ID, e),
			Applied:       applied,
			Unknown:       unknown,
		}
	})
	finish(ctx, span, logger, w, "keys", http.StatusOK, resp,
		zap.String("session_id", s.ID),
		zap.Int("applied", resp.Applied),
		zap.Int("unknown", len(resp.Unknown)),
	)
}

// GetValue handles GET /sessions/{sessionID}/value. With Accept:
// application/cbor the exact value goes out as a tag-30 rational; otherwise
// JSON carries the components and a decimal rendering.
func (a *API) GetValue(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "value.get")
	defer span.End()

	s, ok := a.lookup(ctx, span, logger, "value.get", w, r)
	if !ok {
		return
	}

	var (
		value   rational.Number
		decimal string
	)
	s.Do(func(e *engine.Engine, _ *history.Log) {
		value = e.Value()
		decimal = value.DecimalString(e.Mode().Precision())
	})

	if strings.Contains(r.Header.Get("Accept"), "application/cbor") {
		data, err := cbor.Marshal(value)
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "value.get", "encoding value", err, http.StatusInternalServerError, w)
			return
		}
		opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "value.get")))
		span.SetStatus(codes.Ok, "")
		logger.Info("session operation completed",
			zap.String("operation", "value.get"),
			zap.String("session_id", s.ID),
			zap.String("request_id", observability.RequestIDFromContext(ctx)),
		)
		w.Header().Set("Content-Type", "application/cbor")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	finish(ctx, span, logger, w, "value.get", http.StatusOK, valueResponse{
		Numerator:   value.Num().String(),
		Denominator: value.Denom().String(),
		Decimal:     decimal,
	}, zap.String("session_id", s.ID))
}

// PutValue handles PUT /sessions/{sessionID}/value. A JSON body is parsed
// through SetCurrentValue, so unparseable text lands in the engine's error
// state rather than a 4xx. A tag-30 CBOR body injects the exact value.
func (a *API) PutValue(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "value.put")
	defer span.End()

	s, ok := a.lookup(ctx, span, logger, "value.put", w, r)
	if !ok {
		return
	}

	var state stateResponse
	if strings.Contains(r.Header.Get("Content-Type"), "application/cbor") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "value.put", "reading request body", err, http.StatusBadRequest, w)
			return
		}
		var v rational.Number
		if err := cbor.Unmarshal(body, &v); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "value.put", "invalid CBOR rational", err, http.StatusBadRequest, w)
			return
		}
		s.Do(func(e *engine.Engine, _ *history.Log) {
			e.SetValue(v)
			state = stateOf(s.ID, e)
		})
	} else {
		var req valueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "value.put", "invalid request body", err, http.StatusBadRequest, w)
			return
		}
		s.Do(func(e *engine.Engine, _ *history.Log) {
			e.SetCurrentValue(req.Value)
			state = stateOf(s.ID, e)
		})
	}

	finish(ctx, span, logger, w, "value.put", http.StatusOK, state, zap.String("session_id", s.ID))
}

// History handles GET /sessions/{sessionID}/history, newest first.
func (a *API) History(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "history")
	defer span.End()

	s, ok := a.lookup(ctx, span, logger, "history", w, r)
	if !ok {
		return
	}

	var entries []historyEntryResponse
	s.Do(func(e *engine.Engine, h *history.Log) {
		entries = historyEntries(e, h)
	})
	finish(ctx, span, logger, w, "history", http.StatusOK, entries,
		zap.String("session_id", s.ID),
		zap.Int("entries", len(entries)),
	)
}

// Recall handles POST /sessions/{sessionID}/history/{index}/recall,
// injecting the exact result of the indexed entry as the current value.
func (a *API) Recall(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "recall")
	defer span.End()

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "recall", "invalid history index", err, http.StatusBadRequest, w)
		return
	}

	s, ok := a.lookup(ctx, span, logger, "recall", w, r)
	if !ok {
		return
	}

	var (
		state stateResponse
		found bool
	)
	s.Do(func(e *engine.Engine, h *history.Log) {
		entry, ok := h.At(index)
		if !ok {
			return
		}
		e.SetValue(entry.Result)
		state = stateOf(s.ID, e)
		found = true
	})
	if !found {
		observability.RecordError(ctx, span, logger, errorCounter, "recall", "history entry not found", fmt.Errorf("index %d out of range", index), http.StatusNotFound, w)
		return
	}
	finish(ctx, span, logger, w, "recall", http.StatusOK, state,
		zap.String("session_id", s.ID),
		zap.Int("index", index),
	)
}

// Mode handles PUT /sessions/{sessionID}/mode. Switching modes keeps the
// calculation in progress; only precision and the permitted operators change.
func (a *API) Mode(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := a.startSpan(r, "mode")
	defer span.End()

	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "mode", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	mode, err := engine.ParseMode(req.Mode)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "mode", "unknown mode", err, http.StatusBadRequest, w)
		return
	}

	s, ok := a.lookup(ctx, span, logger, "mode", w, r)
	if !ok {
		return
	}

	var state stateResponse
	s.Do(func(e *engine.Engine, _ *history.Log) {
		e.SetMode(mode)
		state = stateOf(s.ID, e)
	})
	finish(ctx, span, logger, w, "mode", http.StatusOK, state,
		zap.String("session_id", s.ID),
		zap.String("mode", string(mode)),
	)
}
