package calculator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"exactcalc/internal/handlers"
	"exactcalc/internal/observability"
	"exactcalc/internal/rational"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// displayDigits is the rendering precision for results. The computation
// itself is exact; only the decimal string is bounded.
const displayDigits = 32

// ---------------------------------------------------------------------------
// Handlers — binary operations
// ---------------------------------------------------------------------------

// Add handles POST /calculator/add
func Add(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "add", func(a, b rational.Number) (rational.Number, error) {
		return a.Add(b), nil
	})
}

// Subtract handles POST /calculator/subtract
func Subtract(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "subtract", func(a, b rational.Number) (rational.Number, error) {
		return a.Sub(b), nil
	})
}

// Multiply handles POST /calculator/multiply
func Multiply(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "multiply", func(a, b rational.Number) (rational.Number, error) {
		return a.Mul(b), nil
	})
}

// Divide handles POST /calculator/divide — the one binary operation that can
// fail, which exercises error recording on spans.
func Divide(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "divide", func(a, b rational.Number) (rational.Number, error) {
		return a.Div(b)
	})
}

// handleBinaryOp is the shared implementation for all binary calculator
// operations: parse both operands exactly, compute, and answer with the
// decimal rendering plus the exact fraction. It records a custom child span,
// span attributes and events, custom metrics, and one trace-correlated log
// line per operation.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, opName string, compute func(a, b rational.Number) (rational.Number, error)) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	a, err := rational.Parse(req.A)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid operand a", err, http.StatusBadRequest, w)
		return
	}
	b, err := rational.Parse(req.B)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid operand b", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operand.a", req.A),
		attribute.String("calculator.operand.b", req.B),
	)

	start := time.Now()
	result, err := compute(a, b)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result.Float64(), attrs)

	rendered := result.DecimalString(displayDigits)
	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", rendered),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", rendered))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.String("a", req.A),
		zap.String("b", req.B),
		zap.String("result", rendered),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	writeJSON(w, CalcResponse{
		Operation:   opName,
		A:           req.A,
		B:           req.B,
		Result:      rendered,
		Numerator:   result.Num().String(),
		Denominator: result.Denom().String(),
	})
}

// ---------------------------------------------------------------------------
// Handler — square root
// ---------------------------------------------------------------------------

// Sqrt handles POST /calculator/sqrt
func Sqrt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.sqrt",
		trace.WithAttributes(
			attribute.String("calculator.operation", "sqrt"),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req UnaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "sqrt", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	v, err := rational.Parse(req.Value)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "sqrt", "invalid operand", err, http.StatusBadRequest, w)
		return
	}
	span.SetAttributes(attribute.String("calculator.operand", req.Value))

	start := time.Now()
	result, err := v.Sqrt()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "sqrt", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", "sqrt"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result.Float64(), attrs)

	rendered := result.DecimalString(displayDigits)
	span.SetAttributes(attribute.String("calculator.result", rendered))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", "sqrt"),
		zap.String("value", req.Value),
		zap.String("result", rendered),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	writeJSON(w, UnaryResponse{
		Operation:   "sqrt",
		Value:       req.Value,
		Result:      rendered,
		Numerator:   result.Num().String(),
		Denominator: result.Denom().String(),
	})
}

// ---------------------------------------------------------------------------
// Handler — chained operations
// ---------------------------------------------------------------------------

// Chain handles POST /calculator/chain — runs a sequence of operations on an
// exact running total, creating a child span for every step. Intermediate
// values never round, so chains like /3 then *3 recover the input exactly.
func Chain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Steps) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "no steps provided", fmt.Errorf("steps array is empty"), http.StatusBadRequest, w)
		return
	}

	running, err := rational.Parse(req.Initial)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid initial value", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("chain.initial", req.Initial),
		attribute.Int("chain.steps_count", len(req.Steps)),
	)

	logger.Info("starting chained calculation",
		zap.String("initial", req.Initial),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	results := make([]ChainResult, 0, len(req.Steps))

	for i, step := range req.Steps {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.chain.step.%d.%s", i, step.Op),
			trace.WithAttributes(
				attribute.Int("chain.step.index", i),
				attribute.String("chain.step.operation", step.Op),
				attribute.String("chain.step.input", running.DecimalString(displayDigits)),
				attribute.String("chain.step.value", step.Value),
			),
		)

		stepStart := time.Now()
		prev := running

		operand, err := rational.Parse(step.Value)
		if err == nil {
			switch step.Op {
			case "add":
				running = running.Add(operand)
			case "subtract":
				running = running.Sub(operand)
			case "multiply":
				running = running.Mul(operand)
			case "divide":
				running, err = running.Div(operand)
			default:
				err = fmt.Errorf("unknown operation %q at step %d", step.Op, i)
			}
		}

		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0

		if err != nil {
			// Record the failure on the child step span and the parent.
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("failed at step %d", i))

			errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", step.Op)))

			logger.Error("chain step failed",
				zap.Int("step", i),
				zap.String("operation", step.Op),
				zap.Error(err),
				zap.String("request_id", requestID),
			)

			handlers.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		attrs := metric.WithAttributes(attribute.String("operation", step.Op))
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, stepElapsed, attrs)

		rendered := running.DecimalString(displayDigits)
		stepSpan.AddEvent("step.complete", trace.WithAttributes(
			attribute.String("input", prev.DecimalString(displayDigits)),
			attribute.String("result", rendered),
		))
		stepSpan.SetAttributes(attribute.String("chain.step.result", rendered))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		logger.Info("chain step completed",
			zap.Int("step", i),
			zap.String("operation", step.Op),
			zap.String("value", step.Value),
			zap.String("result", rendered),
			zap.Float64("duration_ms", stepElapsed),
		)

		results = append(results, ChainResult{
			Op:     step.Op,
			Value:  step.Value,
			Result: rendered,
		})
	}

	resultGauge.Record(ctx, running.Float64(), metric.WithAttributes(attribute.String("operation", "chain")))

	rendered := running.DecimalString(displayDigits)
	span.AddEvent("chain.complete", trace.WithAttributes(
		attribute.String("final_result", rendered),
		attribute.Int("total_steps", len(req.Steps)),
	))
	span.SetAttributes(attribute.String("chain.result", rendered))
	span.SetStatus(codes.Ok, "")

	logger.Info("chained calculation completed",
		zap.String("initial", req.Initial),
		zap.String("result", rendered),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	writeJSON(w, ChainResponse{
		Initial:     req.Initial,
		Steps:       results,
		Result:      rendered,
		Numerator:   running.Num().String(),
		Denominator: running.Denom().String(),
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}
