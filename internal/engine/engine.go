// Package engine implements the calculation state machine: digit entry into
// an exact rational current value, a single pending binary operator, an
// accumulated expression trace, and a sticky error state that only Clear and
// ClearEntry can leave. The engine does no I/O and never logs; callers read
// its display, expression and error outputs after each call.
package engine

import (
	"errors"
	"math"
	"strings"

	"exactcalc/internal/rational"
)

// User-visible error messages. The display shows these in place of a value
// until the error state is cleared.
const (
	msgInvalidInput = "Invalid input"
	msgDivideByZero = "Cannot divide by zero"
	msgLogDomain    = "Invalid input for logarithm"
)

// Engine is a single calculation session. It is not safe for concurrent use;
// callers serialize access to one instance.
type Engine struct {
	mode     Mode
	current  rational.Number
	previous rational.Number
	pending  Op // "" when no operator is outstanding
	trace    strings.Builder
	entry    string // digit entry buffer, re-parsed on every append
	fresh    bool   // next digit starts a new number
	failed   bool
	failMsg  string

	// onResult, when set, observes every completed calculation: an Equals
	// that resolved a pending operator, or a successful unary operation.
	onResult func(expression string, result rational.Number)
}

// New returns an engine in the given mode with a zero current value.
func New(mode Mode) *Engine {
	if mode == "" {
		mode = ModeStandard
	}
	return &Engine{
		mode:     mode,
		current:  rational.Zero(),
		previous: rational.Zero(),
	}
}

// NotifyResult registers fn to receive completed expression/result pairs,
// which is how the history log observes the engine. Error outcomes are never
// reported.
func (e *Engine) NotifyResult(fn func(expression string, result rational.Number)) {
	e.onResult = fn
}

// InputDigit appends a single digit '0'-'9' or '.' to the number being
// entered. While errored it is inert. The first digit after an operator or
// equals starts a fresh number, a second '.' in the same number is silently
// ignored, and the full entry text is re-parsed after every append.
func (e *Engine) InputDigit(ch rune) {
	if e.failed {
		return
	}
	if e.fresh {
		e.entry = ""
		e.fresh = false
	}
	if ch == '.' && strings.ContainsRune(e.entry, '.') {
		return
	}
	next := e.entry + string(ch)
	if next == "." {
		next = "0."
	}
	v, err := rational.Parse(next)
	if err != nil {
		e.fail(msgInvalidInput)
		return
	}
	e.entry = next
	e.current = v
}

// PerformOperation dispatches one operation. While errored everything except
// Clear and ClearEntry is ignored. Failures raised during dispatch never
// escape; they land in the sticky error state with a human-readable message.
func (e *Engine) PerformOperation(op Op) {
	if e.failed && op != OpClear && op != OpClearEntry {
		return
	}
	switch op {
	case OpClear:
		e.current = rational.Zero()
		e.previous = rational.Zero()
		e.pending = ""
		e.trace.Reset()
		e.entry = ""
		e.fresh = false
		e.failed = false
		e.failMsg = ""
	case OpClearEntry:
		e.current = rational.Zero()
		e.entry = ""
		e.fresh = false
		e.failed = false
		e.failMsg = ""
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower:
		e.captureBinary(op)
	case OpEquals:
		if e.pending == "" {
			return
		}
		if !e.resolvePending() {
			return
		}
		if e.onResult != nil {
			e.onResult(e.CompleteExpression(), e.current)
		}
	default:
		e.applyUnary(op)
	}
}

// captureBinary fixes the left operand of op. An already-pending operator is
// resolved first, so "1 / 3 *" evaluates the division before capturing the
// multiplication.
func (e *Engine) captureBinary(op Op) {
	if scientificOnly[op] && e.mode != ModeScientific {
		return
	}
	if e.pending != "" {
		if !e.resolvePending() {
			return
		}
		e.trace.WriteString(" ")
	}
	e.trace.WriteString(e.render(e.current) + " " + opSymbols[op] + " ")
	e.previous = e.current
	e.pending = op
	e.entry = ""
	e.fresh = true
}

// resolvePending applies the pending operator to (previous, current),
// appending the right-hand operand to the trace. It reports whether the
// resolution succeeded; on failure the engine is already in the error state.
// A pending Power outside scientific mode resolves to a silent no-op.
func (e *Engine) resolvePending() bool {
	if e.pending == OpPower && e.mode != ModeScientific {
		return false
	}
	result, err := applyBinary(e.pending, e.previous, e.current)
	if err != nil {
		e.failFromError(err)
		return false
	}
	e.trace.WriteString(e.render(e.current))
	e.current = result
	e.pending = ""
	e.entry = ""
	e.fresh = true
	return true
}

func applyBinary(op Op, a, b rational.Number) (rational.Number, error) {
	switch op {
	case OpAdd:
		return a.Add(b), nil
	case OpSubtract:
		return a.Sub(b), nil
	case OpMultiply:
		return a.Mul(b), nil
	case OpDivide:
		return a.Div(b)
	case OpPower:
		// The one binary path that is not exact: evaluated in float64 and
		// lifted back into the rational representation.
		return rational.FromFloat64(math.Pow(a.Float64(), b.Float64()))
	default:
		return rational.Number{}, errors.New(msgInvalidInput)
	}
}

// applyUnary applies a unary operator to the current value. Scientific-only
// operators are silent no-ops in standard mode. Sin/Cos/Tan/Log/Log10/Exp
// take the float64 detour and are lifted back into the exact representation.
func (e *Engine) applyUnary(op Op) {
	if scientificOnly[op] && e.mode != ModeScientific {
		return
	}

	v := e.current
	disp := e.render(v)

	var (
		result   rational.Number
		err      error
		fragment string
	)
	switch op {
	case OpNegate:
		result = v.Neg()
		fragment = "negate(" + disp + ")"
	case OpPercent:
		result, err = v.Div(rational.FromInt64(100))
		fragment = "percent(" + disp + ")"
	case OpReciprocal:
		result, err = rational.One().Div(v)
		fragment = "1/(" + disp + ")"
	case OpSqrt:
		result, err = v.Sqrt()
		fragment = "sqrt(" + disp + ")"
	case OpSin:
		result, err = rational.FromFloat64(math.Sin(v.Float64()))
		fragment = "sin(" + disp + ")"
	case OpCos:
		result, err = rational.FromFloat64(math.Cos(v.Float64()))
		fragment = "cos(" + disp + ")"
	case OpTan:
		result, err = rational.FromFloat64(math.Tan(v.Float64()))
		fragment = "tan(" + disp + ")"
	case OpExp:
		result, err = rational.FromFloat64(math.Exp(v.Float64()))
		fragment = "exp(" + disp + ")"
	case OpLog:
		if v.Sign() <= 0 {
			e.fail(msgLogDomain)
			return
		}
		result, err = rational.FromFloat64(math.Log(v.Float64()))
		fragment = "log(" + disp + ")"
	case OpLog10:
		if v.Sign() <= 0 {
			e.fail(msgLogDomain)
			return
		}
		result, err = rational.FromFloat64(math.Log10(v.Float64()))
		fragment = "log10(" + disp + ")"
	default:
		return
	}
	if err != nil {
		e.failFromError(err)
		return
	}

	e.trace.WriteString(fragment)
	e.current = result
	e.entry = ""
	e.fresh = true
	if e.onResult != nil {
		e.onResult(e.CompleteExpression(), e.current)
	}
}

// SetCurrentValue injects a value from text, as when recalling a history
// entry. An unparseable value sets the error state; while errored the call is
// ignored like any other non-clear operation.
func (e *Engine) SetCurrentValue(text string) {
	if e.failed {
		return
	}
	v, err := rational.Parse(text)
	if err != nil {
		e.fail(msgInvalidInput)
		return
	}
	e.setValue(v)
}

// SetValue injects an exact value directly, bypassing text parsing.
func (e *Engine) SetValue(v rational.Number) {
	if e.failed {
		return
	}
	e.setValue(v)
}

func (e *Engine) setValue(v rational.Number) {
	e.current = v
	e.entry = ""
	e.fresh = true
}

// Display returns the error message while errored, otherwise the current
// value rendered at the mode's display precision.
func (e *Engine) Display() string {
	if e.failed {
		return e.failMsg
	}
	return e.render(e.current)
}

// Expression returns the accumulated trace text.
func (e *Engine) Expression() string {
	return e.trace.String()
}

// CompleteExpression returns the trace with " = <value>" appended unless the
// trace already ends with '='. Collaborators use it to log a finished
// calculation.
func (e *Engine) CompleteExpression() string {
	trimmed := strings.TrimSpace(e.trace.String())
	if trimmed == "" {
		return e.render(e.current)
	}
	if strings.HasSuffix(trimmed, "=") {
		return e.trace.String()
	}
	return trimmed + " = " + e.render(e.current)
}

// HasError reports whether the engine is in the sticky error state.
func (e *Engine) HasError() bool {
	return e.failed
}

// Value returns the current exact value.
func (e *Engine) Value() rational.Number {
	return e.current
}

// Mode returns the active mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// SetMode switches between standard and scientific. Only the display
// precision and the permitted operator set change; the calculation in
// progress is untouched.
func (e *Engine) SetMode(m Mode) {
	e.mode = m
}

func (e *Engine) render(v rational.Number) string {
	return v.DecimalString(e.mode.Precision())
}

func (e *Engine) fail(msg string) {
	e.failed = true
	e.failMsg = msg
}

// failFromError maps a rational-package failure onto the user-visible
// message vocabulary.
func (e *Engine) failFromError(err error) {
	switch {
	case errors.Is(err, rational.ErrDivideByZero):
		e.fail(msgDivideByZero)
	case errors.Is(err, rational.ErrFormat):
		e.fail(msgInvalidInput)
	default:
		e.fail(err.Error())
	}
}
