package rational

import "errors"

// Error kinds raised by construction, parsing and arithmetic. Callers match
// them with errors.Is; the concrete errors wrap these with context.
var (
	// ErrFormat reports numeric text that cannot be parsed.
	ErrFormat = errors.New("invalid number format")

	// ErrDivideByZero reports a zero denominator at construction or a zero
	// divisor during an operation.
	ErrDivideByZero = errors.New("division by zero")

	// ErrDomain reports an argument outside an operation's domain, such as
	// the square root of a negative number or a non-finite float lift.
	ErrDomain = errors.New("domain error")
)
