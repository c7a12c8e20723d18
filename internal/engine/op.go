package engine

import "fmt"

// Mode selects the display precision and the permitted operator set.
type Mode string

const (
	ModeStandard   Mode = "standard"
	ModeScientific Mode = "scientific"
)

// ParseMode converts a mode token from config or an API body.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStandard, ModeScientific:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Precision returns the number of fractional digits rendered in this mode.
func (m Mode) Precision() int {
	if m == ModeScientific {
		return 32
	}
	return 16
}

// Op names a calculator operation. The engine accepts canonical names only;
// key aliases are resolved by the keymap package.
type Op string

const (
	OpAdd        Op = "add"
	OpSubtract   Op = "subtract"
	OpMultiply   Op = "multiply"
	OpDivide     Op = "divide"
	OpPower      Op = "power"
	OpEquals     Op = "equals"
	OpClear      Op = "clear"
	OpClearEntry Op = "clear-entry"
	OpNegate     Op = "negate"
	OpPercent    Op = "percent"
	OpReciprocal Op = "reciprocal"
	OpSqrt       Op = "sqrt"
	OpSin        Op = "sin"
	OpCos        Op = "cos"
	OpTan        Op = "tan"
	OpLog        Op = "log"
	OpLog10      Op = "log10"
	OpExp        Op = "exp"
)

// opSymbols are the trace symbols for the binary operators.
var opSymbols = map[Op]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
	OpPower:    "^",
}

// scientificOnly lists the operators gated behind ModeScientific. In
// ModeStandard these are silent no-ops, not errors.
var scientificOnly = map[Op]bool{
	OpPower: true,
	OpSqrt:  true,
	OpSin:   true,
	OpCos:   true,
	OpTan:   true,
	OpLog:   true,
	OpLog10: true,
	OpExp:   true,
}

// ParseOp validates an operation token.
func ParseOp(s string) (Op, bool) {
	switch Op(s) {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower, OpEquals,
		OpClear, OpClearEntry, OpNegate, OpPercent, OpReciprocal,
		OpSqrt, OpSin, OpCos, OpTan, OpLog, OpLog10, OpExp:
		return Op(s), true
	default:
		return "", false
	}
}
