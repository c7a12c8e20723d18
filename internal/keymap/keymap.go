// Package keymap maps raw key and button tokens onto engine inputs. It is
// the input-adapter seam between whatever produces key events and the
// engine's digit/operation surface.
package keymap

import "exactcalc/internal/engine"

// Kind discriminates the two action shapes.
type Kind int

const (
	KindDigit Kind = iota
	KindOperation
)

// Action is a resolved key token: either a single digit rune or an
// operation.
type Action struct {
	Kind  Kind
	Digit rune
	Op    engine.Op
}

// opAliases maps operator tokens, including the common button labels, onto
// canonical operations. Digits and '.' are handled separately.
var opAliases = map[string]engine.Op{
	"+":           engine.OpAdd,
	"add":         engine.OpAdd,
	"-":           engine.OpSubtract,
	"sub":         engine.OpSubtract,
	"*":           engine.OpMultiply,
	"x":           engine.OpMultiply,
	"×":           engine.OpMultiply,
	"mul":         engine.OpMultiply,
	"/":           engine.OpDivide,
	"÷":           engine.OpDivide,
	"div":         engine.OpDivide,
	"=":           engine.OpEquals,
	"enter":       engine.OpEquals,
	"equals":      engine.OpEquals,
	"c":           engine.OpClear,
	"clear":       engine.OpClear,
	"ce":          engine.OpClearEntry,
	"clear-entry": engine.OpClearEntry,
	"%":           engine.OpPercent,
	"percent":     engine.OpPercent,
	"+/-":         engine.OpNegate,
	"±":           engine.OpNegate,
	"negate":      engine.OpNegate,
	"sqrt":        engine.OpSqrt,
	"√":           engine.OpSqrt,
	"1/x":         engine.OpReciprocal,
	"reciprocal":  engine.OpReciprocal,
	"pow":         engine.OpPower,
	"^":           engine.OpPower,
	"power":       engine.OpPower,
	"sin":         engine.OpSin,
	"cos":         engine.OpCos,
	"tan":         engine.OpTan,
	"log":         engine.OpLog,
	"log10":       engine.OpLog10,
	"exp":         engine.OpExp,
}

// Lookup resolves one token. Unknown tokens report false.
func Lookup(token string) (Action, bool) {
	if len(token) == 1 {
		ch := token[0]
		if ch >= '0' && ch <= '9' || ch == '.' {
			return Action{Kind: KindDigit, Digit: rune(ch)}, true
		}
	}
	if op, ok := opAliases[token]; ok {
		return Action{Kind: KindOperation, Op: op}, true
	}
	return Action{}, false
}

// Apply feeds tokens to the engine in order. It returns how many tokens were
// applied and which were unknown; unknown tokens are skipped, not errors.
func Apply(e *engine.Engine, tokens []string) (applied int, unknown []string) {
	for _, token := range tokens {
		action, ok := Lookup(token)
		if !ok {
			unknown = append(unknown, token)
			continue
		}
		switch action.Kind {
		case KindDigit:
			e.InputDigit(action.Digit)
		case KindOperation:
			e.PerformOperation(action.Op)
		}
		applied++
	}
	return applied, unknown
}
