package keymap

import (
	"testing"

	"exactcalc/internal/engine"
)

func TestLookupDigits(t *testing.T) {
	for _, token := range []string{"0", "5", "9", "."} {
		action, ok := Lookup(token)
		if !ok {
			t.Fatalf("expected %q to resolve", token)
		}
		if action.Kind != KindDigit {
			t.Fatalf("expected %q to be a digit action", token)
		}
		if string(action.Digit) != token {
			t.Fatalf("expected digit %q, got %q", token, action.Digit)
		}
	}
}

func TestLookupOperatorAliases(t *testing.T) {
	tests := []struct {
		token string
		want  engine.Op
	}{
		{"+", engine.OpAdd},
		{"-", engine.OpSubtract},
		{"*", engine.OpMultiply},
		{"x", engine.OpMultiply},
		{"×", engine.OpMultiply},
		{"/", engine.OpDivide},
		{"÷", engine.OpDivide},
		{"=", engine.OpEquals},
		{"enter", engine.OpEquals},
		{"c", engine.OpClear},
		{"ce", engine.OpClearEntry},
		{"%", engine.OpPercent},
		{"+/-", engine.OpNegate},
		{"±", engine.OpNegate},
		{"sqrt", engine.OpSqrt},
		{"√", engine.OpSqrt},
		{"1/x", engine.OpReciprocal},
		{"pow", engine.OpPower},
		{"^", engine.OpPower},
		{"sin", engine.OpSin},
		{"cos", engine.OpCos},
		{"tan", engine.OpTan},
		{"log", engine.OpLog},
		{"log10", engine.OpLog10},
		{"exp", engine.OpExp},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			action, ok := Lookup(tc.token)
			if !ok {
				t.Fatalf("expected %q to resolve", tc.token)
			}
			if action.Kind != KindOperation {
				t.Fatalf("expected %q to be an operation action", tc.token)
			}
			if action.Op != tc.want {
				t.Fatalf("expected %q -> %s, got %s", tc.token, tc.want, action.Op)
			}
		})
	}
}

func TestLookupUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "q", "10", "plus", "mod", "**"} {
		if _, ok := Lookup(token); ok {
			t.Fatalf("expected %q to be unknown", token)
		}
	}
}

func TestApplyDrivesEngine(t *testing.T) {
	e := engine.New(engine.ModeStandard)

	applied, unknown := Apply(e, []string{"2", "+", "3", "bogus", "="})
	if applied != 4 {
		t.Fatalf("expected 4 applied tokens, got %d", applied)
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Fatalf("expected unknown [bogus], got %v", unknown)
	}

	if got := e.Display(); got != "5" {
		t.Fatalf("expected display %q, got %q", "5", got)
	}
	if got := e.CompleteExpression(); got != "2 + 3 = 5" {
		t.Fatalf("expected expression %q, got %q", "2 + 3 = 5", got)
	}
}

func TestApplyWithClear(t *testing.T) {
	e := engine.New(engine.ModeStandard)

	Apply(e, []string{"1", "/", "0", "="})
	if !e.HasError() {
		t.Fatal("expected error state")
	}

	Apply(e, []string{"c", "4", "2"})
	if e.HasError() {
		t.Fatal("expected clear to exit error state")
	}
	if got := e.Display(); got != "42" {
		t.Fatalf("expected display %q, got %q", "42", got)
	}
}
