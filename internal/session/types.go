package session

import (
	"time"

	"exactcalc/internal/engine"
	"exactcalc/internal/history"
	"exactcalc/internal/rational"
)

type createRequest struct {
	Mode string `json:"mode"`
}

type digitsRequest struct {
	Digit string `json:"digit"`
}

type operationRequest struct {
	Operation string `json:"operation"`
}

type keysRequest struct {
	Keys []string `json:"keys"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// stateResponse mirrors the engine's display contract: while errored the
// display carries the error message and Error is true.
type stateResponse struct {
	ID                 string `json:"id"`
	Display            string `json:"display"`
	Expression         string `json:"expression"`
	CompleteExpression string `json:"complete_expression"`
	Error              bool   `json:"error"`
	Mode               string `json:"mode"`
}

type keysResponse struct {
	stateResponse
	Applied int      `json:"applied"`
	Unknown []string `json:"unknown,omitempty"`
}

type valueResponse struct {
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
	Decimal     string `json:"decimal"`
}

type historyEntryResponse struct {
	Index      int             `json:"index"`
	Expression string          `json:"expression"`
	Result     rational.Number `json:"result"`
	Decimal    string          `json:"decimal"`
	At         time.Time       `json:"at"`
}

func stateOf(id string, e *engine.Engine) stateResponse {
	return stateResponse{
		ID:                 id,
		Display:            e.Display(),
		Expression:         e.Expression(),
		CompleteExpression: e.CompleteExpression(),
		Error:              e.HasError(),
		Mode:               string(e.Mode()),
	}
}

func historyEntries(e *engine.Engine, h *history.Log) []historyEntryResponse {
	entries := h.Entries()
	out := make([]historyEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = historyEntryResponse{
			Index:      i,
			Expression: entry.Expression,
			Result:     entry.Result,
			Decimal:    entry.Result.DecimalString(e.Mode().Precision()),
			At:         entry.At,
		}
	}
	return out
}
