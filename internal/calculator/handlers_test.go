package calculator

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"exactcalc/internal/observability"
	"exactcalc/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r)
	return r
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	return testutil.ExecuteRequest(req, router)
}

func TestAddIsExact(t *testing.T) {
	router := newTestRouter(t)

	// The classic float trap: 0.1 + 0.2 is exactly 0.3 here.
	w := post(t, router, "/calculator/add", `{"a":"0.1","b":"0.2"}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp CalcResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Result != "0.3" {
		t.Fatalf("expected result %q, got %q", "0.3", resp.Result)
	}
	if resp.Numerator != "3" || resp.Denominator != "10" {
		t.Fatalf("expected exact 3/10, got %s/%s", resp.Numerator, resp.Denominator)
	}
}

func TestBinaryOperations(t *testing.T) {
	tests := []struct {
		path string
		body string
		want string
	}{
		{"/calculator/add", `{"a":"2","b":"3"}`, "5"},
		{"/calculator/subtract", `{"a":"2","b":"3.5"}`, "-1.5"},
		{"/calculator/multiply", `{"a":"1.5","b":"-2"}`, "-3"},
		{"/calculator/divide", `{"a":"1","b":"8"}`, "0.125"},
		{"/calculator/divide", `{"a":"1e3","b":"4"}`, "250"},
	}
	for _, tc := range tests {
		t.Run(tc.path+" "+tc.body, func(t *testing.T) {
			router := newTestRouter(t)
			w := post(t, router, tc.path, tc.body)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			var resp CalcResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			if resp.Result != tc.want {
				t.Fatalf("expected result %q, got %q", tc.want, resp.Result)
			}
		})
	}
}

func TestDivideByZeroIs400(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/calculator/divide", `{"a":"5","b":"0"}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body["error"] == "" {
		t.Fatal("expected error message in body")
	}
}

func TestInvalidOperandIs400(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{`{"a":"abc","b":"1"}`, `{"a":"1","b":"1.2.3"}`, `{"a":"","b":"1"}`} {
		w := post(t, router, "/calculator/add", body)
		testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
	}
}

func TestSqrt(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/calculator/sqrt", `{"value":"9"}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp UnaryResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Result != "3" {
		t.Fatalf("expected result %q, got %q", "3", resp.Result)
	}
}

func TestSqrtOfNegativeIs400(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/calculator/sqrt", `{"value":"-4"}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestChainRecoversExactValue(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/calculator/chain",
		`{"initial":"1","steps":[{"op":"divide","value":"3"},{"op":"multiply","value":"3"}]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ChainResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Result != "1" {
		t.Fatalf("expected exact result %q, got %q", "1", resp.Result)
	}
	if resp.Numerator != "1" || resp.Denominator != "1" {
		t.Fatalf("expected exact 1/1, got %s/%s", resp.Numerator, resp.Denominator)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(resp.Steps))
	}
}

func TestChainFailsAtBadStep(t *testing.T) {
	router := newTestRouter(t)

	tests := []string{
		`{"initial":"1","steps":[{"op":"divide","value":"0"}]}`,
		`{"initial":"1","steps":[{"op":"modulo","value":"2"}]}`,
		`{"initial":"1","steps":[]}`,
		`{"initial":"nope","steps":[{"op":"add","value":"1"}]}`,
	}
	for _, body := range tests {
		w := post(t, router, "/calculator/chain", body)
		testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
	}
}

func TestResponsesCarryNoRequestID(t *testing.T) {
	router := newTestRouter(t)

	w := post(t, router, "/calculator/add", `{"a":"1","b":"1"}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var payload map[string]any
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}
}
