package handlers

import "net/http"

// Health is the liveness endpoint. It stays outside tracing so probes do not
// pollute the span stream.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
