package server

import (
	"net/http"
	"strconv"

	"github.com/desertthunder/ytproxy/internal/metrics"
	"github.com/goccy/go-json"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"detail":"Internal error: failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, he *HTTPError) {
	writeJSON(w, he.Status, ErrorDetail{Detail: he.Detail})
}

// respondError classifies err, counts it and writes it as a JSON error.
func respondError(w http.ResponseWriter, err error) *HTTPError {
	he := Classify(err)
	metrics.RecordClassifiedError(strconv.Itoa(he.Status))
	writeError(w, he)
	return he
}
