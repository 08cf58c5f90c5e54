package controllers

import (
	json "github.com/goccy/go-json"
	"math"
	"net/http"
	"spotr/internal/providers"
	"strings"

	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody reads a size-limited JSON body into dst. On failure it writes a
// 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, logger providers.Logger, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Bad request body on %s: %s", r.URL.Path, err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// requireParam writes a 400 when value is blank.
func requireParam(w http.ResponseWriter, name, value string) bool {
	if strings.TrimSpace(value) == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return false
	}
	return true
}

// exactInt accepts a JSON number or numeric string holding a whole number.
// Booleans and fractions are rejected rather than truncated.
func exactInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil, bool:
		return 0, false
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
	}
	i, err := cast.ToIntE(v)
	return i, err == nil
}
