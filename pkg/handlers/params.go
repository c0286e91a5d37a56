package handlers

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Middleware wraps a handler. Routes that touch the database are registered
// through the request-scope middleware.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// ParseID extracts a positive integer id from the given path parameter.
// Returns the id and true on success, or 0 and false on error
// (after writing a 400 invalid_id response).
func ParseID(w http.ResponseWriter, r *http.Request, pathParam string, logger *zap.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(pathParam), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, logger, http.StatusBadRequest, "invalid_id", "Invalid id: must be a positive integer")
		return 0, false
	}
	return id, true
}

// parseOptionalInt reads an integer query parameter. A blank value is nil;
// anything else that is not an integer writes a 400 validation_error.
func parseOptionalInt(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (*int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, logger, http.StatusBadRequest, "validation_error", name+": must be an integer")
		return nil, false
	}
	return &v, true
}

// queryValue returns the trimmed value of a query parameter.
func queryValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// parseBool reads a boolean query parameter, returning def when it is blank
// or unparseable.
func parseBool(r *http.Request, name string, def bool) bool {
	v, err := strconv.ParseBool(queryValue(r, name))
	if err != nil {
		return def
	}
	return v
}

// clientIP returns the caller address, preferring the first X-Forwarded-For hop.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
