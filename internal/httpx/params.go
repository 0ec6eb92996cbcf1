package httpx

import (
	"net/http"
	"strconv"
)

// PathInt64 parses a positive integer path value. It writes a 400 reply and
// returns false when the value is malformed.
func PathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || v <= 0 {
		BadRequest(w, r, "Invalid "+name)
		return 0, false
	}
	return v, true
}

// QueryBool reports whether the query parameter is "true" or "1".
func QueryBool(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}
