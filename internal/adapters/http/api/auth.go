package api

import (
	"net/http"
	"strconv"
)

// identityHeader names the caller. Session mechanics live in front of this
// service; the header is trusted as-is.
const identityHeader = "X-User-ID"

// callerID extracts the authenticated user's id from the request.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(identityHeader)
	if raw == "" {
		return 0, ErrUnauthenticated
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrUnauthenticated
	}
	return id, nil
}
