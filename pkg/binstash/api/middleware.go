package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// maxJSONBytes bounds how much of a declared-JSON body is buffered for
// validation; anything larger is rejected outright.
const maxJSONBytes = 1 << 20

// RejectMalformedJSON rejects any request whose declared JSON body does
// not parse, with a 400 and no-cache headers, before a handler sees it.
// The body is restored for downstream handlers when it is valid.
func RejectMalformedJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if r.Body == nil || !strings.HasPrefix(ct, "application/json") {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
		if err != nil {
			setNoCacheHeaders(w)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if len(body) > 0 && !json.Valid(body) {
			setNoCacheHeaders(w)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
