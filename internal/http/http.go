package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WriteResponseJSON sets the Content-Type header to application/json and
// writes the provided body, JSON-encoded, with the provided status code.
func WriteResponseJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body == nil {
		body = struct{}{}
	}
	_ = json.NewEncoder(w).Encode(body)
}

// ReadBody reads the body of the provided *http.Request up to the specified
// limit. If the body exceeds the limit, it returns an error. If the body is
// exactly the limit, it checks for additional content and returns an error if
// any is found.
func ReadBody(r *http.Request, limit int64) ([]byte, error) {
	defer r.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	// If we read exactly the limit, the body might be larger
	if int64(len(bodyBytes)) == limit {
		buf := make([]byte, 1)
		var n int
		if n, err = r.Body.Read(buf); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to check for additional content: %w", err)
		}
		if n > 0 {
			return nil, fmt.Errorf("request body exceeds limit of %d bytes", limit)
		}
	}
	return bodyBytes, nil
}
