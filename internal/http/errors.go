package http

import (
	"encoding/json"
	"errors"
	"net/http"
)

type HTTPError struct { // nolint: revive
	code int
	err  error
}

func (e *HTTPError) Error() string {
	return e.err.Error()
}

func (e *HTTPError) Code() int {
	return e.code
}

// Error returns an error that can be used to write an
// HTTP response with an error message and a specific status code.
func Error(err error, code int) error {
	return &HTTPError{
		code: code,
		err:  err,
	}
}

// ErrorStr is like Error but takes a string message instead of an error.
func ErrorStr(err string, code int) error {
	return Error(errors.New(err), code)
}

// WriteErrorJSON writes an error response in JSON format to the provided
// http.ResponseWriter. If the error is an *HTTPError, it uses the code from
// that error. Otherwise, it defaults to http.StatusInternalServerError. The
// error message is always included in the response body so that the invoking
// framework can surface it.
func WriteErrorJSON(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.code
		err = httpErr.err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := struct {
		Error string `json:"error,omitempty"`
	}{}
	if err != nil {
		resp.Error = err.Error()
	}
	_ = json.NewEncoder(w).Encode(resp)
}
