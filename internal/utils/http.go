package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBodyTooLarge is returned by [ReadJSON] when the request body exceeds
// the allowed size.
var ErrBodyTooLarge = errors.New("request body is too large")

// WriteJSON marshals data and writes it with the given status code and an
// application/json content type. A value that cannot be marshaled turns
// into a bare 500 and the marshal error is returned to the caller for
// logging.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(body)
}

// ReadJSON decodes a single JSON document from the request body into dst.
// Bodies larger than maxBytes fail with [ErrBodyTooLarge]; maxBytes <= 0
// disables the limit. Trailing data after the document is an error.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON document")
	}

	return nil
}
