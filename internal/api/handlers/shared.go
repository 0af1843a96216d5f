package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// parseJSON decodes the request body into the given request type.
// Unknown fields are rejected so typos surface as 400s instead of
// silently dropped values.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	return req, nil
}

// parseOptionalJSON decodes an optional request body. An empty body
// yields the zero request; malformed JSON is still an error.
func parseOptionalJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&req)
	if errors.Is(err, io.EOF) {
		return req, nil
	}
	if err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	return req, nil
}
