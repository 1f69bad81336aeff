package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// DecodeJSONBody decodes a request body, rejecting unknown fields. An empty
// body decodes to the zero value.
func DecodeJSONBody[T any](r *http.Request) (T, error) {
	var data T
	if r.Body == nil {
		return data, nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		var zero T
		return zero, fmt.Errorf("json unmarshal error: %w", err)
	}
	return data, nil
}

func DecodeJSONBodyResponse[T any](r *http.Response) (T, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read body error: %w", err)
	}
	defer r.Body.Close()

	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		var zero T
		return zero, fmt.Errorf("json unmarshal error: %w", err)
	}
	return data, nil
}

func WriteJSONResponse[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// PageParams reads limit and offset query parameters. Missing or invalid
// values fall back to the defaults, and limit is capped at max.
func PageParams(r *http.Request, defaultLimit, max int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > max {
		limit = max
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
