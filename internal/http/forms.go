package httpx

import (
	"net/http"
	"strconv"
	"strings"
)

// pathID parses the {id} path value as an int64. Returns false on a missing
// or non-numeric value.
func pathID(r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// formString returns the trimmed form value for key.
func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// formInt64Ptr parses an optional int64 form value. Empty input yields nil;
// malformed input records a field error and yields nil.
func formInt64Ptr(r *http.Request, key string, fieldErrors map[string]string) *int64 {
	raw := formString(r, key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fieldErrors[key] = "Must be a whole number."
		return nil
	}
	return &n
}

// formFloat64Ptr parses an optional float64 form value.
func formFloat64Ptr(r *http.Request, key string, fieldErrors map[string]string) *float64 {
	raw := formString(r, key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fieldErrors[key] = "Must be a number."
		return nil
	}
	return &f
}

// formInt parses an optional int form value, returning fallback when absent.
func formInt(r *http.Request, key string, fallback int, fieldErrors map[string]string) int {
	raw := formString(r, key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fieldErrors[key] = "Must be a whole number."
		return fallback
	}
	return n
}

// oneOf reports whether v is one of the allowed values.
func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
