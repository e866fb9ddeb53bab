package httputil

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/tangent/pkg/errors"
)

// QueryFloat parses the float parameter name, or returns 0 if absent.
func QueryFloat(r *http.Request, name string) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: not a number: %q", name, s)
	}
	return v, nil
}

// QueryUint parses the unsigned parameter name, or returns 0 if absent.
func QueryUint(r *http.Request, name string) (uint64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: not an unsigned integer: %q", name, s)
	}
	return v, nil
}

// QueryInts parses a comma-separated list of integers, or returns nil if
// the parameter is absent.
func QueryInts(r *http.Request, name string) ([]int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: not an integer: %q", name, p)
		}
		out = append(out, v)
	}
	return out, nil
}
