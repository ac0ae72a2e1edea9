// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/smrsite/reviews-server/middleware"
)

// codePattern is the fixed lexical format of a redemption code: exactly
// three decimal digits.
var codePattern = regexp.MustCompile(`^[0-9]{3}$`)

var (
	errNotAnInteger = errors.New("not an integer")
	errMissing      = errors.New("missing value")
)

// stringField pulls a trimmed string out of a decoded JSON value.
func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// coerceInt accepts the integer encodings seen in practice: a JSON
// number (only if integral), or a numeric string from a form post or a
// sloppy client. Everything else is an error.
func coerceInt(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, errMissing
	case float64:
		if math.Trunc(x) != x {
			return 0, errNotAnInteger
		}
		return int(x), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, errNotAnInteger
		}
		return n, nil
	default:
		return 0, errNotAnInteger
	}
}

// coerceID is coerceInt for row ids, which must also be positive.
func coerceID(v any) (int64, error) {
	n, err := coerceInt(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errNotAnInteger
	}
	return int64(n), nil
}

// clampLimit parses a ?limit= style query parameter with a default and
// inclusive bounds.
func clampLimit(raw string, def, min, max int) int {
	limit := def
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < min {
		limit = min
	}
	if limit > max {
		limit = max
	}
	return limit
}

// formOrJSONValue reads a single named field from either a JSON object
// body or a form post. The bool reports whether the field was present.
func formOrJSONValue(r *http.Request, field string) (any, bool, error) {
	if middleware.IsJSON(r) {
		var body map[string]any
		if err := middleware.ParseJSONBody(r, &body); err != nil {
			return nil, false, err
		}
		v, ok := body[field]
		return v, ok, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, false, err
	}
	vs, ok := r.PostForm[field]
	if !ok || len(vs) == 0 {
		return nil, false, nil
	}
	return vs[0], true, nil
}
