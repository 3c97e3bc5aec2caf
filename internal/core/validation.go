// AngelaMos | 2026
// validation.go

package core

import (
	"encoding/json"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewValidator returns a validator that reports JSON field names and knows
// the project's custom tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // tag name and func are static
	_ = v.RegisterValidation("alphanumunderscore", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// DecodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the caller may
// continue.
func DecodeAndValidate(
	w http.ResponseWriter,
	r *http.Request,
	v *validator.Validate,
	dst any,
) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}

	if err := v.Struct(dst); err != nil {
		BadRequest(w, FormatValidationError(err))
		return false
	}

	return true
}

// NormalizeTags trims tags, drops empties and keeps the first occurrence of
// each.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
