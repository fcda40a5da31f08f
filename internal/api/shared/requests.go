package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps the size of request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrMalformedBody is returned by DecodeJSON when the body is not a single
// valid JSON value.
var ErrMalformedBody = errors.New("malformed request body")

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into v. An empty or malformed body
// yields an error wrapping ErrMalformedBody.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", ErrMalformedBody)
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrMalformedBody)
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
