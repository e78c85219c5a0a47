package httpapi

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
)

const phoneLength = 10

// FieldError names the first field of a request that is missing or invalid.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return "missing or invalid field: " + e.Field
}

func fieldErr(name string) error {
	return &FieldError{Field: name}
}

// decodePayload unmarshals the request payload into dst. A value of the
// wrong JSON type is reported against its field.
func decodePayload(req *Request, dst any) error {
	err := json.Unmarshal(req.Payload, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fieldErr(typeErr.Field)
	}
	return fieldErr("body")
}

// requiredString returns the trimmed value, which must be non-empty.
func requiredString(name string, v *string) (string, error) {
	if v == nil {
		return "", fieldErr(name)
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", fieldErr(name)
	}
	return s, nil
}

// optionalString is like requiredString but nil passes through as nil.
func optionalString(name string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := requiredString(name, v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// fixedKey validates a trimmed value of exactly n characters that is also
// a legal storage key.
func fixedKey(name string, v *string, n int) (string, error) {
	s, err := requiredString(name, v)
	if err != nil {
		return "", err
	}
	if len(s) != n || documents.ValidateKey(s) != nil {
		return "", fieldErr(name)
	}
	return s, nil
}

func requiredPhone(v *string) (string, error) {
	return fixedKey("phone", v, phoneLength)
}

func requiredTokenID(v *string) (string, error) {
	return fixedKey("id", v, models.TokenIDLength)
}

func requiredCheckID(v *string) (string, error) {
	return fixedKey("id", v, models.CheckIDLength)
}

func oneOf(name string, v *string, allowed ...string) (string, error) {
	s, err := requiredString(name, v)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", fieldErr(name)
}

func optionalOneOf(name string, v *string, allowed ...string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := oneOf(name, v, allowed...)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func intInRange(name string, v *int, lo, hi int) (int, error) {
	if v == nil || *v < lo || *v > hi {
		return 0, fieldErr(name)
	}
	return *v, nil
}

func nonEmptyInts(name string, v []int) ([]int, error) {
	if len(v) == 0 {
		return nil, fieldErr(name)
	}
	return v, nil
}
