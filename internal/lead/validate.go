package lead

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid submission")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError lists the offending fields and a message for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate requires name, email and phone, and checks the email shape.
// Business and message are optional.
func Validate(f FormData) error {
	f = f.Normalize()
	fields := map[string]string{}

	if f.Name == "" {
		fields["name"] = "is required"
	}
	switch {
	case f.Email == "":
		fields["email"] = "is required"
	case !emailPattern.MatchString(f.Email):
		fields["email"] = "is not a valid email address"
	}
	if f.Phone == "" {
		fields["phone"] = "is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
