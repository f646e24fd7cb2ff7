package lead

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the two lead forms. Its value is the webhook payload type.
type Kind string

const (
	KindContact Kind = "contact_submission"
	KindDemo    Kind = "demo_request"
)

// Source is the fixed payload source tag for the form that produced the lead.
func (k Kind) Source() string {
	switch k {
	case KindDemo:
		return "brandae_demo_form"
	default:
		return "brandae_contact_form"
	}
}

func (k Kind) Valid() bool {
	return k == KindContact || k == KindDemo
}

// ParseKind accepts a stored or query-string kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", fmt.Errorf("unknown submission kind %q", s)
	}
	return k, nil
}

// FormData is the user-supplied lead. Its JSON shape is the webhook form_data.
type FormData struct {
	Name     string `json:"name" example:"Jane Doe"`
	Email    string `json:"email" example:"jane@example.com"`
	Phone    string `json:"phone" example:"+15551234567"`
	Business string `json:"business" example:"Acme Co"`
	Message  string `json:"message" example:"We'd like a walkthrough."`
}

// Normalize trims surrounding whitespace from every field.
func (f FormData) Normalize() FormData {
	return FormData{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Phone:    strings.TrimSpace(f.Phone),
		Business: strings.TrimSpace(f.Business),
		Message:  strings.TrimSpace(f.Message),
	}
}

// Submission is a persisted row of contact_submissions. Immutable after insert.
type Submission struct {
	ID        string
	Kind      Kind
	Form      FormData
	CreatedAt time.Time
}

// SubmissionDTO is what the admin API exposes.
type SubmissionDTO struct {
	ID        string    `json:"id" example:"0b8e7f3a-2f4c-4d7e-9c1a-5e6f7a8b9c0d"`
	Kind      Kind      `json:"kind" example:"contact_submission"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Business  string    `json:"business"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Submission) ToDTO() SubmissionDTO {
	return SubmissionDTO{
		ID:        s.ID,
		Kind:      s.Kind,
		Name:      s.Form.Name,
		Email:     s.Form.Email,
		Phone:     s.Form.Phone,
		Business:  s.Form.Business,
		Message:   s.Form.Message,
		CreatedAt: s.CreatedAt,
	}
}

// Filter narrows an admin listing.
type Filter struct {
	Kind   Kind
	Query  string
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Clamped returns f with Limit and Offset inside the allowed range.
func (f Filter) Clamped() Filter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Query = strings.TrimSpace(f.Query)
	return f
}
