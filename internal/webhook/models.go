package webhook

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when an endpoint id does not exist.
	ErrNotFound = errors.New("webhook endpoint not found")
	// ErrInvalid wraps endpoint validation failures.
	ErrInvalid = errors.New("invalid webhook endpoint")
)

// Endpoint is a registered outbound notification target, stored in webhook_endpoints.
type Endpoint struct {
	ID        string
	Name      string
	URL       string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks that the endpoint has a name and an absolute http(s) url.
func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	u, err := url.Parse(strings.TrimSpace(e.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: url must be an absolute http(s) url", ErrInvalid)
	}
	return nil
}

// EndpointDTO is sent over the admin API.
type EndpointDTO struct {
	ID        string    `json:"id" example:"6f1c2d4e-8a9b-4c3d-9e2f-1a2b3c4d5e6f" doc:"Endpoint ID"`
	Name      string    `json:"name" example:"Zapier CRM" doc:"Display name, echoed as webhook_name"`
	URL       string    `json:"url" example:"https://hooks.example.com/brandae" doc:"Target URL"`
	IsActive  bool      `json:"is_active" example:"true" doc:"Whether submissions are sent here"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

func (e Endpoint) ToDTO() EndpointDTO {
	return EndpointDTO{
		ID:        e.ID,
		Name:      e.Name,
		URL:       e.URL,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// EndpointInput is received by create and update. Nil fields are left unchanged on update.
type EndpointInput struct {
	Name     *string `json:"name,omitempty" example:"Zapier CRM"`
	URL      *string `json:"url,omitempty" example:"https://hooks.example.com/brandae"`
	IsActive *bool   `json:"is_active,omitempty" example:"true"`
}

// Apply merges the non-nil fields of in onto e.
func (in EndpointInput) Apply(e Endpoint) Endpoint {
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.URL != nil {
		e.URL = strings.TrimSpace(*in.URL)
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
	return e
}

// Event is one qualifying occurrence to fan out, e.g. a contact submission.
type Event struct {
	Type     string
	Source   string
	FormData any
}

// Payload is the JSON body POSTed to each endpoint. It is built per endpoint
// and never persisted.
type Payload struct {
	Type        string `json:"type" example:"contact_submission"`
	FormData    any    `json:"form_data"`
	Timestamp   string `json:"timestamp" example:"2024-01-15T10:30:00.000Z"`
	WebhookName string `json:"webhook_name" example:"Zapier CRM"`
	Source      string `json:"source" example:"brandae_contact_form"`
}

// Delivery is the outcome of one POST attempt.
type Delivery struct {
	EndpointID string        `json:"endpoint_id"`
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

func (d Delivery) OK() bool { return d.Error == "" }

// Report summarises one fan-out round. RegistryErr is set when the active
// endpoint list could not be read; nothing was attempted in that case.
type Report struct {
	Attempted   int        `json:"attempted"`
	Delivered   int        `json:"delivered"`
	Failed      int        `json:"failed"`
	Deliveries  []Delivery `json:"deliveries,omitempty"`
	RegistryErr error      `json:"-"`
}
