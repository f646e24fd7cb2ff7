package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"brandae-leads-api/internal/lead"
	"brandae-leads-api/internal/util"
)

const maxFormBytes = 64 << 10

// Submitter is the part of lead.Service the public form endpoints need.
type Submitter interface {
	Submit(ctx context.Context, kind lead.Kind, form lead.FormData) (lead.Result, error)
}

// LeadHandler accepts the public contact and demo forms.
type LeadHandler struct {
	Service Submitter
}

// SubmitResponse confirms a stored lead.
type SubmitResponse struct {
	ID        string     `json:"id" example:"0b8e7f3a-2f4c-4d7e-9c1a-5e6f7a8b9c0d"`
	State     lead.State `json:"state" example:"settled"`
	CreatedAt time.Time  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// Contact godoc
// @Summary      Submit contact form
// @Description  Store a contact lead and notify every active webhook. Webhook failures never fail the request.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        form  body      lead.FormData     true  "Contact form values"
// @Success      201   {object}  SubmitResponse
// @Failure      400   {object}  util.ErrorBody    "Invalid JSON or field errors"
// @Failure      429   {object}  util.ErrorBody    "Rate limited"
// @Failure      500   {object}  util.ErrorBody    "Submission failed"
// @Router       /leads/contact [post]
func (h *LeadHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, lead.KindContact)
}

// Demo godoc
// @Summary      Submit demo request
// @Description  Store a demo request and notify every active webhook.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        form  body      lead.FormData     true  "Demo form values"
// @Success      201   {object}  SubmitResponse
// @Failure      400   {object}  util.ErrorBody    "Invalid JSON or field errors"
// @Failure      429   {object}  util.ErrorBody    "Rate limited"
// @Failure      500   {object}  util.ErrorBody    "Submission failed"
// @Router       /leads/demo [post]
func (h *LeadHandler) Demo(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, lead.KindDemo)
}

func (h *LeadHandler) submit(w http.ResponseWriter, r *http.Request, kind lead.Kind) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var form lead.FormData
	if err := util.DecodeJSON(w, r, maxFormBytes, &form); err != nil {
		util.WriteError(w, http.StatusBadRequest, "bad json", nil)
		return
	}

	res, err := h.Service.Submit(r.Context(), kind, form)
	if err != nil {
		var verr *lead.ValidationError
		switch {
		case errors.As(err, &verr):
			util.WriteError(w, http.StatusBadRequest, "invalid submission", verr.Fields)
		case errors.Is(err, lead.ErrInvalid):
			util.WriteError(w, http.StatusBadRequest, "invalid submission", nil)
		default:
			log.Ctx(r.Context()).Error().Err(err).Str("kind", string(kind)).Msg("Lead submission failed")
			util.WriteError(w, http.StatusInternalServerError, "submission failed", nil)
		}
		return
	}

	util.WriteJSONStatus(w, http.StatusCreated, SubmitResponse{
		ID:        res.Submission.ID,
		State:     res.State,
		CreatedAt: res.Submission.CreatedAt,
	})
}
