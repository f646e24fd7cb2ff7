package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"brandae-leads-api/internal/auth"
	"brandae-leads-api/internal/util"
	"brandae-leads-api/internal/webhook"
)

// WebhookHandler manages webhook endpoint CRUD.
type WebhookHandler struct {
	Auth auth.Auth
	Repo webhook.Repository
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/webhooks" {
		switch r.Method {
		case http.MethodGet:
			h.Auth.RequireAdmin(h.list)(w, r)
		case http.MethodPost:
			h.Auth.RequireAdmin(h.create)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /api/webhooks/{id}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/webhooks/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.Auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodPut:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})(w, r)
}

// list godoc
// @Summary      List webhook endpoints
// @Description  Get all registered webhook endpoints, active or not
// @Tags         webhooks
// @Produce      json
// @Success      200  {array}   webhook.EndpointDTO
// @Failure      401  {string}  string  "Unauthorized"
// @Failure      500  {string}  string  "Database error"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /webhooks [get]
func (h *WebhookHandler) list(w http.ResponseWriter, r *http.Request) {
	eps, err := h.Repo.List(r.Context())
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	out := make([]webhook.EndpointDTO, 0, len(eps))
	for _, e := range eps {
		out = append(out, e.ToDTO())
	}
	util.WriteJSON(w, out)
}

// create godoc
// @Summary      Create webhook endpoint
// @Description  Register a new endpoint. is_active defaults to true.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        endpoint  body      webhook.EndpointInput  true  "Endpoint configuration"
// @Success      201       {object}  webhook.EndpointDTO
// @Failure      400       {string}  string  "Invalid JSON or missing name/url"
// @Failure      401       {string}  string  "Unauthorized"
// @Failure      500       {string}  string  "Database error"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /webhooks [post]
func (h *WebhookHandler) create(w http.ResponseWriter, r *http.Request) {
	var in webhook.EndpointInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	e, err := h.Repo.Create(r.Context(), in.Apply(webhook.Endpoint{IsActive: true}))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	util.WriteJSONStatus(w, http.StatusCreated, e.ToDTO())
}

// get godoc
// @Summary      Get webhook endpoint
// @Tags         webhooks
// @Produce      json
// @Param        id   path      string  true  "Endpoint ID"
// @Success      200  {object}  webhook.EndpointDTO
// @Failure      401  {string}  string  "Unauthorized"
// @Failure      404  {string}  string  "Not found"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /webhooks/{id} [get]
func (h *WebhookHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	e, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	util.WriteJSON(w, e.ToDTO())
}

// update godoc
// @Summary      Update webhook endpoint
// @Description  Change name, url or is_active. Omitted fields keep their value.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        id        path      string                 true  "Endpoint ID"
// @Param        endpoint  body      webhook.EndpointInput  true  "Fields to change"
// @Success      200       {object}  webhook.EndpointDTO
// @Failure      400       {string}  string  "Invalid JSON or values"
// @Failure      401       {string}  string  "Unauthorized"
// @Failure      404       {string}  string  "Not found"
// @Failure      500       {string}  string  "Database error"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /webhooks/{id} [put]
func (h *WebhookHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var in webhook.EndpointInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	e, err := h.Repo.Update(r.Context(), id, in)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	util.WriteJSON(w, e.ToDTO())
}

// delete godoc
// @Summary      Delete webhook endpoint
// @Tags         webhooks
// @Produce      json
// @Param        id   path      string           true  "Endpoint ID"
// @Success      200  {object}  map[string]bool  "Deletion confirmation"
// @Failure      401  {string}  string           "Unauthorized"
// @Failure      404  {string}  string           "Not found"
// @Failure      500  {string}  string           "Database error"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /webhooks/{id} [delete]
func (h *WebhookHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err)
		return
	}
	util.WriteJSON(w, map[string]any{"deleted": true})
}

func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, webhook.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, webhook.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "db error", http.StatusInternalServerError)
	}
}
