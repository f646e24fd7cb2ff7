package handlers

import (
	"context"
	"net/http"
	"strconv"

	"brandae-leads-api/internal/auth"
	"brandae-leads-api/internal/lead"
	"brandae-leads-api/internal/util"
)

// SubmissionLister is the read side of lead.Service.
type SubmissionLister interface {
	List(ctx context.Context, f lead.Filter) ([]lead.Submission, error)
}

// SubmissionHandler serves the admin view of stored leads.
type SubmissionHandler struct {
	Auth    auth.Auth
	Service SubmissionLister
}

func (h *SubmissionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.Auth.RequireAdmin(h.list)(w, r)
}

// list godoc
// @Summary      List submissions
// @Description  Stored contact and demo leads, newest first
// @Tags         submissions
// @Produce      json
// @Param        kind    query     string  false  "contact_submission or demo_request"
// @Param        q       query     string  false  "Case-insensitive text filter over name, email, business, message"
// @Param        limit   query     int     false  "Page size (default 50, max 200)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {array}   lead.SubmissionDTO
// @Failure      400     {string}  string  "Invalid filter"
// @Failure      401     {string}  string  "Unauthorized"
// @Failure      500     {string}  string  "Database error"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /submissions [get]
func (h *SubmissionHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := lead.Filter{Query: q.Get("q")}

	if k := q.Get("kind"); k != "" {
		kind, err := lead.ParseKind(k)
		if err != nil {
			http.Error(w, "invalid kind", http.StatusBadRequest)
			return
		}
		f.Kind = kind
	}
	var err error
	if f.Limit, err = intParam(q.Get("limit")); err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	if f.Offset, err = intParam(q.Get("offset")); err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}

	subs, err := h.Service.List(r.Context(), f)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	out := make([]lead.SubmissionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.ToDTO())
	}
	util.WriteJSON(w, out)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
