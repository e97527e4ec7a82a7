// internal/handler/email_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/service"
)

// EmailHandler exposes the outreach lifecycle over HTTP. Every state move
// goes through the orchestrator; the handlers only translate.
type EmailHandler struct {
	Outreach *service.OutreachService
}

func (h *EmailHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SchoolID   string `json:"school_id"`
		ContactID  string `json:"contact_id"`
		CampaignID string `json:"campaign_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.SchoolID == "" || payload.ContactID == "" || payload.CampaignID == "" {
		writeError(w, appErrors.NewValidation("school_id, contact_id and campaign_id are required"))
		return
	}

	email, err := h.Outreach.GenerateDraft(r.Context(), payload.SchoolID, payload.ContactID, payload.CampaignID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, email)
}

func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	email, err := h.Outreach.RecordSend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, email)
}

func (h *EmailHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ReplyText string `json:"reply_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.ReplyText) == "" {
		writeError(w, appErrors.NewValidation("reply_text is required"))
		return
	}

	email, err := h.Outreach.ProcessReply(r.Context(), chi.URLParam(r, "id"), payload.ReplyText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, email)
}

func (h *EmailHandler) MarkStale(w http.ResponseWriter, r *http.Request) {
	email, err := h.Outreach.MarkStale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, email)
}

func (h *EmailHandler) FollowUp(w http.ResponseWriter, r *http.Request) {
	email, err := h.Outreach.ScheduleFollowUp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, email)
}

func (h *EmailHandler) GetEmail(w http.ResponseWriter, r *http.Request) {
	email, err := h.Outreach.EmailRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, email)
}

// SweepStale is the manual trigger for the stale sweep; the worker also
// runs it on a timer.
func (h *EmailHandler) SweepStale(w http.ResponseWriter, r *http.Request) {
	moved, err := h.Outreach.SweepStale(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked_stale": moved})
}
