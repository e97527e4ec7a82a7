// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/service"
)

// CampaignHandler holds the dependencies for campaign-related HTTP handlers
type CampaignHandler struct {
	Service *service.CampaignService
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrganizationID      string              `json:"organization_id"`
		Name                string              `json:"name"`
		Description         string              `json:"description"`
		Policy              model.PricingPolicy `json:"pricing_policy"`
		FollowUpWindowHours int                 `json:"follow_up_window_hours"`
		MaxFollowUps        int                 `json:"max_follow_ups"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	campaign := &model.Campaign{
		OrganizationID:      payload.OrganizationID,
		Name:                payload.Name,
		Description:         payload.Description,
		Policy:              payload.Policy,
		FollowUpWindowHours: payload.FollowUpWindowHours,
		MaxFollowUps:        payload.MaxFollowUps,
	}

	created, err := h.Service.CreateCampaign(r.Context(), campaign)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListCampaigns returns a paginated list of campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := h.Service.ListCampaigns(r.Context(), page, pageSize, status)
	if err != nil {
		writeError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []model.Campaign{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":       campaigns,
		"pagination": pagination,
	})
}

// GetCampaign returns one campaign with its email status stats
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	details, err := h.Service.GetCampaignDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *CampaignHandler) PauseCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.PauseCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": model.CampaignPaused})
}
