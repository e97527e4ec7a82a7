// internal/handler/analytics_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/service"
)

// SuppressionLister reads the do-not-contact entries for an organization.
type SuppressionLister interface {
	List(ctx context.Context, orgID string) ([]model.DoNotContact, error)
}

type AnalyticsHandler struct {
	Analytics    *service.AnalyticsService
	Suppressions SuppressionLister

	// DefaultOrgID scopes the do-not-contact listing when the request
	// does not name an org.
	DefaultOrgID string
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Analytics.GetDashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *AnalyticsHandler) ListDoNotContact(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		orgID = h.DefaultOrgID
	}
	entries, err := h.Suppressions.List(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []model.DoNotContact{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}
