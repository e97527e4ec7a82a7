// internal/handler/school_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/service"
)

// SchoolHandler holds the dependencies for school and contact HTTP handlers
type SchoolHandler struct {
	Directory *service.DirectoryService
}

func (h *SchoolHandler) CreateSchool(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name         string             `json:"name"`
		Address      string             `json:"address"`
		District     string             `json:"district"`
		Province     string             `json:"province"`
		PostalCode   string             `json:"postal_code"`
		Phone        string             `json:"phone"`
		Email        string             `json:"email"`
		Website      string             `json:"website"`
		StudentCount *int               `json:"student_count"`
		Demographics model.Demographics `json:"demographics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	school := &model.School{
		Name:         payload.Name,
		Address:      payload.Address,
		District:     payload.District,
		Province:     payload.Province,
		PostalCode:   payload.PostalCode,
		Phone:        payload.Phone,
		Email:        payload.Email,
		Website:      payload.Website,
		StudentCount: payload.StudentCount,
		Demographics: payload.Demographics,
	}

	created, err := h.Directory.CreateSchool(r.Context(), school)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *SchoolHandler) ListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.Directory.ListSchools(r.Context(), r.URL.Query().Get("province"))
	if err != nil {
		writeError(w, err)
		return
	}
	if schools == nil {
		schools = []model.School{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": schools})
}

func (h *SchoolHandler) GetSchool(w http.ResponseWriter, r *http.Request) {
	school, err := h.Directory.GetSchool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, school)
}

func (h *SchoolHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Position  string `json:"position"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	contact := &model.Contact{
		SchoolID:  chi.URLParam(r, "id"),
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Position:  payload.Position,
		IsPrimary: payload.IsPrimary,
	}

	created, err := h.Directory.CreateContact(r.Context(), contact)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *SchoolHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Directory.ListSchoolContacts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": contacts})
}
