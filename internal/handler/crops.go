// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"agrocms/internal/service"
	"agrocms/internal/session"
)

// CropsHandler handles the admin crop CRUD routes.
type CropsHandler struct {
	crops    *service.CropService
	sessions *scs.SessionManager
}

// NewCropsHandler creates a CropsHandler. sessions may be nil in tests;
// flash messages are then skipped.
func NewCropsHandler(crops *service.CropService, sessions *scs.SessionManager) *CropsHandler {
	return &CropsHandler{crops: crops, sessions: sessions}
}

// stageForm is one stage inside the submitted stages JSON field.
type stageForm struct {
	Name            string  `json:"name"`
	NameAr          string  `json:"name_ar"`
	Description     string  `json:"description"`
	DescriptionAr   string  `json:"description_ar"`
	Recommendations []int64 `json:"recommendations"`
}

// List handles GET /admin/crops.
func (h *CropsHandler) List(w http.ResponseWriter, r *http.Request) {
	crops, err := h.crops.ListCrops(r.Context())
	if err != nil {
		slog.Error("listing crops failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list crops")
		return
	}

	data := map[string]any{"crops": crops}
	if h.sessions != nil {
		msg, errMsg := session.PopFlash(r.Context(), h.sessions)
		if msg != "" {
			data["flash"] = msg
		}
		if errMsg != "" {
			data["flash_error"] = errMsg
		}
	}
	writeJSONSuccess(w, data)
}

// Get handles GET /admin/crops/{id}.
func (h *CropsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid crop id")
		return
	}

	crop, err := h.crops.GetCrop(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "crop not found")
		return
	}
	if err != nil {
		slog.Error("loading crop failed", "crop_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load crop")
		return
	}
	writeJSONSuccess(w, map[string]any{"crop": crop})
}

// Create handles POST /admin/crops.
func (h *CropsHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.parseForm(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	crop, err := h.crops.CreateCrop(r.Context(), in)
	if err != nil {
		slog.Error("creating crop failed", "error", err)
		h.flashError(r, "Failed to save crop")
		writeJSONError(w, http.StatusInternalServerError, "failed to save crop")
		return
	}

	h.flash(r, "Crop saved")
	h.redirectOrJSON(w, r, map[string]any{"crop": crop})
}

// Update handles POST /admin/crops/{id}.
func (h *CropsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid crop id")
		return
	}
	in, err := h.parseForm(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	crop, err := h.crops.UpdateCrop(r.Context(), id, in)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "crop not found")
		return
	}
	if err != nil {
		slog.Error("updating crop failed", "crop_id", id, "error", err)
		h.flashError(r, "Failed to save crop")
		writeJSONError(w, http.StatusInternalServerError, "failed to save crop")
		return
	}

	h.flash(r, "Crop saved")
	h.redirectOrJSON(w, r, map[string]any{"crop": crop})
}

// Delete handles POST /admin/crops/{id}/delete.
func (h *CropsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid crop id")
		return
	}

	if err := h.crops.DeleteCrop(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "crop not found")
			return
		}
		slog.Error("deleting crop failed", "crop_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to delete crop")
		return
	}

	h.flash(r, "Crop deleted")
	h.redirectOrJSON(w, r, nil)
}

// parseForm reads the crop submission. Stages arrive as one JSON-encoded
// form field, the shape the admin form editor produces.
func (h *CropsHandler) parseForm(r *http.Request) (service.CropInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.CropInput{}, errors.New("malformed form data")
	}

	in := service.CropInput{
		Name:            r.PostFormValue("name"),
		NameAr:          r.PostFormValue("name_ar"),
		Slug:            r.PostFormValue("slug"),
		Category:        r.PostFormValue("category"),
		CategoryAr:      r.PostFormValue("category_ar"),
		Description:     r.PostFormValue("description"),
		DescriptionAr:   r.PostFormValue("description_ar"),
		ImageURL:        r.PostFormValue("image_url"),
		SEOTitle:        r.PostFormValue("seo_title"),
		SEODescription:  r.PostFormValue("seo_description"),
		RelatedProducts: parseIDList(r.PostFormValue("related_products")),
	}

	if raw := strings.TrimSpace(r.PostFormValue("stages")); raw != "" {
		var stages []stageForm
		if err := json.Unmarshal([]byte(raw), &stages); err != nil {
			return service.CropInput{}, errors.New("malformed stages field")
		}
		for _, st := range stages {
			in.Stages = append(in.Stages, service.StageInput{
				Name:            st.Name,
				NameAr:          st.NameAr,
				Description:     st.Description,
				DescriptionAr:   st.DescriptionAr,
				Recommendations: st.Recommendations,
			})
		}
	}
	return in, nil
}

// redirectOrJSON redirects browser form posts back to the crop list and
// answers JSON for API clients.
func (h *CropsHandler) redirectOrJSON(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSONSuccess(w, data)
		return
	}
	http.Redirect(w, r, "/admin/crops", http.StatusSeeOther)
}

func (h *CropsHandler) flash(r *http.Request, msg string) {
	if h.sessions != nil {
		session.PutFlash(r.Context(), h.sessions, msg)
	}
}

func (h *CropsHandler) flashError(r *http.Request, msg string) {
	if h.sessions != nil {
		session.PutFlashError(r.Context(), h.sessions, msg)
	}
}
