package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"engrave-backend/internal/services"
	"engrave-backend/pkg/utils"
)

type ConfigHandler struct {
	Service *services.SiteConfigService
}

func NewConfigHandler(s *services.SiteConfigService) *ConfigHandler {
	return &ConfigHandler{Service: s}
}

// Get serves the effective site configuration to the public site.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.Get(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load config")
		return
	}

	utils.JSON(w, http.StatusOK, cfg)
}

// Update merges the submitted keys into the stored config.
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg, err := h.Service.Update(r.Context(), updates)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to update config")
		return
	}

	utils.JSON(w, http.StatusOK, cfg)
}
