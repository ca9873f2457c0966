package handlers

import (
	"net/http"

	"engrave-backend/internal/health"
	"engrave-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	utils.JSON(w, code, status)
}
