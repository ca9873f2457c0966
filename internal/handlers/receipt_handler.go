package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"engrave-backend/internal/models"
	"engrave-backend/internal/services"
	"engrave-backend/pkg/utils"
)

type ReceiptHandler struct {
	Service *services.ReceiptService
}

func NewReceiptHandler(s *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{Service: s}
}

func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	receipts, err := h.Service.List(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list receipts")
		return
	}
	if receipts == nil {
		receipts = []*models.ReceiptWithDetails{}
	}

	utils.JSON(w, http.StatusOK, receipts)
}

func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid receipt id")
		return
	}

	receipt, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrReceiptNotFound) {
			utils.Error(w, http.StatusNotFound, "Receipt not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to load receipt")
		return
	}

	utils.JSON(w, http.StatusOK, receipt)
}

// DownloadPDF streams the rendered receipt PDF.
func (h *ReceiptHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid receipt id")
		return
	}

	data, receipt, err := h.Service.RenderPDF(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrReceiptNotFound) {
			utils.Error(w, http.StatusNotFound, "Receipt not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.pdf"`, receipt.ReceiptNumber))
	w.Write(data)
}
