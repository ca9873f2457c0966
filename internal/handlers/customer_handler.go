package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"engrave-backend/internal/models"
	"engrave-backend/internal/services"
	"engrave-backend/pkg/utils"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}
	if customers == nil {
		customers = []*models.Customer{}
	}

	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	customer, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.Error(w, http.StatusNotFound, "Customer not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to load customer")
		return
	}

	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.Error(w, http.StatusNotFound, "Customer not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	utils.JSON(w, http.StatusOK, customer)
}
