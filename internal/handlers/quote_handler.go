package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"engrave-backend/internal/metrics"
	"engrave-backend/internal/models"
	"engrave-backend/internal/services"
	"engrave-backend/pkg/utils"
)

type QuoteHandler struct {
	Intake    *services.IntakeService
	Quotes    *services.QuoteService
	Lifecycle *services.LifecycleService
}

func NewQuoteHandler(intake *services.IntakeService, quotes *services.QuoteService, lifecycle *services.LifecycleService) *QuoteHandler {
	return &QuoteHandler{Intake: intake, Quotes: quotes, Lifecycle: lifecycle}
}

// Submit is the public intake endpoint. The site form posts either JSON or
// multipart form data depending on whether files are attached.
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := parseIntakeRequest(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Intake.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to submit quote")
		return
	}

	metrics.QuotesSubmittedTotal.Inc()
	utils.JSON(w, http.StatusCreated, result)
}

func parseIntakeRequest(r *http.Request) (*models.IntakeRequest, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req models.IntakeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}

	return &models.IntakeRequest{
		Name:            r.FormValue("name"),
		Phone:           r.FormValue("phone"),
		Email:           r.FormValue("email"),
		BusinessName:    r.FormValue("businessName"),
		BusinessType:    r.FormValue("businessType"),
		Address:         r.FormValue("address"),
		City:            r.FormValue("city"),
		State:           r.FormValue("state"),
		Zip:             r.FormValue("zip"),
		ProductType:     r.FormValue("productType"),
		Quantity:        r.FormValue("quantity"),
		Description:     r.FormValue("description"),
		Turnaround:      r.FormValue("turnaround"),
		DeliveryMethod:  r.FormValue("deliveryMethod"),
		CardData:        r.FormValue("cardData"),
		PenData:         r.FormValue("penData"),
		LabelData:       r.FormValue("labelData"),
		TumblerData:     r.FormValue("tumblerData"),
		SignData:        r.FormValue("signData"),
		CalculatedPrice: r.FormValue("calculatedPrice"),
		IsOrder:         r.FormValue("isOrder"),
	}, nil
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := &models.QuoteFilter{
		Status: r.URL.Query().Get("status"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	quotes, err := h.Quotes.List(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list quotes")
		return
	}
	if quotes == nil {
		quotes = []*models.QuoteWithCustomer{}
	}

	utils.JSON(w, http.StatusOK, quotes)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid quote id")
		return
	}

	quote, err := h.Quotes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			utils.Error(w, http.StatusNotFound, "Quote not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to load quote")
		return
	}

	utils.JSON(w, http.StatusOK, quote)
}

// Price sets the admin's price on a new quote and emails the customer.
func (h *QuoteHandler) Price(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid quote id")
		return
	}

	var req models.PriceQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quote, err := h.Quotes.Price(r.Context(), id, &req)
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, quote)
}

// Accept moves a pending-approval quote into production, generates the order
// number, and creates the Square invoice.
func (h *QuoteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid quote id")
		return
	}

	result, err := h.Lifecycle.Accept(r.Context(), id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// Complete marks an in-progress quote finished and emails the customer.
func (h *QuoteHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid quote id")
		return
	}

	result, err := h.Lifecycle.Complete(r.Context(), id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// PortalGet serves the customer-facing quote view by portal token.
func (h *QuoteHandler) PortalGet(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	quote, err := h.Quotes.PortalGet(r.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			utils.Error(w, http.StatusNotFound, "Quote not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to load quote")
		return
	}

	utils.JSON(w, http.StatusOK, quote)
}

// PortalRespond records the customer's accept/decline answer.
func (h *QuoteHandler) PortalRespond(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req models.PortalResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quote, err := h.Quotes.PortalRespond(r.Context(), token, &req)
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, quote)
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func writeQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrQuoteNotFound):
		utils.Error(w, http.StatusNotFound, "Quote not found")
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrMissingPrice),
		errors.Is(err, services.ErrMissingEmail):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "Operation failed")
	}
}
