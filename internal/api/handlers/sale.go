package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pdvlabs/pdv-sales-platform/internal/api/middleware"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	service "github.com/pdvlabs/pdv-sales-platform/internal/services"
	"github.com/pdvlabs/pdv-sales-platform/internal/utils"
	"github.com/pdvlabs/pdv-sales-platform/internal/utils/response"
)

type SaleHandler struct {
	saleService *service.SaleService
	cartService *service.CartService
	validator   *validator.Validate
}

func NewSaleHandler(saleService *service.SaleService, cartService *service.CartService) *SaleHandler {
	return &SaleHandler{saleService: saleService, cartService: cartService, validator: validator.New()}
}

// CreateSale godoc
//	@Summary		Finish the current sale
//	@Description	Consumes the operator's cart and persists the sale with its items. Requires an open cash register.
//	@Tags			Sales
//	@Accept			json
//	@Produce		json
//	@Param			sale	body		models.CreateSaleRequest	true	"Payment and checkout parameters"
//	@Success		201		{object}	models.Sale					"Persisted sale with its items"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error, empty cart, or insufficient payment"
//	@Failure		409		{object}	response.ErrorResponse		"No open cash register"
//	@Failure		500		{object}	response.ErrorResponse		"Storage failure"
//	@Router			/sales [post]
func (h *SaleHandler) CreateSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateSaleRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create sale input")
			return
		}

		logger = logger.With(slog.String("operatorId", req.OperatorID.String()))

		// The coordinator works on a snapshot; the live cart is only
		// cleared once the sale is durable.
		cart := h.cartService.Snapshot(req.OperatorID)

		sale, err := h.saleService.CreateSale(r.Context(), cart, &req)
		if err != nil {
			logger.Error("Failed to create sale", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		h.cartService.Clear(req.OperatorID)

		logger.Info("Sale created successfully",
			slog.String("saleId", sale.ID.String()),
			slog.Int64("saleNumber", sale.SaleNumber))
		response.Success(w, http.StatusCreated, sale)
	}
}

// CancelSale godoc
//	@Summary		Cancel a sale
//	@Description	One-way audited transition; financial fields are untouched.
//	@Tags			Sales
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Sale ID (UUID)"	Format(uuid)
//	@Param			cancel	body		models.CancelSaleRequest	true	"Cancellation reason and operator"
//	@Success		200		{object}	models.Sale
//	@Failure		400		{object}	response.ErrorResponse	"Already cancelled or invalid input"
//	@Failure		404		{object}	response.ErrorResponse	"Sale not found"
//	@Router			/sales/{id}/cancel [post]
func (h *SaleHandler) CancelSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid sale id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("saleId", id.String()))

		var req models.CancelSaleRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cancel sale input")
			return
		}

		sale, err := h.saleService.CancelSale(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to cancel sale", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Sale cancelled")
		response.Success(w, http.StatusOK, sale)
	}
}

// ListSales godoc
//	@Summary		List sales
//	@Description	Optional filters: startDate, endDate (RFC 3339, inclusive), operatorId, cancelled. Newest first.
//	@Tags			Sales
//	@Produce		json
//	@Success		200	{object}	response.APIResponse
//	@Router			/sales [get]
func (h *SaleHandler) ListSales() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseSaleFilter(r)
		if err != nil {
			logger.Warn("Invalid sale filter", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		sales, err := h.saleService.ListSales(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list sales", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Sales listed", slog.Int("count", len(sales)))
		response.Success(w, http.StatusOK, sales)
	}
}

func parseSaleFilter(r *http.Request) (*models.SaleFilter, error) {
	q := r.URL.Query()
	filter := &models.SaleFilter{}

	if raw := q.Get("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, invalidFilter("startDate", err)
		}

		filter.StartDate = &t
	}

	if raw := q.Get("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, invalidFilter("endDate", err)
		}

		filter.EndDate = &t
	}

	if raw := q.Get("operatorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, invalidFilter("operatorId", err)
		}

		filter.OperatorID = &id
	}

	if raw := q.Get("cancelled"); raw != "" {
		cancelled := raw == "true"
		if raw != "true" && raw != "false" {
			return nil, invalidFilter("cancelled", nil)
		}

		filter.Cancelled = &cancelled
	}

	return filter, nil
}
