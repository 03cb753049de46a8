package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pdvlabs/pdv-sales-platform/internal/api/middleware"
	"github.com/pdvlabs/pdv-sales-platform/internal/errors"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	service "github.com/pdvlabs/pdv-sales-platform/internal/services"
	"github.com/pdvlabs/pdv-sales-platform/internal/utils"
	"github.com/pdvlabs/pdv-sales-platform/internal/utils/response"
)

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart returns the operator's cart with derived totals for live display.
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		operatorID, err := utils.ParseID(r, "operatorId")
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, h.cartService.View(operatorID))
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		operatorID, err := utils.ParseID(r, "operatorId")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), operatorID, &req)
		if err != nil {
			logger.Error("Failed to add item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AdjustItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		operatorID, err := utils.ParseID(r, "operatorId")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.AdjustCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid adjust item input")
			return
		}

		cart, err := h.cartService.AdjustItem(operatorID, &req)
		if err != nil {
			logger.Error("Failed to adjust item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		operatorID, err := utils.ParseID(r, "operatorId")
		if err != nil {
			response.Error(w, err)
			return
		}

		lineIndex, err := strconv.Atoi(r.PathValue("index"))
		if err != nil || lineIndex < 0 {
			response.Error(w, errors.BadRequestError("Invalid line index"))
			return
		}

		cart, err := h.cartService.RemoveItem(operatorID, lineIndex)
		if err != nil {
			logger.Error("Failed to remove item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// SetCheckoutSelection records payment type, received amount and discount so
// the cart view can show totals and change before the sale is finished.
func (h *CartHandler) SetCheckoutSelection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		operatorID, err := utils.ParseID(r, "operatorId")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.CheckoutSelectionRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout selection input")
			return
		}

		cart, err := h.cartService.SetCheckoutSelection(operatorID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart starts a new sale: items and checkout selections reset together.
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		operatorID, err := utils.ParseID(r, "operatorId")
		if err != nil {
			response.Error(w, err)
			return
		}

		h.cartService.Clear(operatorID)

		response.Success(w, http.StatusOK, h.cartService.View(operatorID))
	}
}
