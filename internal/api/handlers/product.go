package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pdvlabs/pdv-sales-platform/internal/api/middleware"
	service "github.com/pdvlabs/pdv-sales-platform/internal/services"
	"github.com/pdvlabs/pdv-sales-platform/internal/utils/response"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts godoc
//	@Summary		List active products
//	@Description	Catalog for the sales screen, ordered by name.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{object}	response.APIResponse
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.productService.ListActiveProducts(r.Context())
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}
