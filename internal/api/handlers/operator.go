package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pdvlabs/pdv-sales-platform/internal/api/middleware"
	service "github.com/pdvlabs/pdv-sales-platform/internal/services"
	"github.com/pdvlabs/pdv-sales-platform/internal/utils/response"
)

type OperatorHandler struct {
	operatorService *service.OperatorService
}

func NewOperatorHandler(operatorService *service.OperatorService) *OperatorHandler {
	return &OperatorHandler{operatorService: operatorService}
}

func (h *OperatorHandler) ListOperators() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		operators, err := h.operatorService.ListActiveOperators(r.Context())
		if err != nil {
			logger.Error("Failed to list operators", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, operators)
	}
}
