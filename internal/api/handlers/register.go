package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pdvlabs/pdv-sales-platform/internal/api/middleware"
	service "github.com/pdvlabs/pdv-sales-platform/internal/services"
	"github.com/pdvlabs/pdv-sales-platform/internal/utils/response"
)

type RegisterHandler struct {
	registerService *service.RegisterService
}

func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// GetStatus reports whether a drawer session is open right now. The sales
// screen polls this; the coordinator re-checks on its own at checkout.
func (h *RegisterHandler) GetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		status, err := h.registerService.Status(r.Context())
		if err != nil {
			logger.Error("Failed to read register status", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, status)
	}
}
