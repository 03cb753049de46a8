package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pdvlabs/pdv-sales-platform/internal/errors"
	"github.com/pdvlabs/pdv-sales-platform/internal/metrics"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	"github.com/pdvlabs/pdv-sales-platform/internal/pricing"
	repository "github.com/pdvlabs/pdv-sales-platform/internal/repositories"
)

// SaleService turns a cart into a durable sale. The header and the item
// batch are two separate writes against a store with no cross-statement
// atomicity, so a failed item batch triggers a compensating delete of the
// header: a sale must never stay durably visible without its items.
type SaleService struct {
	saleRepo     repository.SaleRepository
	registerRepo repository.RegisterRepository
	sanitizer    *bluemonday.Policy
}

func NewSaleService(saleRepo repository.SaleRepository, registerRepo repository.RegisterRepository) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		registerRepo: registerRepo,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (s *SaleService) CreateSale(ctx context.Context, cart *models.Cart, req *models.CreateSaleRequest) (*models.Sale, error) {

	// Register state is read fresh on every call; closing the drawer must
	// block the very next checkout.
	register, err := s.registerRepo.CurrentRegister(ctx)
	if err != nil || register == nil || !register.IsOpen {
		return nil, errors.RegisterClosedError("Cannot finish a sale without an open cash register").WithError(err)
	}

	if cart == nil || len(cart.Items) == 0 {
		return nil, errors.EmptyCartError("Cannot create a sale from an empty cart")
	}

	for i := range cart.Items {
		line := &cart.Items[i]
		if (line.Kind == models.ItemKindWeighable && line.WeightKg <= 0) ||
			(line.Kind == models.ItemKindUnit && line.Quantity <= 0) {
			return nil, errors.BadRequestError("Cart has a line awaiting weight or quantity")
		}
	}

	total := pricing.Total(cart, req.DiscountPercentage)

	received := req.ReceivedAmount
	if req.PaymentType == models.PaymentTypeCash {
		if received < total {
			return nil, errors.InsufficientPaymentError("Received amount is less than the sale total")
		}
	} else {
		// Non-cash payments settle exactly; no shortfall check applies.
		received = total
	}

	channel := req.Channel
	if channel == "" {
		channel = models.DefaultChannel
	}

	sale := &models.Sale{
		Channel:            channel,
		CashRegisterID:     register.ID,
		OperatorID:         req.OperatorID,
		PaymentType:        req.PaymentType,
		Subtotal:           pricing.CartSubtotal(cart),
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     pricing.DiscountAmount(cart, req.DiscountPercentage),
		TotalAmount:        total,
		ReceivedAmount:     received,
		ChangeAmount:       pricing.ChangeDue(received, total),
		CustomerName:       s.sanitizer.Sanitize(req.CustomerName),
		CustomerPhone:      s.sanitizer.Sanitize(req.CustomerPhone),
		Notes:              s.sanitizer.Sanitize(req.Notes),
	}

	if err := s.saleRepo.CreateSale(ctx, sale); err != nil {
		return nil, errors.DatabaseError("Failed to create sale").WithError(err)
	}

	items := make([]models.SaleItem, 0, len(cart.Items))

	for _, line := range cart.Items {
		items = append(items, models.SaleItem{
			ID:           uuid.New(),
			SaleID:       sale.ID,
			ProductID:    line.Product.ID,
			ProductName:  line.Product.Name,
			IsWeighable:  line.Kind == models.ItemKindWeighable,
			Quantity:     line.Quantity,
			WeightKg:     line.WeightKg,
			UnitPrice:    line.Product.UnitPrice,
			PricePerGram: line.Product.PricePerGram,
			Subtotal:     line.Subtotal,
			Discount:     line.Discount,
		})
	}

	if itemsErr := s.saleRepo.CreateSaleItems(ctx, items); itemsErr != nil {

		// Compensating delete: undo the header so no sale exists without
		// items. The caller gets the original item-insert failure back.
		if delErr := s.saleRepo.DeleteSale(ctx, sale.ID); delErr != nil {
			metrics.IncSaleOrphanedHeader()
			slog.Error("Sale header left without items; compensating delete failed",
				slog.String("saleId", sale.ID.String()),
				slog.Any("itemsError", itemsErr),
				slog.Any("deleteError", delErr))

			return nil, errors.InconsistentStateError("Sale was created without items and could not be rolled back").
				WithError(stderrors.Join(itemsErr, delErr))
		}

		metrics.IncSaleCompensation()

		return nil, errors.DatabaseError("Failed to create sale items").WithError(itemsErr)
	}

	sale.Items = items

	metrics.IncSaleCreated(string(sale.PaymentType))

	return sale, nil
}

// CancelSale is a one-way audit transition. Totals are not recomputed and
// inventory is untouched; only the cancellation fields change. Cancelling an
// already-cancelled sale is rejected.
func (s *SaleService) CancelSale(ctx context.Context, saleID uuid.UUID, req *models.CancelSaleRequest) (*models.Sale, error) {

	sale, err := s.saleRepo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, errors.NotFoundError("Sale not found").WithError(err)
	}

	if sale.IsCancelled {
		return nil, errors.BadRequestError("Sale is already cancelled")
	}

	cancelledAt := time.Now()
	reason := s.sanitizer.Sanitize(req.Reason)

	if err := s.saleRepo.CancelSale(ctx, saleID, req.OperatorID, reason, cancelledAt); err != nil {
		return nil, errors.DatabaseError("Failed to cancel sale").WithError(err)
	}

	operatorID := req.OperatorID
	sale.IsCancelled = true
	sale.CancelledAt = &cancelledAt
	sale.CancelledBy = &operatorID
	sale.CancelReason = reason
	sale.UpdatedAt = cancelledAt

	metrics.IncSaleCancelled()

	return sale, nil
}

func (s *SaleService) ListSales(ctx context.Context, filter *models.SaleFilter) ([]models.Sale, error) {

	sales, err := s.saleRepo.ListSales(ctx, filter)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch sales").WithError(err)
	}

	return sales, nil
}
