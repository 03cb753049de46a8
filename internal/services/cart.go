package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pdvlabs/pdv-sales-platform/internal/errors"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	"github.com/pdvlabs/pdv-sales-platform/internal/pricing"
	repository "github.com/pdvlabs/pdv-sales-platform/internal/repositories"
)

// CartService holds the in-progress carts, one per operator session. Carts
// are transient: they live in memory only and are consumed (or abandoned) at
// checkout, never partially persisted.
type CartService struct {
	productRepo repository.ProductRepository

	mu    sync.Mutex
	carts map[uuid.UUID]*models.Cart
}

func NewCartService(productRepo repository.ProductRepository) *CartService {
	return &CartService{
		productRepo: productRepo,
		carts:       make(map[uuid.UUID]*models.Cart),
	}
}

func (s *CartService) cartFor(operatorID uuid.UUID) *models.Cart {
	cart, ok := s.carts[operatorID]
	if !ok {
		cart = &models.Cart{OperatorID: operatorID, PaymentType: models.PaymentTypeCash}
		s.carts[operatorID] = cart
	}

	return cart
}

// AddItem merges into an existing line when the product is already in the
// cart: unit products gain one unit, weighable products gain the supplied
// weight. A new weighable line with no weight starts at zero and must be
// completed before checkout.
func (s *CartService) AddItem(ctx context.Context, operatorID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if !product.IsActive {
		return nil, errors.BadRequestError("Product is not active")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(operatorID)

	if idx := cart.FindLine(product.ID); idx >= 0 {
		line := &cart.Items[idx]

		if line.Kind == models.ItemKindWeighable {
			line.WeightKg += req.WeightKg
		} else {
			line.Quantity++
		}

		line.Subtotal = pricing.LineSubtotal(*line)

		return snapshot(cart), nil
	}

	var line models.CartItem
	if product.IsWeighable {
		line = models.NewWeighableItem(*product, req.WeightKg)
	} else {
		line = models.NewUnitItem(*product, 1)
	}

	line.Subtotal = pricing.LineSubtotal(line)
	cart.Items = append(cart.Items, line)

	return snapshot(cart), nil
}

// AdjustItem models the +/- stepper: a whole unit per step for unit lines, a
// fixed 0.1 kg per step for weighable lines. A line driven to zero or below
// is pruned, never kept as a zero-value line.
func (s *CartService) AdjustItem(operatorID uuid.UUID, req *models.AdjustCartItemRequest) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(operatorID)

	if req.LineIndex < 0 || req.LineIndex >= len(cart.Items) {
		return nil, errors.BadRequestError("Cart line does not exist")
	}

	line := &cart.Items[req.LineIndex]

	if line.Kind == models.ItemKindWeighable {
		line.WeightKg += float64(req.Delta) * pricing.WeightStepKg
		if line.WeightKg <= 1e-9 {
			cart.Items = append(cart.Items[:req.LineIndex], cart.Items[req.LineIndex+1:]...)

			return snapshot(cart), nil
		}
	} else {
		line.Quantity += req.Delta
		if line.Quantity <= 0 {
			cart.Items = append(cart.Items[:req.LineIndex], cart.Items[req.LineIndex+1:]...)

			return snapshot(cart), nil
		}
	}

	line.Subtotal = pricing.LineSubtotal(*line)

	return snapshot(cart), nil
}

func (s *CartService) RemoveItem(operatorID uuid.UUID, lineIndex int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(operatorID)

	if lineIndex < 0 || lineIndex >= len(cart.Items) {
		return nil, errors.BadRequestError("Cart line does not exist")
	}

	cart.Items = append(cart.Items[:lineIndex], cart.Items[lineIndex+1:]...)

	return snapshot(cart), nil
}

// SetCheckoutSelection records the payment type, received amount and discount
// the operator picked, so totals can be previewed live.
func (s *CartService) SetCheckoutSelection(operatorID uuid.UUID, req *models.CheckoutSelectionRequest) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(operatorID)
	cart.PaymentType = req.PaymentType
	cart.ReceivedAmount = req.ReceivedAmount
	cart.DiscountPercentage = req.DiscountPercentage

	return snapshot(cart), nil
}

// Clear is "start new sale": the items and the pending payment selections go
// away together.
func (s *CartService) Clear(operatorID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, operatorID)
}

// Snapshot hands out an independent copy for checkout, so the coordinator
// works against a cart no concurrent mutation can touch.
func (s *CartService) Snapshot(operatorID uuid.UUID) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot(s.cartFor(operatorID))
}

// View pairs the cart with its derived amounts for live display.
func (s *CartService) View(operatorID uuid.UUID) *models.CartView {
	cart := s.Snapshot(operatorID)

	total := pricing.Total(cart, cart.DiscountPercentage)

	view := &models.CartView{
		Cart:           cart,
		Subtotal:       pricing.CartSubtotal(cart),
		DiscountAmount: pricing.DiscountAmount(cart, cart.DiscountPercentage),
		Total:          total,
	}

	if cart.PaymentType == models.PaymentTypeCash {
		view.Change = pricing.ChangeDue(cart.ReceivedAmount, total)
	}

	return view
}

func snapshot(cart *models.Cart) *models.Cart {
	copied := *cart
	copied.Items = make([]models.CartItem, len(cart.Items))
	copy(copied.Items, cart.Items)

	return &copied
}
