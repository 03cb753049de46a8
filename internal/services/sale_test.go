package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "github.com/pdvlabs/pdv-sales-platform/internal/errors"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	"github.com/pdvlabs/pdv-sales-platform/internal/repositories/mocks"
	service "github.com/pdvlabs/pdv-sales-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupSaleServiceTest(t *testing.T) (*service.SaleService, *mocks.SaleRepository, *mocks.RegisterRepository) {
	t.Helper()

	mockSaleRepo := mocks.NewSaleRepository()
	mockRegisterRepo := mocks.NewRegisterRepository()
	saleService := service.NewSaleService(mockSaleRepo, mockRegisterRepo)

	return saleService, mockSaleRepo, mockRegisterRepo
}

func openRegister() *models.CashRegister {
	return &models.CashRegister{
		ID:       uuid.New(),
		OpenedBy: uuid.New(),
		IsOpen:   true,
		OpenedAt: time.Now(),
	}
}

func unitCart(operatorID uuid.UUID, quantity int, unitPrice float64) *models.Cart {
	product := models.Product{ID: uuid.New(), Name: "Coffee 500g", UnitPrice: unitPrice, IsActive: true}
	line := models.NewUnitItem(product, quantity)
	line.Subtotal = float64(quantity) * unitPrice

	return &models.Cart{
		OperatorID: operatorID,
		Items:      []models.CartItem{line},
	}
}

func TestCreateSale_Success(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()
	register := openRegister()

	mockRegisterRepo.On("CurrentRegister", ctx).Return(register, nil).Once()

	cart := unitCart(operatorID, 3, 10.0)

	weighable := models.Product{ID: uuid.New(), Name: "Bananas", IsWeighable: true, PricePerGram: 0.05, IsActive: true}
	weighLine := models.NewWeighableItem(weighable, 0.2)
	weighLine.Subtotal = 0.2 * 0.05 * 1000
	cart.Items = append(cart.Items, weighLine)

	mockSaleRepo.On("CreateSale", ctx, mock.AnythingOfType("*models.Sale")).Return(nil).Run(func(args mock.Arguments) {
		saleArg := args.Get(1).(*models.Sale)
		saleArg.ID = uuid.New()
		saleArg.SaleNumber = 42
	}).Once()
	mockSaleRepo.On("CreateSaleItems", ctx, mock.AnythingOfType("[]models.SaleItem")).Return(nil).Once()

	req := &models.CreateSaleRequest{
		OperatorID:         operatorID,
		PaymentType:        models.PaymentTypeCash,
		DiscountPercentage: 10.0,
		ReceivedAmount:     40.0,
		CustomerName:       "Maria",
	}

	// Act
	sale, err := saleService.CreateSale(ctx, cart, req)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, sale)
	assert.Equal(t, int64(42), sale.SaleNumber)
	assert.Equal(t, models.DefaultChannel, sale.Channel)
	assert.Equal(t, register.ID, sale.CashRegisterID)
	assert.InDelta(t, 40.0, sale.Subtotal, 1e-9)
	assert.InDelta(t, 4.0, sale.DiscountAmount, 1e-9)
	assert.InDelta(t, 36.0, sale.TotalAmount, 1e-9)
	assert.InDelta(t, 40.0, sale.ReceivedAmount, 1e-9)
	assert.InDelta(t, 4.0, sale.ChangeAmount, 1e-9)
	assert.Len(t, sale.Items, 2)
	assert.Equal(t, sale.ID, sale.Items[0].SaleID)

	mockRegisterRepo.AssertExpectations(t)
	mockSaleRepo.AssertExpectations(t)
}

func TestCreateSale_NonCashReceivedEqualsTotal(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()

	mockRegisterRepo.On("CurrentRegister", ctx).Return(openRegister(), nil).Once()
	mockSaleRepo.On("CreateSale", ctx, mock.AnythingOfType("*models.Sale")).Return(nil).Once()
	mockSaleRepo.On("CreateSaleItems", ctx, mock.AnythingOfType("[]models.SaleItem")).Return(nil).Once()

	cart := unitCart(operatorID, 2, 15.0)

	// Received amount on card payments is ignored; it settles at the total.
	req := &models.CreateSaleRequest{
		OperatorID:     operatorID,
		PaymentType:    models.PaymentTypeCreditCard,
		ReceivedAmount: 5.0,
	}

	// Act
	sale, err := saleService.CreateSale(ctx, cart, req)

	// Assert
	assert.NoError(t, err)
	assert.InDelta(t, 30.0, sale.ReceivedAmount, 1e-9)
	assert.InDelta(t, 0.0, sale.ChangeAmount, 1e-9)

	mockSaleRepo.AssertExpectations(t)
}

func TestCreateSale_RegisterClosed(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()

	closed := openRegister()
	closed.IsOpen = false
	mockRegisterRepo.On("CurrentRegister", ctx).Return(closed, nil).Once()

	req := &models.CreateSaleRequest{OperatorID: operatorID, PaymentType: models.PaymentTypeCash, ReceivedAmount: 100.0}

	// Act
	sale, err := saleService.CreateSale(ctx, unitCart(operatorID, 1, 10.0), req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeRegisterClosed, appErr.Code)

	// A closed register must short-circuit before any write.
	mockSaleRepo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	mockRegisterRepo.AssertExpectations(t)
}

func TestCreateSale_RegisterLookupError(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()

	mockErr := errors.New("mock register repo error")
	mockRegisterRepo.On("CurrentRegister", ctx).Return(nil, mockErr).Once()

	req := &models.CreateSaleRequest{OperatorID: operatorID, PaymentType: models.PaymentTypeCash, ReceivedAmount: 100.0}

	// Act
	sale, err := saleService.CreateSale(ctx, unitCart(operatorID, 1, 10.0), req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeRegisterClosed, appErr.Code)
	assert.ErrorIs(t, appErr.Unwrap(), mockErr)

	mockSaleRepo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
}

func TestCreateSale_EmptyCart(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()

	mockRegisterRepo.On("CurrentRegister", ctx).Return(openRegister(), nil).Once()

	req := &models.CreateSaleRequest{OperatorID: operatorID, PaymentType: models.PaymentTypeCash, ReceivedAmount: 100.0}

	// Act
	sale, err := saleService.CreateSale(ctx, &models.Cart{OperatorID: operatorID}, req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeEmptyCart, appErr.Code)

	mockSaleRepo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
}

func TestCreateSale_LineAwaitingWeight(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()

	mockRegisterRepo.On("CurrentRegister", ctx).Return(openRegister(), nil).Once()

	weighable := models.Product{ID: uuid.New(), Name: "Grapes", IsWeighable: true, PricePerGram: 0.02, IsActive: true}
	cart := &models.Cart{
		OperatorID: operatorID,
		Items:      []models.CartItem{models.NewWeighableItem(weighable, 0)},
	}

	req := &models.CreateSaleRequest{OperatorID: operatorID, PaymentType: models.PaymentTypeCash, ReceivedAmount: 100.0}

	// Act
	sale, err := saleService.CreateSale(ctx, cart, req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)

	mockSaleRepo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
}

func TestCreateSale_InsufficientCashPayment(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()

	mockRegisterRepo.On("CurrentRegister", ctx).Return(openRegister(), nil).Once()

	req := &models.CreateSaleRequest{
		OperatorID:     operatorID,
		PaymentType:    models.PaymentTypeCash,
		ReceivedAmount: 25.0,
	}

	// Act
	sale, err := saleService.CreateSale(ctx, unitCart(operatorID, 3, 10.0), req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeInsufficientPayment, appErr.Code)

	mockSaleRepo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
}

func TestCreateSale_ItemInsertFails_CompensatingDelete(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()
	saleID := uuid.New()

	mockRegisterRepo.On("CurrentRegister", ctx).Return(openRegister(), nil).Once()

	mockSaleRepo.On("CreateSale", ctx, mock.AnythingOfType("*models.Sale")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Sale).ID = saleID
	}).Once()

	itemsErr := errors.New("mock item insert error")
	mockSaleRepo.On("CreateSaleItems", ctx, mock.AnythingOfType("[]models.SaleItem")).Return(itemsErr).Once()
	mockSaleRepo.On("DeleteSale", ctx, saleID).Return(nil).Once()

	req := &models.CreateSaleRequest{OperatorID: operatorID, PaymentType: models.PaymentTypeCash, ReceivedAmount: 100.0}

	// Act
	sale, err := saleService.CreateSale(ctx, unitCart(operatorID, 1, 10.0), req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)

	// The caller sees the original item failure, not the compensation.
	assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	assert.ErrorIs(t, appErr.Unwrap(), itemsErr)

	mockSaleRepo.AssertExpectations(t)
}

func TestCreateSale_CompensatingDeleteFails_InconsistentState(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, mockRegisterRepo := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()
	saleID := uuid.New()

	mockRegisterRepo.On("CurrentRegister", ctx).Return(openRegister(), nil).Once()

	mockSaleRepo.On("CreateSale", ctx, mock.AnythingOfType("*models.Sale")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Sale).ID = saleID
	}).Once()

	itemsErr := errors.New("mock item insert error")
	delErr := errors.New("mock delete error")
	mockSaleRepo.On("CreateSaleItems", ctx, mock.AnythingOfType("[]models.SaleItem")).Return(itemsErr).Once()
	mockSaleRepo.On("DeleteSale", ctx, saleID).Return(delErr).Once()

	req := &models.CreateSaleRequest{OperatorID: operatorID, PaymentType: models.PaymentTypeCash, ReceivedAmount: 100.0}

	// Act
	sale, err := saleService.CreateSale(ctx, unitCart(operatorID, 1, 10.0), req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeInconsistentState, appErr.Code)
	assert.ErrorIs(t, appErr.Unwrap(), itemsErr)
	assert.ErrorIs(t, appErr.Unwrap(), delErr)

	mockSaleRepo.AssertExpectations(t)
}

func TestCancelSale_Success(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, _ := setupSaleServiceTest(t)
	ctx := context.Background()
	saleID := uuid.New()
	cancellerID := uuid.New()

	existing := &models.Sale{ID: saleID, TotalAmount: 36.0}
	mockSaleRepo.On("GetSaleByID", ctx, saleID).Return(existing, nil).Once()
	mockSaleRepo.On("CancelSale", ctx, saleID, cancellerID, "customer gave up", mock.AnythingOfType("time.Time")).Return(nil).Once()

	req := &models.CancelSaleRequest{OperatorID: cancellerID, Reason: "customer gave up"}

	// Act
	sale, err := saleService.CancelSale(ctx, saleID, req)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, sale)
	assert.True(t, sale.IsCancelled)
	assert.NotNil(t, sale.CancelledAt)
	assert.Equal(t, cancellerID, *sale.CancelledBy)
	assert.Equal(t, "customer gave up", sale.CancelReason)

	// Cancellation leaves totals as they were recorded at checkout.
	assert.InDelta(t, 36.0, sale.TotalAmount, 1e-9)

	mockSaleRepo.AssertExpectations(t)
}

func TestCancelSale_AlreadyCancelled(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, _ := setupSaleServiceTest(t)
	ctx := context.Background()
	saleID := uuid.New()

	existing := &models.Sale{ID: saleID, IsCancelled: true}
	mockSaleRepo.On("GetSaleByID", ctx, saleID).Return(existing, nil).Once()

	req := &models.CancelSaleRequest{OperatorID: uuid.New(), Reason: "double click"}

	// Act
	sale, err := saleService.CancelSale(ctx, saleID, req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)

	mockSaleRepo.AssertNotCalled(t, "CancelSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelSale_NotFound(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, _ := setupSaleServiceTest(t)
	ctx := context.Background()
	saleID := uuid.New()

	mockErr := errors.New("mock repo error: not found")
	mockSaleRepo.On("GetSaleByID", ctx, saleID).Return(nil, mockErr).Once()

	req := &models.CancelSaleRequest{OperatorID: uuid.New(), Reason: "wrong sale"}

	// Act
	sale, err := saleService.CancelSale(ctx, saleID, req)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sale)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	assert.ErrorIs(t, appErr.Unwrap(), mockErr)

	mockSaleRepo.AssertExpectations(t)
}

func TestListSales_Success(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, _ := setupSaleServiceTest(t)
	ctx := context.Background()
	operatorID := uuid.New()

	expected := []models.Sale{
		{ID: uuid.New(), OperatorID: operatorID},
		{ID: uuid.New(), OperatorID: operatorID},
	}
	filter := &models.SaleFilter{OperatorID: &operatorID}
	mockSaleRepo.On("ListSales", ctx, filter).Return(expected, nil).Once()

	// Act
	sales, err := saleService.ListSales(ctx, filter)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, expected, sales)

	mockSaleRepo.AssertExpectations(t)
}

func TestListSales_RepoError(t *testing.T) {
	// Arrange
	saleService, mockSaleRepo, _ := setupSaleServiceTest(t)
	ctx := context.Background()

	mockErr := errors.New("mock repo list error")
	mockSaleRepo.On("ListSales", ctx, mock.AnythingOfType("*models.SaleFilter")).Return(nil, mockErr).Once()

	// Act
	sales, err := saleService.ListSales(ctx, &models.SaleFilter{})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, sales)
	appErr, ok := appErrors.IsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	assert.ErrorIs(t, appErr.Unwrap(), mockErr)

	mockSaleRepo.AssertExpectations(t)
}
