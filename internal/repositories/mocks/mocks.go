// Package mocks provides hand-written testify mocks for the repository
// interfaces. The sale service tests lean on the recorded calls to prove
// that failed preconditions perform zero writes.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	"github.com/stretchr/testify/mock"
)

type SaleRepository struct {
	mock.Mock
}

func NewSaleRepository() *SaleRepository {
	return &SaleRepository{}
}

func (m *SaleRepository) CreateSale(ctx context.Context, sale *models.Sale) error {
	args := m.Called(ctx, sale)

	return args.Error(0)
}

func (m *SaleRepository) CreateSaleItems(ctx context.Context, items []models.SaleItem) error {
	args := m.Called(ctx, items)

	return args.Error(0)
}

func (m *SaleRepository) DeleteSale(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *SaleRepository) GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *SaleRepository) CancelSale(ctx context.Context, id uuid.UUID, cancelledBy uuid.UUID, reason string, cancelledAt time.Time) error {
	args := m.Called(ctx, id, cancelledBy, reason, cancelledAt)

	return args.Error(0)
}

func (m *SaleRepository) ListSales(ctx context.Context, filter *models.SaleFilter) ([]models.Sale, error) {
	args := m.Called(ctx, filter)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Sale), args.Error(1)
}

type RegisterRepository struct {
	mock.Mock
}

func NewRegisterRepository() *RegisterRepository {
	return &RegisterRepository{}
}

func (m *RegisterRepository) CurrentRegister(ctx context.Context) (*models.CashRegister, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CashRegister), args.Error(1)
}

type ProductRepository struct {
	mock.Mock
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (m *ProductRepository) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

type OperatorRepository struct {
	mock.Mock
}

func NewOperatorRepository() *OperatorRepository {
	return &OperatorRepository{}
}

func (m *OperatorRepository) ListActiveOperators(ctx context.Context) ([]models.Operator, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Operator), args.Error(1)
}
