package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
)

// SaleRepository persists sale headers and their item batches as separate,
// individually atomic statements. Cross-statement atomicity is NOT assumed
// here; the sale service compensates when the second step fails.
type SaleRepository interface {
	CreateSale(ctx context.Context, sale *models.Sale) error
	CreateSaleItems(ctx context.Context, items []models.SaleItem) error
	DeleteSale(ctx context.Context, id uuid.UUID) error
	GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	CancelSale(ctx context.Context, id uuid.UUID, cancelledBy uuid.UUID, reason string, cancelledAt time.Time) error
	ListSales(ctx context.Context, filter *models.SaleFilter) ([]models.Sale, error)
}

type saleRepository struct {
	DB *sql.DB
}

func NewSaleRepo(db *sql.DB) SaleRepository {
	return &saleRepository{DB: db}
}

// CreateSale inserts the header only. The database assigns the id and the
// monotonic sale number.
func (r *saleRepository) CreateSale(ctx context.Context, sale *models.Sale) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO pdv_sales (channel, cash_register_id, operator_id, payment_type, subtotal, discount_percentage, discount_amount, total_amount, received_amount, change_amount, customer_name, customer_phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, sale_number, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query,
		sale.Channel, sale.CashRegisterID, sale.OperatorID, sale.PaymentType,
		sale.Subtotal, sale.DiscountPercentage, sale.DiscountAmount, sale.TotalAmount,
		sale.ReceivedAmount, sale.ChangeAmount,
		sale.CustomerName, sale.CustomerPhone, sale.Notes,
	).Scan(&sale.ID, &sale.SaleNumber, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	return nil
}

// CreateSaleItems writes the whole batch in one statement so the items are
// all-or-nothing with respect to each other.
func (r *saleRepository) CreateSaleItems(ctx context.Context, items []models.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	const columns = 11

	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*columns)

	for i, item := range items {
		base := i * columns
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11))
		args = append(args, item.ID, item.SaleID, item.ProductID, item.ProductName, item.IsWeighable,
			item.Quantity, item.WeightKg, item.UnitPrice, item.PricePerGram, item.Subtotal, item.Discount)
	}

	query := `
		INSERT INTO pdv_sale_items (id, sale_id, product_id, product_name, is_weighable, quantity, weight_kg, unit_price, price_per_gram, subtotal, discount)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := r.DB.ExecContext(dbCtx, query, args...); err != nil {
		return fmt.Errorf("failed to insert sale items: %w", err)
	}

	return nil
}

// DeleteSale is the compensating write for a failed item batch. It must only
// ever run against a header that has no items.
func (r *saleRepository) DeleteSale(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM pdv_sales WHERE id = $1`

	if _, err := r.DB.ExecContext(dbCtx, query, id); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	return nil
}

func (r *saleRepository) GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	sale := &models.Sale{ID: id}

	query := `
		SELECT sale_number, channel, cash_register_id, operator_id, payment_type, subtotal, discount_percentage, discount_amount, total_amount, received_amount, change_amount, customer_name, customer_phone, notes, is_cancelled, cancelled_at, cancelled_by, cancel_reason, created_at, updated_at
		FROM pdv_sales
		WHERE id = $1
	`

	var cancelReason sql.NullString

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&sale.SaleNumber, &sale.Channel, &sale.CashRegisterID, &sale.OperatorID, &sale.PaymentType,
		&sale.Subtotal, &sale.DiscountPercentage, &sale.DiscountAmount, &sale.TotalAmount,
		&sale.ReceivedAmount, &sale.ChangeAmount,
		&sale.CustomerName, &sale.CustomerPhone, &sale.Notes,
		&sale.IsCancelled, &sale.CancelledAt, &sale.CancelledBy, &cancelReason,
		&sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get the sale: %w", err)
	}

	sale.CancelReason = cancelReason.String

	items, err := r.getSaleItems(dbCtx, id)
	if err != nil {
		return nil, err
	}

	sale.Items = items

	return sale, nil
}

// CancelSale flips the audit fields in a single statement. Financial columns
// are never touched.
func (r *saleRepository) CancelSale(ctx context.Context, id uuid.UUID, cancelledBy uuid.UUID, reason string, cancelledAt time.Time) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE pdv_sales SET is_cancelled = true, cancelled_at = $1, cancelled_by = $2, cancel_reason = $3, updated_at = $4 WHERE id = $5
	`

	result, err := r.DB.ExecContext(dbCtx, query, cancelledAt, cancelledBy, reason, cancelledAt, id)
	if err != nil {
		return fmt.Errorf("failed to cancel sale: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to cancel sale: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListSales composes the optional filters with AND and returns sales newest
// first, each joined with its operator name and its item batch.
func (r *saleRepository) ListSales(ctx context.Context, filter *models.SaleFilter) ([]models.Sale, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT s.id, s.sale_number, s.channel, s.cash_register_id, s.operator_id, o.name, s.payment_type, s.subtotal, s.discount_percentage, s.discount_amount, s.total_amount, s.received_amount, s.change_amount, s.customer_name, s.customer_phone, s.notes, s.is_cancelled, s.cancelled_at, s.cancelled_by, s.cancel_reason, s.created_at, s.updated_at
		FROM pdv_sales s
		JOIN pdv_operators o ON s.operator_id = o.id
	`

	var conditions []string

	var args []any

	if filter != nil {
		if filter.StartDate != nil {
			args = append(args, *filter.StartDate)
			conditions = append(conditions, fmt.Sprintf("s.created_at >= $%d", len(args)))
		}

		if filter.EndDate != nil {
			args = append(args, *filter.EndDate)
			conditions = append(conditions, fmt.Sprintf("s.created_at <= $%d", len(args)))
		}

		if filter.OperatorID != nil {
			args = append(args, *filter.OperatorID)
			conditions = append(conditions, fmt.Sprintf("s.operator_id = $%d", len(args)))
		}

		if filter.Cancelled != nil {
			args = append(args, *filter.Cancelled)
			conditions = append(conditions, fmt.Sprintf("s.is_cancelled = $%d", len(args)))
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY s.created_at DESC"

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	defer rows.Close()

	var sales []models.Sale

	for rows.Next() {
		var sale models.Sale

		var cancelReason sql.NullString

		err := rows.Scan(
			&sale.ID, &sale.SaleNumber, &sale.Channel, &sale.CashRegisterID, &sale.OperatorID, &sale.OperatorName,
			&sale.PaymentType, &sale.Subtotal, &sale.DiscountPercentage, &sale.DiscountAmount, &sale.TotalAmount,
			&sale.ReceivedAmount, &sale.ChangeAmount,
			&sale.CustomerName, &sale.CustomerPhone, &sale.Notes,
			&sale.IsCancelled, &sale.CancelledAt, &sale.CancelledBy, &cancelReason,
			&sale.CreatedAt, &sale.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}

		sale.CancelReason = cancelReason.String

		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A header written just before a crash can legitimately have zero items
	// until reconciliation cleans it up; the empty slice is returned as-is.
	for i := range sales {
		items, err := r.getSaleItems(dbCtx, sales[i].ID)
		if err != nil {
			return nil, err
		}

		sales[i].Items = items
	}

	return sales, nil
}

func (r *saleRepository) getSaleItems(ctx context.Context, saleID uuid.UUID) ([]models.SaleItem, error) {
	query := `
		SELECT id, product_id, product_name, is_weighable, quantity, weight_kg, unit_price, price_per_gram, subtotal, discount, created_at
		FROM pdv_sale_items
		WHERE sale_id = $1
	`

	rows, err := r.DB.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the sale items: %w", err)
	}

	defer rows.Close()

	var items []models.SaleItem

	for rows.Next() {
		var item models.SaleItem

		err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.IsWeighable, &item.Quantity, &item.WeightKg, &item.UnitPrice, &item.PricePerGram, &item.Subtotal, &item.Discount, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}

		item.SaleID = saleID

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
