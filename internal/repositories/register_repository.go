package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdvlabs/pdv-sales-platform/internal/models"
)

type RegisterRepository interface {
	// CurrentRegister returns the open cash register session, or
	// sql.ErrNoRows when no session is open. Callers must not cache the
	// result: closing the drawer has to block the very next checkout.
	CurrentRegister(ctx context.Context) (*models.CashRegister, error)
}

type registerRepository struct {
	DB *sql.DB
}

func NewRegisterRepo(db *sql.DB) RegisterRepository {
	return &registerRepository{DB: db}
}

func (r *registerRepository) CurrentRegister(ctx context.Context) (*models.CashRegister, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	register := &models.CashRegister{}

	query := `
		SELECT id, opened_by, opening_amount, is_open, opened_at, closed_at
		FROM pdv_cash_registers
		WHERE is_open = true
		ORDER BY opened_at DESC
		LIMIT 1
	`

	err := r.DB.QueryRowContext(dbCtx, query).Scan(&register.ID, &register.OpenedBy, &register.OpeningAmount, &register.IsOpen, &register.OpenedAt, &register.ClosedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get current register: %w", err)
	}

	return register, nil
}
