package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdvlabs/pdv-sales-platform/internal/models"
)

type OperatorRepository interface {
	ListActiveOperators(ctx context.Context) ([]models.Operator, error)
}

type operatorRepository struct {
	DB *sql.DB
}

func NewOperatorRepo(db *sql.DB) OperatorRepository {
	return &operatorRepository{DB: db}
}

func (r *operatorRepository) ListActiveOperators(ctx context.Context) ([]models.Operator, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, is_active, created_at
		FROM pdv_operators
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active operators: %w", err)
	}

	defer rows.Close()

	var operators []models.Operator

	for rows.Next() {
		var op models.Operator

		if err := rows.Scan(&op.ID, &op.Name, &op.IsActive, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan operator: %w", err)
		}

		operators = append(operators, op)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return operators, nil
}
