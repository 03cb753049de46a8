package service

import (
	"context"

	"github.com/pdvlabs/pdv-sales-platform/internal/errors"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	repository "github.com/pdvlabs/pdv-sales-platform/internal/repositories"
)

type OperatorService struct {
	repo repository.OperatorRepository
}

func NewOperatorService(repo repository.OperatorRepository) *OperatorService {
	return &OperatorService{repo: repo}
}

func (s *OperatorService) ListActiveOperators(ctx context.Context) ([]models.Operator, error) {

	operators, err := s.repo.ListActiveOperators(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch operators").WithError(err)
	}

	return operators, nil
}
