package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/pdvlabs/pdv-sales-platform/internal/errors"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	repository "github.com/pdvlabs/pdv-sales-platform/internal/repositories"
)

type RegisterService struct {
	repo repository.RegisterRepository
}

func NewRegisterService(repo repository.RegisterRepository) *RegisterService {
	return &RegisterService{repo: repo}
}

// Status reports the current drawer session. No open session is a normal
// state, not an error.
func (s *RegisterService) Status(ctx context.Context) (*models.RegisterStatusResponse, error) {

	register, err := s.repo.CurrentRegister(ctx)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return &models.RegisterStatusResponse{IsOpen: false}, nil
		}

		return nil, errors.DatabaseError("Failed to read register status").WithError(err)
	}

	id := register.ID

	return &models.RegisterStatusResponse{ID: &id, IsOpen: register.IsOpen}, nil
}
