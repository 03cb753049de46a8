package handlers

import (
	"fmt"

	"github.com/pdvlabs/pdv-sales-platform/internal/errors"
)

func invalidFilter(name string, err error) *errors.AppError {
	appErr := errors.BadRequestError(fmt.Sprintf("Invalid filter '%s'", name))
	if err != nil {
		appErr = appErr.WithError(err)
	}

	return appErr
}
