// Package impl contains the implementation of the application's business logic.
package impl

import (
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"

	"github.com/pkg/errors"
)

// notFoundErrors maps repository sentinels to the errors surfaced to clients.
var notFoundErrors = []struct {
	repoErr   error
	domainErr *domainerrors.BaseError
}{
	{repository.ErrPaymentProofNotFound, domainerrors.ErrPaymentProofNotFound},
	{repository.ErrProjectNotFound, domainerrors.ErrProjectNotFound},
	{repository.ErrSDGNotFound, domainerrors.ErrSDGNotFound},
	{repository.ErrConsumptionRecordNotFound, domainerrors.ErrConsumptionRecordNotFound},
	{repository.ErrUserNotFound, domainerrors.ErrUserNotFound},
}

// translateNotFound replaces a repository not-found sentinel with its domain error
// and leaves every other error untouched.
func translateNotFound(err error) error {
	for _, m := range notFoundErrors {
		if errors.Is(err, m.repoErr) {
			return m.domainErr
		}
	}

	return err
}
