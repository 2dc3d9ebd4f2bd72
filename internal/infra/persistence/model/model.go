// Package model holds the GORM table models. They are exported so the GORM Gen tool can use them from other packages.
package model

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// assignID gives a new row a time-ordered UUID unless the caller already chose one.
func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate id")
	}
	*id = newID

	return nil
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&CompanyModel{},
		&IndividualModel{},
		&RefreshTokenModel{},
		&SDGModel{},
		&ProjectModel{},
		&ProjectUpdateModel{},
		&DisplayInvestmentModel{},
		&ConsumptionRecordModel{},
		&PaymentProofModel{},
		&InvestmentModel{},
		&LeaderboardEntryModel{},
	}
}
