package main

import (
	"carbonledger/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.CompanyModel{},
		model.IndividualModel{},
		model.RefreshTokenModel{},
		model.SDGModel{},
		model.ProjectModel{},
		model.ProjectUpdateModel{},
		model.DisplayInvestmentModel{},
		model.ConsumptionRecordModel{},
		model.PaymentProofModel{},
		model.InvestmentModel{},
		model.LeaderboardEntryModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
