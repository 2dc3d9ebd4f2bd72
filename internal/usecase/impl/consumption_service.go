package impl

import (
	"context"
	"log/slog"

	"carbonledger/config"
	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// EmissionCalculator derives emissions and their compensation value from fixed factors.
type EmissionCalculator struct {
	energyPerKwh   decimal.Decimal
	fuelPerLiter   decimal.Decimal
	transportPerKm decimal.Decimal
	waterPerM3     decimal.Decimal
	wastePerKg     decimal.Decimal
	pricePerKgKz   decimal.Decimal
	tolerance      decimal.Decimal
}

// NewEmissionCalculator builds a calculator from the emission factors.
func NewEmissionCalculator(cfg *config.EmissionConfig) *EmissionCalculator {
	if cfg == nil {
		cfg = &config.EmissionConfig{}
	}

	return &EmissionCalculator{
		energyPerKwh:   decimal.NewFromFloat(cfg.EnergyPerKwh),
		fuelPerLiter:   decimal.NewFromFloat(cfg.FuelPerLiter),
		transportPerKm: decimal.NewFromFloat(cfg.TransportPerKm),
		waterPerM3:     decimal.NewFromFloat(cfg.WaterPerM3),
		wastePerKg:     decimal.NewFromFloat(cfg.WastePerKg),
		pricePerKgKz:   decimal.NewFromFloat(cfg.PricePerKgKz),
		tolerance:      decimal.NewFromFloat(cfg.MismatchTolerance),
	}
}

// Emission returns the kg CO2 of the record quantities, rounded to 2 places.
func (c *EmissionCalculator) Emission(record *entity.ConsumptionRecord) decimal.Decimal {
	return record.EnergyKwh.Mul(c.energyPerKwh).
		Add(record.FuelLiters.Mul(c.fuelPerLiter)).
		Add(record.TransportKm.Mul(c.transportPerKm)).
		Add(record.WaterM3.Mul(c.waterPerM3)).
		Add(record.WasteKg.Mul(c.wastePerKg)).
		Round(2)
}

// CompensationValue returns what compensating the emission costs in Kz.
func (c *EmissionCalculator) CompensationValue(emissionKgCO2 decimal.Decimal) decimal.Decimal {
	return emissionKgCO2.Mul(c.pricePerKgKz).Round(2)
}

// Mismatch reports whether a client figure differs from the computed one by more
// than the relative tolerance. Values below 1 are compared against 1.
func (c *EmissionCalculator) Mismatch(client, computed decimal.Decimal) bool {
	base := computed.Abs()
	if base.LessThan(decimal.NewFromInt(1)) {
		base = decimal.NewFromInt(1)
	}

	return client.Sub(computed).Abs().GreaterThan(base.Mul(c.tolerance))
}

// consumptionService implements the ConsumptionUsecase interface.
type consumptionService struct {
	consumptionRepo repository.ConsumptionRepository
	calculator      *EmissionCalculator
	statsCache      service.StatsCache
	logger          *slog.Logger
}

// ConsumptionServiceParams holds dependencies for ConsumptionService, injected by Fx.
type ConsumptionServiceParams struct {
	fx.In

	ConsumptionRepo repository.ConsumptionRepository
	StatsCache      service.StatsCache
	Config          *config.Config
	Logger          *slog.Logger
}

// NewConsumptionService is the constructor for consumptionService.
func NewConsumptionService(params ConsumptionServiceParams) usecase.ConsumptionUsecase {
	return &consumptionService{
		consumptionRepo: params.ConsumptionRepo,
		calculator:      NewEmissionCalculator(params.Config.Emission),
		statsCache:      params.StatsCache,
		logger:          params.Logger,
	}
}

func (srv *consumptionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateRecord stores a consumption record with server computed figures.
func (srv *consumptionService) CreateRecord(ctx context.Context, input *usecase.ConsumptionInput) (*entity.ConsumptionRecord, error) {
	if !input.Owner.Type.IsValid() || input.Owner.ID == uuid.Nil {
		return nil, domainerrors.ErrOwnerProfileMissing
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("period end must not be before period start")
	}
	for _, q := range []decimal.Decimal{input.EnergyKwh, input.FuelLiters, input.TransportKm, input.WaterM3, input.WasteKg} {
		if q.IsNegative() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("quantities must not be negative")
		}
	}

	record := &entity.ConsumptionRecord{
		OwnerType:   input.Owner.Type,
		OwnerID:     input.Owner.ID,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		EnergyKwh:   input.EnergyKwh,
		FuelLiters:  input.FuelLiters,
		TransportKm: input.TransportKm,
		WaterM3:     input.WaterM3,
		WasteKg:     input.WasteKg,
	}
	record.EmissionKgCO2 = srv.calculator.Emission(record)
	record.CompensationValueKz = srv.calculator.CompensationValue(record.EmissionKgCO2)

	srv.checkClientFigures(ctx, input, record)

	if err := srv.consumptionRepo.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to create consumption record")
	}

	srv.statsCache.Invalidate(ctx)

	return record, nil
}

func (srv *consumptionService) checkClientFigures(ctx context.Context, input *usecase.ConsumptionInput, record *entity.ConsumptionRecord) {
	if input.ClientEmissionKgCO2 != nil && srv.calculator.Mismatch(*input.ClientEmissionKgCO2, record.EmissionKgCO2) {
		srv.log(ctx).Warn("Client emission differs from computed value",
			slog.String("owner_id", input.Owner.ID.String()),
			slog.String("client", input.ClientEmissionKgCO2.String()),
			slog.String("computed", record.EmissionKgCO2.String()),
		)
	}
	if input.ClientCompensationValueKz != nil && srv.calculator.Mismatch(*input.ClientCompensationValueKz, record.CompensationValueKz) {
		srv.log(ctx).Warn("Client compensation value differs from computed value",
			slog.String("owner_id", input.Owner.ID.String()),
			slog.String("client", input.ClientCompensationValueKz.String()),
			slog.String("computed", record.CompensationValueKz.String()),
		)
	}
}

// ListRecords returns the owner's records, most recent period first.
func (srv *consumptionService) ListRecords(ctx context.Context, owner entity.Owner) ([]*entity.ConsumptionRecord, error) {
	records, err := srv.consumptionRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list consumption records")
	}

	return records, nil
}

// GetRecord returns one record of the owner. Records of other owners are reported as missing.
func (srv *consumptionService) GetRecord(ctx context.Context, owner entity.Owner, recordID uuid.UUID) (*entity.ConsumptionRecord, error) {
	record, err := srv.consumptionRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to find consumption record")
	}
	if record.OwnerType != owner.Type || record.OwnerID != owner.ID {
		return nil, domainerrors.ErrConsumptionRecordNotFound
	}

	return record, nil
}
