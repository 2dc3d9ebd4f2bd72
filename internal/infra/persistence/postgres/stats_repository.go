package postgres

import (
	"context"
	"strings"
	"time"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// statsRepository computes aggregates straight from the base tables.
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository is the constructor for statsRepository.
func NewStatsRepository(db *gorm.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// Approved proofs that are not invested yet count towards their own SDG; invested
// money counts towards the SDG of the project it went to. A proof is therefore
// counted exactly once. Investments of proofs rejected after routing stay in the
// ledger but are left out here, like the proofs themselves.
const investmentsBySDGSQL = `
SELECT s.id AS sdg_id, s.name AS name, s.color AS color,
	COALESCE(pending.total, 0) + COALESCE(invested.total, 0) AS total_amount
FROM sdgs s
LEFT JOIN (
	SELECT pp.sdg_id AS sdg_id, SUM(pp.amount) AS total
	FROM payment_proofs pp
	WHERE pp.status = ? AND pp.sdg_id IS NOT NULL
		AND NOT EXISTS (SELECT 1 FROM investments x WHERE x.payment_proof_id = pp.id)
		{{proofOwner}}
	GROUP BY pp.sdg_id
) pending ON pending.sdg_id = s.id
LEFT JOIN (
	SELECT p.sdg_id AS sdg_id, SUM(i.amount) AS total
	FROM investments i
	JOIN projects p ON p.id = i.project_id
	JOIN payment_proofs ip ON ip.id = i.payment_proof_id
	WHERE ip.status = ? {{investmentOwner}}
	GROUP BY p.sdg_id
) invested ON invested.sdg_id = s.id
ORDER BY s.id`

type sdgInvestmentRow struct {
	SDGID       int `gorm:"column:sdg_id"`
	Name        string
	Color       string
	TotalAmount decimal.Decimal
}

// InvestmentsBySDG returns one row per SDG, including SDGs with nothing attributed.
func (repo *statsRepository) InvestmentsBySDG(ctx context.Context, owner *entity.Owner) ([]*entity.SDGInvestment, error) {
	approved := entity.ProofStatusApproved.String()
	args := []any{approved}
	proofOwner, investmentOwner := "", ""
	if owner != nil {
		proofOwner = "AND pp.owner_type = ? AND pp.owner_id = ?"
		investmentOwner = "AND i.owner_type = ? AND i.owner_id = ?"
		args = append(args, owner.Type.String(), owner.ID, approved, owner.Type.String(), owner.ID)
	} else {
		args = append(args, approved)
	}
	query := strings.NewReplacer("{{proofOwner}}", proofOwner, "{{investmentOwner}}", investmentOwner).
		Replace(investmentsBySDGSQL)

	var rows []*sdgInvestmentRow
	if err := repo.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate investments by sdg")
	}

	result := make([]*entity.SDGInvestment, 0, len(rows))
	for _, row := range rows {
		result = append(result, &entity.SDGInvestment{
			SDGID:       row.SDGID,
			Name:        row.Name,
			Color:       row.Color,
			TotalAmount: row.TotalAmount,
		})
	}

	return result, nil
}

type emissionTotalsRow struct {
	EmissionKgCO2       decimal.Decimal `gorm:"column:emission_kg_co2"`
	CompensationValueKz decimal.Decimal `gorm:"column:compensation_value_kz"`
}

func (repo *statsRepository) EmissionTotals(ctx context.Context, owner *entity.Owner) (*entity.EmissionTotals, error) {
	var row emissionTotalsRow

	if err := repo.db.WithContext(ctx).
		Model(&model.ConsumptionRecordModel{}).
		Select("COALESCE(SUM(emission_kg_co2), 0) AS emission_kg_co2, COALESCE(SUM(compensation_value_kz), 0) AS compensation_value_kz").
		Scopes(ownerScope(owner, "owner_type", "owner_id")).
		Scan(&row).Error; err != nil {
		return nil, errors.Wrap(err, "failed to sum emissions")
	}

	return &entity.EmissionTotals{
		EmissionKgCO2:       row.EmissionKgCO2,
		CompensationValueKz: row.CompensationValueKz,
	}, nil
}

type statusCountRow struct {
	Status string
	Total  int64
}

func (repo *statsRepository) ProofStatusCounts(ctx context.Context, owner *entity.Owner) (*entity.ProofStatusCounts, error) {
	var rows []*statusCountRow

	if err := repo.db.WithContext(ctx).
		Model(&model.PaymentProofModel{}).
		Select("status, COUNT(*) AS total").
		Scopes(ownerScope(owner, "owner_type", "owner_id")).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count payment proofs")
	}

	counts := &entity.ProofStatusCounts{}
	for _, row := range rows {
		switch entity.ProofStatus(row.Status) {
		case entity.ProofStatusPending:
			counts.Pending = row.Total
		case entity.ProofStatusApproved:
			counts.Approved = row.Total
		case entity.ProofStatusRejected:
			counts.Rejected = row.Total
		}
	}

	return counts, nil
}

type sumRow struct {
	Total decimal.Decimal
}

func (repo *statsRepository) ApprovedAmount(ctx context.Context, owner *entity.Owner) (decimal.Decimal, error) {
	var row sumRow

	if err := repo.db.WithContext(ctx).
		Model(&model.PaymentProofModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", entity.ProofStatusApproved.String()).
		Scopes(ownerScope(owner, "owner_type", "owner_id")).
		Scan(&row).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum approved payments")
	}

	return row.Total, nil
}

func (repo *statsRepository) InvestedAmount(ctx context.Context, owner *entity.Owner) (decimal.Decimal, error) {
	var row sumRow

	if err := repo.db.WithContext(ctx).
		Model(&model.InvestmentModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scopes(ownerScope(owner, "owner_type", "owner_id")).
		Scan(&row).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum investments")
	}

	return row.Total, nil
}

const unspecifiedSector = "unspecified"

type sectorEmissionRow struct {
	Sector        string
	EmissionKgCO2 decimal.Decimal `gorm:"column:emission_kg_co2"`
}

// SectorEmissions sums company emissions per business sector, largest first.
func (repo *statsRepository) SectorEmissions(ctx context.Context) ([]*entity.SectorEmission, error) {
	var rows []*sectorEmissionRow

	sector := "COALESCE(NULLIF(c.sector, ''), '" + unspecifiedSector + "')"
	if err := repo.db.WithContext(ctx).
		Table("consumption_records AS cr").
		Select(sector+" AS sector, COALESCE(SUM(cr.emission_kg_co2), 0) AS emission_kg_co2").
		Joins("JOIN companies c ON c.id = cr.owner_id").
		Where("cr.owner_type = ?", entity.OwnerTypeCompany.String()).
		Group(sector).
		Order("emission_kg_co2 DESC").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate sector emissions")
	}

	result := make([]*entity.SectorEmission, 0, len(rows))
	for _, row := range rows {
		result = append(result, &entity.SectorEmission{Sector: row.Sector, EmissionKgCO2: row.EmissionKgCO2})
	}

	return result, nil
}

func (repo *statsRepository) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.ProjectModel{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count projects")
	}

	return count, nil
}

func (repo *statsRepository) CountProfiles(ctx context.Context) (int64, int64, error) {
	var companies, individuals int64
	if err := repo.db.WithContext(ctx).Model(&model.CompanyModel{}).Count(&companies).Error; err != nil {
		return 0, 0, errors.Wrap(err, "failed to count companies")
	}
	if err := repo.db.WithContext(ctx).Model(&model.IndividualModel{}).Count(&individuals).Error; err != nil {
		return 0, 0, errors.Wrap(err, "failed to count individuals")
	}

	return companies, individuals, nil
}

// Consumption counts by period start; compensation counts by proof upload time.
const companyPeriodTotalsSQL = `
SELECT c.id AS company_id, c.name AS company_name,
	COALESCE(cr.emission, 0) AS emission_kg_co2,
	COALESCE(cr.compensation, 0) AS compensation_value_kz,
	COALESCE(pp.compensated, 0) AS compensated_kz
FROM companies c
LEFT JOIN (
	SELECT owner_id, SUM(emission_kg_co2) AS emission, SUM(compensation_value_kz) AS compensation
	FROM consumption_records
	WHERE owner_type = ? AND period_start >= ? AND period_start < ?
	GROUP BY owner_id
) cr ON cr.owner_id = c.id
LEFT JOIN (
	SELECT owner_id, SUM(amount) AS compensated
	FROM payment_proofs
	WHERE owner_type = ? AND status = ? AND created_at >= ? AND created_at < ?
	GROUP BY owner_id
) pp ON pp.owner_id = c.id
ORDER BY c.name, c.id`

type companyPeriodRow struct {
	CompanyID           uuid.UUID
	CompanyName         string
	EmissionKgCO2       decimal.Decimal `gorm:"column:emission_kg_co2"`
	CompensationValueKz decimal.Decimal `gorm:"column:compensation_value_kz"`
	CompensatedKz       decimal.Decimal `gorm:"column:compensated_kz"`
}

func (repo *statsRepository) CompanyPeriodTotals(ctx context.Context, from, to time.Time) ([]*entity.CompanyPeriodTotals, error) {
	var rows []*companyPeriodRow

	company := entity.OwnerTypeCompany.String()
	if err := repo.db.WithContext(ctx).Raw(companyPeriodTotalsSQL,
		company, from.UTC(), to.UTC(),
		company, entity.ProofStatusApproved.String(), from.UTC(), to.UTC(),
	).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate company period totals")
	}

	result := make([]*entity.CompanyPeriodTotals, 0, len(rows))
	for _, row := range rows {
		result = append(result, &entity.CompanyPeriodTotals{
			CompanyID:           row.CompanyID,
			CompanyName:         row.CompanyName,
			EmissionKgCO2:       row.EmissionKgCO2,
			CompensationValueKz: row.CompensationValueKz,
			CompensatedKz:       row.CompensatedKz,
		})
	}

	return result, nil
}
