package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// snapshotRow maps the monthly_snapshots table. The model stays a pure value;
// id and ownership live only at the storage layer.
type snapshotRow struct {
	ID                  uuid.UUID              `db:"id"`
	UserID              uuid.UUID              `db:"user_id"`
	Month               int                    `db:"month"`
	Year                int                    `db:"year"`
	TotalIncome         decimal.Decimal        `db:"total_income"`
	MandatoryOutflow    decimal.Decimal        `db:"mandatory_outflow"`
	ReducingOutflow     decimal.Decimal        `db:"reducing_outflow"`
	GrowingOutflow      decimal.Decimal        `db:"growing_outflow"`
	FixedOutflow        decimal.Decimal        `db:"fixed_outflow"`
	ActiveContractCount int                    `db:"active_contract_count"`
	Contributions       model.ContributionList `db:"contributions"`
	GeneratedAt         time.Time              `db:"generated_at"`
}

func (row *snapshotRow) toModel() *model.MonthlySnapshot {
	return &model.MonthlySnapshot{
		Month:               row.Month,
		Year:                row.Year,
		TotalIncome:         row.TotalIncome,
		MandatoryOutflow:    row.MandatoryOutflow,
		ReducingOutflow:     row.ReducingOutflow,
		GrowingOutflow:      row.GrowingOutflow,
		FixedOutflow:        row.FixedOutflow,
		ActiveContractCount: row.ActiveContractCount,
		Contributions:       row.Contributions,
		GeneratedAt:         row.GeneratedAt,
	}
}

// Upsert writes the canonical snapshot for (user, year, month), replacing any
// earlier record for the same month.
func (r *SnapshotRepository) Upsert(ctx context.Context, userID uuid.UUID, snapshot *model.MonthlySnapshot) error {
	query := `
		INSERT INTO monthly_snapshots (id, user_id, month, year, total_income, mandatory_outflow, reducing_outflow, growing_outflow, fixed_outflow, active_contract_count, contributions, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, year, month) DO UPDATE
		SET total_income = EXCLUDED.total_income,
			mandatory_outflow = EXCLUDED.mandatory_outflow,
			reducing_outflow = EXCLUDED.reducing_outflow,
			growing_outflow = EXCLUDED.growing_outflow,
			fixed_outflow = EXCLUDED.fixed_outflow,
			active_contract_count = EXCLUDED.active_contract_count,
			contributions = EXCLUDED.contributions,
			generated_at = EXCLUDED.generated_at`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), userID, snapshot.Month, snapshot.Year,
		snapshot.TotalIncome, snapshot.MandatoryOutflow,
		snapshot.ReducingOutflow, snapshot.GrowingOutflow, snapshot.FixedOutflow,
		snapshot.ActiveContractCount, snapshot.Contributions, snapshot.GeneratedAt,
	)
	return err
}

func (r *SnapshotRepository) GetByMonth(ctx context.Context, userID uuid.UUID, month time.Month, year int) (*model.MonthlySnapshot, error) {
	var row snapshotRow
	query := `SELECT * FROM monthly_snapshots WHERE user_id = $1 AND month = $2 AND year = $3`
	err := r.db.GetContext(ctx, &row, query, userID, int(month), year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *SnapshotRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.MonthlySnapshot, error) {
	var rows []snapshotRow
	query := `SELECT * FROM monthly_snapshots WHERE user_id = $1 ORDER BY year DESC, month DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	snapshots := make([]model.MonthlySnapshot, 0, len(rows))
	for i := range rows {
		snapshots = append(snapshots, *rows[i].toModel())
	}
	return snapshots, nil
}
