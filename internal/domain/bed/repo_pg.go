package bed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dripwatch/dripwatch/internal/domain/drip"
	"github.com/dripwatch/dripwatch/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const bedCols = `bed_id, code, sector, type, occupied, under_maintenance, status_gotejamento,
	current_medication_label, notes, volume_ml, dosage_mg, flow_ml_h,
	initial_weight_g, current_weight_g,
	infusion_start_time, estimated_end_time,
	drip_rate_g_s, minutes_remaining, estimated_end_time_calculated,
	idle_time_seconds, last_occupied_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO beds (
			bed_id, code, sector, type, occupied, under_maintenance, status_gotejamento,
			current_medication_label, notes, volume_ml, dosage_mg, flow_ml_h,
			initial_weight_g, current_weight_g,
			infusion_start_time, estimated_end_time,
			idle_time_seconds, last_occupied_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18
		)`,
		b.ID, b.Code, b.Sector, b.Type, b.Occupied, b.UnderMaintenance, b.DripStatus,
		b.CurrentMedication, b.Notes, b.VolumeML, b.DosageMG, b.FlowMLH,
		b.InitialWeightG, b.CurrentWeightG,
		b.InfusionStartTime, b.EstimatedEndTime,
		b.IdleTimeSeconds, b.LastOccupiedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM beds WHERE bed_id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM beds WHERE code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, b *Bed) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE beds SET
			code=$2, sector=$3, type=$4, occupied=$5, under_maintenance=$6,
			status_gotejamento=$7, current_medication_label=$8, notes=$9,
			volume_ml=$10, dosage_mg=$11, flow_ml_h=$12,
			initial_weight_g=$13, current_weight_g=$14,
			infusion_start_time=$15, estimated_end_time=$16,
			idle_time_seconds=$17, last_occupied_at=$18, updated_at=NOW()
		WHERE bed_id = $1`,
		b.ID, b.Code, b.Sector, b.Type, b.Occupied, b.UnderMaintenance,
		b.DripStatus, b.CurrentMedication, b.Notes,
		b.VolumeML, b.DosageMG, b.FlowMLH,
		b.InitialWeightG, b.CurrentWeightG,
		b.InfusionStartTime, b.EstimatedEndTime,
		b.IdleTimeSeconds, b.LastOccupiedAt,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM beds WHERE bed_id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Bed, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Sector != nil {
		args = append(args, *filter.Sector)
		where += fmt.Sprintf(" AND sector = $%d", len(args))
	}
	if filter.Occupied != nil {
		args = append(args, *filter.Occupied)
		where += fmt.Sprintf(" AND occupied = $%d", len(args))
	}
	if filter.UnderMaintenance != nil {
		args = append(args, *filter.UnderMaintenance)
		where += fmt.Sprintf(" AND under_maintenance = $%d", len(args))
	}
	if filter.DripStatus != nil {
		args = append(args, *filter.DripStatus)
		where += fmt.Sprintf(" AND status_gotejamento = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM beds WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+bedCols+` FROM beds WHERE 1=1%s ORDER BY code LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var beds []*Bed
	for rows.Next() {
		b, err := scanBedRow(rows)
		if err != nil {
			return nil, 0, err
		}
		beds = append(beds, b)
	}
	return beds, total, nil
}

func (r *repoPG) UpdateTelemetry(ctx context.Context, id uuid.UUID, t Telemetry) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `
		UPDATE beds SET
			initial_weight_g=$2, current_weight_g=$3, status_gotejamento=$4,
			drip_rate_g_s=$5, minutes_remaining=$6, estimated_end_time_calculated=$7,
			updated_at=NOW()
		WHERE bed_id = $1
		RETURNING `+bedCols,
		id, t.InitialWeightG, t.CurrentWeightG, t.Status,
		t.DripRateGPerSec, t.MinutesRemaining, t.EstimatedEndCalc,
	))
}

func (r *repoPG) StartInfusion(ctx context.Context, id uuid.UUID, p InfusionParams) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `
		UPDATE beds SET
			occupied=TRUE,
			status_gotejamento=$2,
			infusion_start_time=$3, estimated_end_time=$4,
			initial_weight_g=$5, current_weight_g=$5,
			volume_ml=$6, dosage_mg=$7, flow_ml_h=$8,
			notes=$9, last_occupied_at=$3, updated_at=NOW()
		WHERE bed_id = $1
		RETURNING `+bedCols,
		id, drip.StatusEmAndamento, p.StartedAt, p.EstimatedEnd,
		p.InitialWeightG, p.VolumeML, p.DosageMG, p.FlowMLH, p.Notes,
	))
}

func (r *repoPG) Release(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE beds SET
			status_gotejamento=$2,
			occupied=FALSE,
			initial_weight_g=0, current_weight_g=0,
			current_medication_label=NULL,
			infusion_start_time=NULL, estimated_end_time=NULL,
			drip_rate_g_s=NULL, minutes_remaining=NULL, estimated_end_time_calculated=NULL,
			updated_at=NOW()
		WHERE bed_id = $1`,
		id, drip.StatusFinalizado,
	)
	return err
}

func (r *repoPG) SetDripStatus(ctx context.Context, id uuid.UUID, status drip.Status) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `
		UPDATE beds SET status_gotejamento=$2, updated_at=NOW()
		WHERE bed_id = $1
		RETURNING `+bedCols,
		id, status,
	))
}

func (r *repoPG) SetMedicationLabel(ctx context.Context, id uuid.UUID, label string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE beds SET current_medication_label=$2, updated_at=NOW() WHERE bed_id = $1`,
		id, label,
	)
	return err
}

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(
		&b.ID, &b.Code, &b.Sector, &b.Type, &b.Occupied, &b.UnderMaintenance, &b.DripStatus,
		&b.CurrentMedication, &b.Notes, &b.VolumeML, &b.DosageMG, &b.FlowMLH,
		&b.InitialWeightG, &b.CurrentWeightG,
		&b.InfusionStartTime, &b.EstimatedEndTime,
		&b.DripRateGPerSec, &b.MinutesRemaining, &b.EstimatedEndCalc,
		&b.IdleTimeSeconds, &b.LastOccupiedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBedRow(rows pgx.Rows) (*Bed, error) {
	var b Bed
	err := rows.Scan(
		&b.ID, &b.Code, &b.Sector, &b.Type, &b.Occupied, &b.UnderMaintenance, &b.DripStatus,
		&b.CurrentMedication, &b.Notes, &b.VolumeML, &b.DosageMG, &b.FlowMLH,
		&b.InitialWeightG, &b.CurrentWeightG,
		&b.InfusionStartTime, &b.EstimatedEndTime,
		&b.DripRateGPerSec, &b.MinutesRemaining, &b.EstimatedEndCalc,
		&b.IdleTimeSeconds, &b.LastOccupiedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
