package medication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

const appCols = `a.application_id, a.bed_id, a.patient_id, a.medication_id, a.volume_ml,
	a.start_time, a.estimated_end_time, a.actual_end_time,
	a.applied_by, a.status, a.notes, a.created_at,
	e.name AS applier_name, p.name AS patient_name, m.name AS medication_name, b.code AS bed_code`

const appJoins = `FROM medicacao_aplicada a
	LEFT JOIN employees e ON a.applied_by = e.id
	LEFT JOIN patients p ON a.patient_id = p.id
	LEFT JOIN medications m ON a.medication_id = m.id
	LEFT JOIN beds b ON a.bed_id = b.bed_id`

func (r *repoPG) Create(ctx context.Context, app *Application) error {
	app.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medicacao_aplicada (
			application_id, bed_id, patient_id, medication_id, volume_ml,
			start_time, estimated_end_time, applied_by, status, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		app.ID, app.BedID, app.PatientID, app.MedicationID, app.VolumeML,
		app.StartTime, app.EstimatedEndTime, app.AppliedBy, app.Status, app.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	return scanApp(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appCols+` `+appJoins+` WHERE a.application_id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, app *Application) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicacao_aplicada SET
			estimated_end_time=$2, actual_end_time=$3, status=$4, notes=$5
		WHERE application_id = $1`,
		app.ID, app.EstimatedEndTime, app.ActualEndTime, app.Status, app.Notes,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medicacao_aplicada WHERE application_id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Application, int, error) {
	where := ""
	args := []interface{}{}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		where += fmt.Sprintf(" AND a.patient_id = $%d", len(args))
	}
	if filter.BedID != nil {
		args = append(args, *filter.BedID)
		where += fmt.Sprintf(" AND a.bed_id = $%d", len(args))
	}
	if filter.AppliedBy != nil {
		args = append(args, *filter.AppliedBy)
		where += fmt.Sprintf(" AND a.applied_by = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND a.status = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medicacao_aplicada a WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+appCols+` `+appJoins+` WHERE 1=1%s ORDER BY a.start_time DESC LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		app, err := scanAppRow(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	return apps, total, nil
}

func (r *repoPG) FindOpenByBed(ctx context.Context, bedID uuid.UUID) (*Application, error) {
	app, err := scanApp(r.conn(ctx).QueryRow(ctx, `
		SELECT `+appCols+` `+appJoins+`
		WHERE a.bed_id = $1 AND a.status = $2
		ORDER BY a.start_time DESC
		LIMIT 1`,
		bedID, StatusInProgress))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return app, err
}

func (r *repoPG) FindOpenByPatientBed(ctx context.Context, bedID uuid.UUID) (*Application, error) {
	app, err := scanApp(r.conn(ctx).QueryRow(ctx, `
		SELECT `+appCols+` `+appJoins+`
		JOIN patients pb ON a.patient_id = pb.id
		WHERE pb.bed_id = $1 AND a.status = $2
		ORDER BY a.start_time DESC
		LIMIT 1`,
		bedID, StatusInProgress))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return app, err
}

func (r *repoPG) Close(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicacao_aplicada SET status=$2, actual_end_time=$3
		WHERE application_id = $1`,
		id, StatusFinished, endedAt,
	)
	return err
}

func scanApp(row pgx.Row) (*Application, error) {
	var app Application
	err := row.Scan(
		&app.ID, &app.BedID, &app.PatientID, &app.MedicationID, &app.VolumeML,
		&app.StartTime, &app.EstimatedEndTime, &app.ActualEndTime,
		&app.AppliedBy, &app.Status, &app.Notes, &app.CreatedAt,
		&app.ApplierName, &app.PatientName, &app.MedicationName, &app.BedCode,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func scanAppRow(rows pgx.Rows) (*Application, error) {
	var app Application
	err := rows.Scan(
		&app.ID, &app.BedID, &app.PatientID, &app.MedicationID, &app.VolumeML,
		&app.StartTime, &app.EstimatedEndTime, &app.ActualEndTime,
		&app.AppliedBy, &app.Status, &app.Notes, &app.CreatedAt,
		&app.ApplierName, &app.PatientName, &app.MedicationName, &app.BedCode,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
