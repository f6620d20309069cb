package visit

import (
	"context"
	"fmt"

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

const visitCols = `v.id, v.patient_id, v.bed_id, v.employee_id, v.visit_type, v.description,
	v.notes, v.started_at, v.ended_at, v.created_at, v.updated_at,
	p.name AS patient_name, b.code AS bed_code, e.name AS employee_name`

const visitJoins = `FROM atendimentos v
	LEFT JOIN patients p ON v.patient_id = p.id
	LEFT JOIN beds b ON v.bed_id = b.bed_id
	LEFT JOIN employees e ON v.employee_id = e.id`

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO atendimentos (id, patient_id, bed_id, employee_id, visit_type, description, notes, started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		v.ID, v.PatientID, v.BedID, v.EmployeeID, v.VisitType, v.Description, v.Notes, v.StartedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return scanVisit(r.conn(ctx).QueryRow(ctx,
		`SELECT `+visitCols+` `+visitJoins+` WHERE v.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, v *Visit) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE atendimentos
		SET visit_type=$2, description=$3, notes=$4, ended_at=$5, updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.VisitType, v.Description, v.Notes, v.EndedAt,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM atendimentos WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	where := ""
	args := []interface{}{}
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		where += fmt.Sprintf(" AND v.patient_id = $%d", len(args))
	}
	if f.BedID != nil {
		args = append(args, *f.BedID)
		where += fmt.Sprintf(" AND v.bed_id = $%d", len(args))
	}
	if f.EmployeeID != nil {
		args = append(args, *f.EmployeeID)
		where += fmt.Sprintf(" AND v.employee_id = $%d", len(args))
	}
	if f.VisitType != nil {
		args = append(args, *f.VisitType)
		where += fmt.Sprintf(" AND v.visit_type = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) `+visitJoins+` WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+visitCols+` `+visitJoins+` WHERE 1=1%s ORDER BY v.started_at DESC LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.PatientID, &v.BedID, &v.EmployeeID, &v.VisitType, &v.Description,
			&v.Notes, &v.StartedAt, &v.EndedAt, &v.CreatedAt, &v.UpdatedAt,
			&v.PatientName, &v.BedCode, &v.EmployeeName); err != nil {
			return nil, 0, err
		}
		visits = append(visits, &v)
	}
	return visits, total, nil
}

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.PatientID, &v.BedID, &v.EmployeeID, &v.VisitType, &v.Description,
		&v.Notes, &v.StartedAt, &v.EndedAt, &v.CreatedAt, &v.UpdatedAt,
		&v.PatientName, &v.BedCode, &v.EmployeeName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
