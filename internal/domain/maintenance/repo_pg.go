package maintenance

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

const maintCols = `m.id, m.bed_id, m.reason, m.notes, m.scheduled_for, m.performed_at,
	m.status, m.registered_by, m.created_at, m.updated_at,
	b.code AS bed_code, e.name AS registered_by_name`

const maintJoins = `FROM manutencoes_programadas m
	LEFT JOIN beds b ON m.bed_id = b.bed_id
	LEFT JOIN employees e ON m.registered_by = e.id`

func (r *repoPG) Create(ctx context.Context, m *Maintenance) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO manutencoes_programadas (id, bed_id, reason, notes, scheduled_for, status, registered_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.BedID, m.Reason, m.Notes, m.ScheduledFor, m.Status, m.RegisteredBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Maintenance, error) {
	return scanMaint(r.conn(ctx).QueryRow(ctx,
		`SELECT `+maintCols+` `+maintJoins+` WHERE m.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Maintenance) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE manutencoes_programadas
		SET reason=$2, notes=$3, scheduled_for=$4, performed_at=$5, status=$6, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Reason, m.Notes, m.ScheduledFor, m.PerformedAt, m.Status,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM manutencoes_programadas WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Maintenance, int, error) {
	where := ""
	args := []interface{}{}
	if f.BedID != nil {
		args = append(args, *f.BedID)
		where += fmt.Sprintf(" AND m.bed_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND m.status = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) `+maintJoins+` WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+maintCols+` `+maintJoins+` WHERE 1=1%s ORDER BY m.scheduled_for LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var maints []*Maintenance
	for rows.Next() {
		var m Maintenance
		if err := rows.Scan(&m.ID, &m.BedID, &m.Reason, &m.Notes, &m.ScheduledFor, &m.PerformedAt,
			&m.Status, &m.RegisteredBy, &m.CreatedAt, &m.UpdatedAt,
			&m.BedCode, &m.RegisteredByName); err != nil {
			return nil, 0, err
		}
		maints = append(maints, &m)
	}
	return maints, total, nil
}

func scanMaint(row pgx.Row) (*Maintenance, error) {
	var m Maintenance
	err := row.Scan(&m.ID, &m.BedID, &m.Reason, &m.Notes, &m.ScheduledFor, &m.PerformedAt,
		&m.Status, &m.RegisteredBy, &m.CreatedAt, &m.UpdatedAt,
		&m.BedCode, &m.RegisteredByName)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
