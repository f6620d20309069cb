package incident

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

const incCols = `id, bed_id, description, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, inc *Incident) error {
	inc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO intercorrencias (id, bed_id, description, status)
		VALUES ($1,$2,$3,$4)`,
		inc.ID, inc.BedID, inc.Description, inc.Status,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return scanInc(r.conn(ctx).QueryRow(ctx, `SELECT `+incCols+` FROM intercorrencias WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, inc *Incident) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE intercorrencias SET description=$2, status=$3, updated_at=NOW()
		WHERE id = $1`,
		inc.ID, inc.Description, inc.Status,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM intercorrencias WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Incident, int, error) {
	where := ""
	args := []interface{}{}
	if filter.BedID != nil {
		args = append(args, *filter.BedID)
		where += fmt.Sprintf(" AND bed_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM intercorrencias WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+incCols+` FROM intercorrencias WHERE 1=1%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var incs []*Incident
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.ID, &inc.BedID, &inc.Description, &inc.Status, &inc.CreatedAt, &inc.UpdatedAt); err != nil {
			return nil, 0, err
		}
		incs = append(incs, &inc)
	}
	return incs, total, nil
}

func (r *repoPG) ClearByBed(ctx context.Context, bedID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM intercorrencias WHERE bed_id = $1`, bedID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanInc(row pgx.Row) (*Incident, error) {
	var inc Incident
	err := row.Scan(&inc.ID, &inc.BedID, &inc.Description, &inc.Status, &inc.CreatedAt, &inc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inc, nil
}
