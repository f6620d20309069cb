package employee

import (
	"context"

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

const empCols = `id, name, role, professional_registry, email, password_hash, phone, created_at`

func (r *repoPG) Create(ctx context.Context, e *Employee) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO employees (id, name, role, professional_registry, email, password_hash, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.Name, e.Role, e.ProfessionalRegistry, e.Email, e.PasswordHash, e.Phone,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return scanEmp(r.conn(ctx).QueryRow(ctx, `SELECT `+empCols+` FROM employees WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	return scanEmp(r.conn(ctx).QueryRow(ctx, `SELECT `+empCols+` FROM employees WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, e *Employee) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE employees SET name=$2, role=$3, professional_registry=$4, phone=$5
		WHERE id = $1`,
		e.ID, e.Name, e.Role, e.ProfessionalRegistry, e.Phone,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Employee, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+empCols+` FROM employees ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var emps []*Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.ProfessionalRegistry,
			&e.Email, &e.PasswordHash, &e.Phone, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		emps = append(emps, &e)
	}
	return emps, total, nil
}

func scanEmp(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Role, &e.ProfessionalRegistry,
		&e.Email, &e.PasswordHash, &e.Phone, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
