package notification

import (
	"context"
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

const notifCols = `id, bed_id, title, message, kind, read, created_at`

func (r *repoPG) Create(ctx context.Context, n *Notification) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO notificacoes (id, bed_id, title, message, kind)
		VALUES ($1,$2,$3,$4,$5)`,
		n.ID, n.BedID, n.Title, n.Message, n.Kind,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return scanNotif(r.conn(ctx).QueryRow(ctx, `SELECT `+notifCols+` FROM notificacoes WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Notification, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Read != nil {
		args = append(args, *filter.Read)
		where += fmt.Sprintf(" AND read = $%d", len(args))
	}
	if filter.BedID != nil {
		args = append(args, *filter.BedID)
		where += fmt.Sprintf(" AND bed_id = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM notificacoes WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+notifCols+` FROM notificacoes WHERE 1=1%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifs []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.BedID, &n.Title, &n.Message, &n.Kind, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notifs = append(notifs, &n)
	}
	return notifs, total, nil
}

func (r *repoPG) MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return scanNotif(r.conn(ctx).QueryRow(ctx, `
		UPDATE notificacoes SET read = true WHERE id = $1
		RETURNING `+notifCols, id))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM notificacoes WHERE id = $1`, id)
	return err
}

func (r *repoPG) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM notificacoes WHERE read = true AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanNotif(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.BedID, &n.Title, &n.Message, &n.Kind, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
