package sensor

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

const sensorCols = `s.id, s.serial_code, s.type, s.status, s.battery_pct, s.last_seen_at,
	s.bed_id, s.created_at, s.updated_at, b.code AS bed_code`

const sensorJoins = `FROM sensors s LEFT JOIN beds b ON s.bed_id = b.bed_id`

func (r *repoPG) Create(ctx context.Context, s *Sensor) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO sensors (id, serial_code, type, status, battery_pct, bed_id)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.SerialCode, s.Type, s.Status, s.BatteryPct, s.BedID,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Sensor, error) {
	return scanSensor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+sensorCols+` `+sensorJoins+` WHERE s.id = $1`, id))
}

func (r *repoPG) GetBySerial(ctx context.Context, serial string) (*Sensor, error) {
	return scanSensor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+sensorCols+` `+sensorJoins+` WHERE s.serial_code = $1`, serial))
}

func (r *repoPG) Update(ctx context.Context, s *Sensor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE sensors SET serial_code=$2, type=$3, status=$4, battery_pct=$5, bed_id=$6, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.SerialCode, s.Type, s.Status, s.BatteryPct, s.BedID,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sensors WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Sensor, int, error) {
	where := ""
	args := []interface{}{}
	if f.BedID != nil {
		args = append(args, *f.BedID)
		where += fmt.Sprintf(" AND s.bed_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND s.status = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) `+sensorJoins+` WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+sensorCols+` `+sensorJoins+` WHERE 1=1%s ORDER BY s.serial_code LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sensors []*Sensor
	for rows.Next() {
		var s Sensor
		if err := rows.Scan(&s.ID, &s.SerialCode, &s.Type, &s.Status, &s.BatteryPct, &s.LastSeenAt,
			&s.BedID, &s.CreatedAt, &s.UpdatedAt, &s.BedCode); err != nil {
			return nil, 0, err
		}
		sensors = append(sensors, &s)
	}
	return sensors, total, nil
}

func (r *repoPG) Heartbeat(ctx context.Context, serial string, batteryPct *int, at time.Time) (*Sensor, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE sensors SET last_seen_at=$2, battery_pct=COALESCE($3, battery_pct), updated_at=NOW()
		WHERE serial_code = $1`,
		serial, at, batteryPct,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetBySerial(ctx, serial)
}

func scanSensor(row pgx.Row) (*Sensor, error) {
	var s Sensor
	err := row.Scan(&s.ID, &s.SerialCode, &s.Type, &s.Status, &s.BatteryPct, &s.LastSeenAt,
		&s.BedID, &s.CreatedAt, &s.UpdatedAt, &s.BedCode)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
