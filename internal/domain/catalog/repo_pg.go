package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

const serviceCols = `id, service_name, price, description, created_at, updated_at`

func (r *repoPG) scanService(row pgx.Row) (*MedicalService, error) {
	var s MedicalService
	err := row.Scan(&s.ID, &s.ServiceName, &s.Price, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *MedicalService) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO service (service_name, price, description)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at`,
		s.ServiceName, s.Price, s.Description,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *repoPG) Upsert(ctx context.Context, s *MedicalService) (bool, error) {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO service (service_name, price, description)
		VALUES ($1,$2,$3)
		ON CONFLICT (service_name) DO NOTHING
		RETURNING id, created_at, updated_at`,
		s.ServiceName, s.Price, s.Description,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if db.IsNoRows(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*MedicalService, error) {
	s, err := r.scanService(r.conn(ctx).QueryRow(ctx, `SELECT `+serviceCols+` FROM service WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("service", id)
	}
	return s, err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM service WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("service", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, search string, limit, offset int) ([]*MedicalService, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if search != "" {
		where += fmt.Sprintf(` AND service_name ILIKE $%d`, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM service`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + serviceCols + ` FROM service` + where + fmt.Sprintf(` ORDER BY service_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicalService
	for rows.Next() {
		s, err := r.scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
