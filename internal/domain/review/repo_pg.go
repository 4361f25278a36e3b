package review

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, rv *Review) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO review (patient_id, staff_id, rating, comment)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		rv.PatientID, rv.StaffID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
}

func (r *repoPG) ListByStaff(ctx context.Context, staffID string) ([]*Review, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, staff_id, rating, comment, created_at FROM review
		WHERE staff_id = $1 ORDER BY created_at DESC`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.PatientID, &rv.StaffID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &rv)
	}
	return items, rows.Err()
}
