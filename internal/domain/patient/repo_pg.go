package patient

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

const patientCols = `id, first_name, last_name, date_of_birth, gender, phone, email, address,
	marital_status, emergency_contact_name, emergency_contact_number, relation,
	blood_group, allergies, medical_conditions, medical_history, insurance_provider, insurance_number,
	privacy_consent, service_consent, medical_consent, img, color_code, created_at, updated_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender, &p.Phone, &p.Email, &p.Address,
		&p.MaritalStatus, &p.EmergencyContactName, &p.EmergencyContactNumber, &p.Relation,
		&p.BloodGroup, &p.Allergies, &p.MedicalConditions, &p.MedicalHistory, &p.InsuranceProvider, &p.InsuranceNumber,
		&p.PrivacyConsent, &p.ServiceConsent, &p.MedicalConsent, &p.Img, &p.ColorCode, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (id, first_name, last_name, date_of_birth, gender, phone, email, address,
			marital_status, emergency_contact_name, emergency_contact_number, relation,
			blood_group, allergies, medical_conditions, medical_history, insurance_provider, insurance_number,
			privacy_consent, service_consent, medical_consent, img, color_code)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Phone, p.Email, p.Address,
		p.MaritalStatus, p.EmergencyContactName, p.EmergencyContactNumber, p.Relation,
		p.BloodGroup, p.Allergies, p.MedicalConditions, p.MedicalHistory, p.InsuranceProvider, p.InsuranceNumber,
		p.PrivacyConsent, p.ServiceConsent, p.MedicalConsent, p.Img, p.ColorCode,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("patient", id)
	}
	return p, err
}

// Update rewrites the profile; consents and color code are fixed at registration.
func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, date_of_birth=$4, gender=$5, phone=$6, email=$7,
			address=$8, marital_status=$9, emergency_contact_name=$10, emergency_contact_number=$11,
			relation=$12, blood_group=$13, allergies=$14, medical_conditions=$15, medical_history=$16,
			insurance_provider=$17, insurance_number=$18, img=$19, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Phone, p.Email,
		p.Address, p.MaritalStatus, p.EmergencyContactName, p.EmergencyContactNumber,
		p.Relation, p.BloodGroup, p.Allergies, p.MedicalConditions, p.MedicalHistory,
		p.InsuranceProvider, p.InsuranceNumber, p.Img,
	).Scan(&p.UpdatedAt)
	if db.IsNoRows(err) {
		return apperr.NotFound("patient", p.ID)
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if search != "" {
		where += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + patientCols + ` FROM patient` + where + fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
