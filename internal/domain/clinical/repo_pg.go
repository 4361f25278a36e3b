package clinical

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

// =========== Medical Record Repository ===========

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository { return &recordRepoPG{pool: pool} }

func (r *recordRepoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

const recordCols = `id, patient_id, appointment_id, doctor_id, created_at`

func (r *recordRepoPG) scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var m MedicalRecord
	err := row.Scan(&m.ID, &m.PatientID, &m.AppointmentID, &m.DoctorID, &m.CreatedAt)
	return &m, err
}

func (r *recordRepoPG) Create(ctx context.Context, m *MedicalRecord) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_record (patient_id, appointment_id, doctor_id)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		m.PatientID, m.AppointmentID, m.DoctorID,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *recordRepoPG) GetByID(ctx context.Context, id int64) (*MedicalRecord, error) {
	m, err := r.scanRecord(r.conn(ctx).QueryRow(ctx, `SELECT `+recordCols+` FROM medical_record WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("medical record", id)
	}
	return m, err
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*MedicalRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_record WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+` FROM medical_record WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	return items, total, err
}

func (r *recordRepoPG) ListByAppointment(ctx context.Context, appointmentID int64) ([]*MedicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+` FROM medical_record WHERE appointment_id = $1
		ORDER BY created_at`, appointmentID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *recordRepoPG) collect(rows pgx.Rows) ([]*MedicalRecord, error) {
	defer rows.Close()
	var items []*MedicalRecord
	for rows.Next() {
		m, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// =========== Vital Signs Repository ===========

type vitalSignsRepoPG struct{ pool *pgxpool.Pool }

func NewVitalSignsRepoPG(pool *pgxpool.Pool) VitalSignsRepository {
	return &vitalSignsRepoPG{pool: pool}
}

func (r *vitalSignsRepoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

const vitalsCols = `id, medical_id, patient_id, body_temperature, heart_rate, systolic, diastolic,
	respiratory_rate, oxygen_saturation, weight, height, created_at`

func (r *vitalSignsRepoPG) Create(ctx context.Context, v *VitalSigns) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO vital_signs (medical_id, patient_id, body_temperature, heart_rate, systolic, diastolic,
			respiratory_rate, oxygen_saturation, weight, height)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`,
		v.MedicalID, v.PatientID, v.BodyTemperature, v.HeartRate, v.Systolic, v.Diastolic,
		v.RespiratoryRate, v.OxygenSaturation, v.Weight, v.Height,
	).Scan(&v.ID, &v.CreatedAt)
}

func (r *vitalSignsRepoPG) ListByRecord(ctx context.Context, medicalID int64) ([]*VitalSigns, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+vitalsCols+` FROM vital_signs WHERE medical_id = $1 ORDER BY created_at`, medicalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*VitalSigns
	for rows.Next() {
		var v VitalSigns
		if err := rows.Scan(&v.ID, &v.MedicalID, &v.PatientID, &v.BodyTemperature, &v.HeartRate, &v.Systolic, &v.Diastolic,
			&v.RespiratoryRate, &v.OxygenSaturation, &v.Weight, &v.Height, &v.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &v)
	}
	return items, rows.Err()
}

// =========== Diagnosis Repository ===========

type diagnosisRepoPG struct{ pool *pgxpool.Pool }

func NewDiagnosisRepoPG(pool *pgxpool.Pool) DiagnosisRepository {
	return &diagnosisRepoPG{pool: pool}
}

func (r *diagnosisRepoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

const diagnosisCols = `id, medical_id, patient_id, doctor_id, symptoms, diagnosis, notes,
	prescribed_medications, follow_up_plan, created_at`

func (r *diagnosisRepoPG) Create(ctx context.Context, d *Diagnosis) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO diagnosis (medical_id, patient_id, doctor_id, symptoms, diagnosis, notes,
			prescribed_medications, follow_up_plan)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at`,
		d.MedicalID, d.PatientID, d.DoctorID, d.Symptoms, d.Diagnosis, d.Notes,
		d.PrescribedMedications, d.FollowUpPlan,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *diagnosisRepoPG) ListByRecord(ctx context.Context, medicalID int64) ([]*Diagnosis, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+diagnosisCols+` FROM diagnosis WHERE medical_id = $1 ORDER BY created_at`, medicalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Diagnosis
	for rows.Next() {
		var d Diagnosis
		if err := rows.Scan(&d.ID, &d.MedicalID, &d.PatientID, &d.DoctorID, &d.Symptoms, &d.Diagnosis, &d.Notes,
			&d.PrescribedMedications, &d.FollowUpPlan, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}
