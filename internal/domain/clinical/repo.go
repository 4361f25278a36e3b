package clinical

import (
	"context"
)

type RecordRepository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id int64) (*MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*MedicalRecord, int, error)
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*MedicalRecord, error)
}

type VitalSignsRepository interface {
	Create(ctx context.Context, v *VitalSigns) error
	ListByRecord(ctx context.Context, medicalID int64) ([]*VitalSigns, error)
}

type DiagnosisRepository interface {
	Create(ctx context.Context, d *Diagnosis) error
	ListByRecord(ctx context.Context, medicalID int64) ([]*Diagnosis, error)
}
