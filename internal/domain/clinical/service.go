package clinical

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/domain/scheduling"
	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/validation"
)

// AppointmentGetter resolves the appointment a clinical entry belongs to.
type AppointmentGetter interface {
	GetAppointment(ctx context.Context, id int64) (*scheduling.Appointment, error)
}

// OperationRecorder counts domain operations by outcome.
type OperationRecorder interface {
	Operation(name string, err error)
}

type Service struct {
	records      RecordRepository
	vitals       VitalSignsRepository
	diagnoses    DiagnosisRepository
	appointments AppointmentGetter
	tx           db.TxRunner
	metrics      OperationRecorder
}

func NewService(records RecordRepository, vitals VitalSignsRepository, diagnoses DiagnosisRepository,
	appointments AppointmentGetter, tx db.TxRunner) *Service {
	return &Service{records: records, vitals: vitals, diagnoses: diagnoses, appointments: appointments, tx: tx}
}

// SetMetrics attaches an optional operation recorder.
func (s *Service) SetMetrics(m OperationRecorder) {
	s.metrics = m
}

func (s *Service) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.Operation(op, err)
	}
}

// RecordVitalSigns stores one set of vital signs for an appointment. Without a
// medical_id in the payload a new medical record is created for (patient,
// appointment, doctor) in the same transaction; with one, that record is
// reused and no record is created. An empty doctorID means the appointment's
// doctor.
func (s *Service) RecordVitalSigns(ctx context.Context, payload map[string]any, appointmentID int64, doctorID string) (v *VitalSigns, err error) {
	defer func() { s.observe("record_vital_signs", err) }()

	if auth.UserIDFromContext(ctx) == "" {
		return nil, apperr.Unauthorized("Non autorisé")
	}
	decoded, err := validation.Decode(validation.VitalSigns, payload)
	if err != nil {
		return nil, err
	}
	in := decoded.(*validation.VitalSignsInput)

	appt, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, apperr.Wrap("get appointment", err)
	}
	if in.PatientID != appt.PatientID {
		return nil, apperr.Field("patient_id", "Le patient ne correspond pas au rendez-vous")
	}
	if doctorID == "" {
		doctorID = appt.DoctorID
	}

	v = &VitalSigns{
		MedicalID:        in.MedicalID,
		PatientID:        in.PatientID,
		BodyTemperature:  in.BodyTemperature,
		HeartRate:        in.HeartRate,
		Systolic:         in.Systolic,
		Diastolic:        in.Diastolic,
		RespiratoryRate:  in.RespiratoryRate,
		OxygenSaturation: in.OxygenSaturation,
		Weight:           in.Weight,
		Height:           in.Height,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if v.MedicalID == 0 {
			rec := &MedicalRecord{PatientID: in.PatientID, AppointmentID: appointmentID, DoctorID: doctorID}
			if err := s.records.Create(ctx, rec); err != nil {
				return apperr.Upstream("create medical record", err)
			}
			v.MedicalID = rec.ID
		} else {
			rec, err := s.records.GetByID(ctx, v.MedicalID)
			if err != nil {
				return apperr.Wrap("get medical record", err)
			}
			if rec.AppointmentID != appointmentID || rec.PatientID != in.PatientID {
				return apperr.Field("medical_id", "Le dossier médical ne correspond pas au rendez-vous")
			}
		}
		if err := s.vitals.Create(ctx, v); err != nil {
			return apperr.Upstream("create vital signs", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("appointment_id", appointmentID).
		Int64("medical_id", v.MedicalID).
		Bool("new_record", in.MedicalID == 0).
		Msg("vital signs recorded")
	return v, nil
}

// AddDiagnosis attaches a diagnosis to an existing medical record of the
// appointment. It never creates a medical record.
func (s *Service) AddDiagnosis(ctx context.Context, payload map[string]any, appointmentID int64) (d *Diagnosis, err error) {
	defer func() { s.observe("add_diagnosis", err) }()

	if auth.UserIDFromContext(ctx) == "" {
		return nil, apperr.Unauthorized("Non autorisé")
	}
	decoded, err := validation.Decode(validation.Diagnosis, payload)
	if err != nil {
		return nil, err
	}
	in := decoded.(*validation.DiagnosisInput)

	rec, err := s.records.GetByID(ctx, in.MedicalID)
	if err != nil {
		return nil, apperr.Wrap("get medical record", err)
	}
	if rec.AppointmentID != appointmentID {
		return nil, apperr.Field("medical_id", "Le dossier médical ne correspond pas au rendez-vous")
	}

	d = &Diagnosis{
		MedicalID:             in.MedicalID,
		PatientID:             in.PatientID,
		DoctorID:              in.DoctorID,
		Symptoms:              in.Symptoms,
		Diagnosis:             in.Diagnosis,
		Notes:                 optional(in.Notes),
		PrescribedMedications: optional(in.PrescribedMedications),
		FollowUpPlan:          optional(in.FollowUpPlan),
	}
	if err := s.diagnoses.Create(ctx, d); err != nil {
		return nil, apperr.Upstream("create diagnosis", err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("appointment_id", appointmentID).
		Int64("medical_id", d.MedicalID).
		Msg("diagnosis added")
	return d, nil
}

// GetRecord returns a medical record with its vital signs and diagnoses.
func (s *Service) GetRecord(ctx context.Context, id int64) (*MedicalRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("get medical record", err)
	}
	if err := auth.RequireSubject(ctx, rec.PatientID); err != nil {
		return nil, err
	}
	if rec.VitalSigns, err = s.vitals.ListByRecord(ctx, id); err != nil {
		return nil, apperr.Upstream("list vital signs", err)
	}
	if rec.Diagnoses, err = s.diagnoses.ListByRecord(ctx, id); err != nil {
		return nil, apperr.Upstream("list diagnoses", err)
	}
	return rec, nil
}

func (s *Service) ListRecordsByPatient(ctx context.Context, patientID string, limit, offset int) ([]*MedicalRecord, int, error) {
	if err := auth.RequireSubject(ctx, patientID); err != nil {
		return nil, 0, err
	}
	items, total, err := s.records.ListByPatient(ctx, patientID, limit, offset)
	return items, total, apperr.Wrap("list medical records", err)
}

// ListRecordsByAppointment lists the records of one appointment. A patient
// actor must own the appointment.
func (s *Service) ListRecordsByAppointment(ctx context.Context, appointmentID int64) ([]*MedicalRecord, error) {
	if _, self := auth.SelfServiceSubject(ctx); self {
		appt, err := s.appointments.GetAppointment(ctx, appointmentID)
		if err != nil {
			return nil, apperr.Wrap("get appointment", err)
		}
		if err := auth.RequireSubject(ctx, appt.PatientID); err != nil {
			return nil, err
		}
	}
	items, err := s.records.ListByAppointment(ctx, appointmentID)
	return items, apperr.Wrap("list medical records", err)
}
