package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/validation"
)

// TransitionRecorder is notified of every committed status change.
type TransitionRecorder interface {
	AppointmentTransition(from, to string)
}

type Service struct {
	appointments AppointmentRepository
	metrics      TransitionRecorder
	now          func() time.Time
}

func NewService(appt AppointmentRepository) *Service {
	return &Service{appointments: appt, now: time.Now}
}

// SetMetrics attaches an optional transition recorder.
func (s *Service) SetMetrics(m TransitionRecorder) {
	s.metrics = m
}

// CreateAppointment validates an appointment payload and stores it as PENDING.
func (s *Service) CreateAppointment(ctx context.Context, payload map[string]any) (*Appointment, error) {
	v, err := validation.Decode(validation.Appointment, payload)
	if err != nil {
		return nil, err
	}
	in := v.(*validation.AppointmentInput)
	if err := auth.RequireSubject(ctx, in.PatientID); err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		AppointmentDate: in.AppointmentDate,
		Time:            in.Time,
		Type:            in.Type,
		Status:          StatusPending,
	}
	if in.Note != "" {
		a.Note = &in.Note
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperr.Validation(validation.InvalidMessage, map[string]string{
				"patient_id": "Patient ou médecin introuvable",
				"doctor_id":  "Patient ou médecin introuvable",
			})
		}
		return nil, apperr.Upstream("create appointment", err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("appointment_id", a.ID).
		Str("patient_id", a.PatientID).
		Str("doctor_id", a.DoctorID).
		Msg("appointment created")
	return a, nil
}

// TransitionAppointment moves an appointment to target. An empty reason is
// replaced by a synthesized one. Moves out of a terminal state, to an unknown
// state or to the current state fail with an illegal transition error.
func (s *Service) TransitionAppointment(ctx context.Context, id int64, target, reason string) (*Appointment, error) {
	cur, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("get appointment", err)
	}

	to, ok := ParseStatus(target)
	if !ok {
		return nil, apperr.IllegalTransition(string(cur.Status), target)
	}
	if err := ValidateTransition(cur.Status, to); err != nil {
		return nil, apperr.IllegalTransition(string(cur.Status), string(to))
	}

	if strings.TrimSpace(reason) == "" {
		reason = DefaultReason(to, s.now())
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, cur.Status, to, reason)
	if errors.Is(err, apperr.ErrNotFound) {
		// Another request changed the status after it was read.
		return nil, apperr.IllegalTransition(string(cur.Status), string(to))
	}
	if err != nil {
		return nil, apperr.Upstream("update appointment status", err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentTransition(string(cur.Status), string(to))
	}
	zerolog.Ctx(ctx).Info().
		Int64("appointment_id", id).
		Str("from", string(cur.Status)).
		Str("to", string(to)).
		Msg("appointment status changed")
	return updated, nil
}

// GetAppointment returns one appointment; a patient actor sees only their own.
func (s *Service) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("get appointment", err)
	}
	if err := auth.RequireSubject(ctx, a.PatientID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAppointmentsByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	if err := auth.RequireSubject(ctx, patientID); err != nil {
		return nil, 0, err
	}
	items, total, err := s.appointments.ListByPatient(ctx, patientID, limit, offset)
	return items, total, apperr.Wrap("list appointments", err)
}

// ListAppointmentsByDoctor lists a doctor's agenda. It spans many patients,
// so self-service actors are refused.
func (s *Service) ListAppointmentsByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*Appointment, int, error) {
	if _, self := auth.SelfServiceSubject(ctx); self {
		return nil, 0, apperr.Unauthorized("Non autorisé")
	}
	items, total, err := s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
	return items, total, apperr.Wrap("list appointments", err)
}

// SearchAppointments filters by patient_id, doctor_id, status, date, from, to
// and type. An unknown status filter is a validation error. A patient actor
// is always restricted to their own appointments. params is not modified.
func (s *Service) SearchAppointments(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	filters := make(map[string]string, len(params)+1)
	for k, v := range params {
		filters[k] = v
	}
	if st, ok := filters["status"]; ok && st != "" {
		parsed, valid := ParseStatus(st)
		if !valid {
			return nil, 0, apperr.Field("status", "Statut inconnu")
		}
		filters["status"] = string(parsed)
	}
	if subject, self := auth.SelfServiceSubject(ctx); self {
		filters["patient_id"] = subject
	}
	items, total, err := s.appointments.Search(ctx, filters, limit, offset)
	return items, total, apperr.Wrap("search appointments", err)
}
