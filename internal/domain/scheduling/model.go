package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type Appointment struct {
	ID              int64     `json:"id"`
	PatientID       string    `json:"patient_id"`
	DoctorID        string    `json:"doctor_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Time            string    `json:"time"`
	Type            string    `json:"type"`
	Note            *string   `json:"note,omitempty"`
	Status          Status    `json:"status"`
	Reason          *string   `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// transitions lists the target states reachable from each state. COMPLETED
// and CANCELLED are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusPending},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := transitions[st]
	return st, ok
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// ValidateTransition checks that an appointment in from may move to to.
func ValidateTransition(from, to Status) error {
	allowed, ok := transitions[from]
	if !ok {
		return fmt.Errorf("unknown from-status: %s", from)
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("invalid transition from %s to %s", from, to)
}

// participles are the French past participles used in synthesized reasons.
var participles = map[Status]string{
	StatusPending:   "mis en attente",
	StatusScheduled: "planifié",
	StatusCompleted: "terminé",
	StatusCancelled: "annulé",
}

// DefaultReason is stored when a status change arrives without a reason.
func DefaultReason(to Status, at time.Time) string {
	return fmt.Sprintf("Le rendez-vous a été %s le %s", participles[to], at.Format(time.RFC1123))
}
