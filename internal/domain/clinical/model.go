package clinical

import "time"

// MedicalRecord ties one clinical visit (patient, appointment, attending
// doctor) to the vital signs and diagnoses taken during it.
type MedicalRecord struct {
	ID            int64         `json:"id"`
	PatientID     string        `json:"patient_id"`
	AppointmentID int64         `json:"appointment_id"`
	DoctorID      string        `json:"doctor_id"`
	CreatedAt     time.Time     `json:"created_at"`
	VitalSigns    []*VitalSigns `json:"vital_signs,omitempty"`
	Diagnoses     []*Diagnosis  `json:"diagnoses,omitempty"`
}

type VitalSigns struct {
	ID               int64     `json:"id"`
	MedicalID        int64     `json:"medical_id"`
	PatientID        string    `json:"patient_id"`
	BodyTemperature  float64   `json:"body_temperature"`
	HeartRate        string    `json:"heart_rate"`
	Systolic         int       `json:"systolic"`
	Diastolic        int       `json:"diastolic"`
	RespiratoryRate  *int      `json:"respiratory_rate,omitempty"`
	OxygenSaturation *float64  `json:"oxygen_saturation,omitempty"`
	Weight           float64   `json:"weight"`
	Height           float64   `json:"height"`
	CreatedAt        time.Time `json:"created_at"`
}

// Diagnosis repeats patient and doctor ids so they can be queried without
// joining the medical record.
type Diagnosis struct {
	ID                    int64     `json:"id"`
	MedicalID             int64     `json:"medical_id"`
	PatientID             string    `json:"patient_id"`
	DoctorID              string    `json:"doctor_id"`
	Symptoms              string    `json:"symptoms"`
	Diagnosis             string    `json:"diagnosis"`
	Notes                 *string   `json:"notes,omitempty"`
	PrescribedMedications *string   `json:"prescribed_medications,omitempty"`
	FollowUpPlan          *string   `json:"follow_up_plan,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
