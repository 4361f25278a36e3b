package patient

import (
	"time"

	"github.com/hms/hms/internal/platform/validation"
)

// Patient maps to the patient table.
type Patient struct {
	ID                     string    `json:"id"`
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	DateOfBirth            time.Time `json:"date_of_birth"`
	Gender                 string    `json:"gender"`
	Phone                  string    `json:"phone"`
	Email                  string    `json:"email"`
	Address                string    `json:"address"`
	MaritalStatus          string    `json:"marital_status"`
	EmergencyContactName   string    `json:"emergency_contact_name"`
	EmergencyContactNumber string    `json:"emergency_contact_number"`
	Relation               string    `json:"relation"`
	BloodGroup             *string   `json:"blood_group,omitempty"`
	Allergies              *string   `json:"allergies,omitempty"`
	MedicalConditions      *string   `json:"medical_conditions,omitempty"`
	MedicalHistory         *string   `json:"medical_history,omitempty"`
	InsuranceProvider      *string   `json:"insurance_provider,omitempty"`
	InsuranceNumber        *string   `json:"insurance_number,omitempty"`
	PrivacyConsent         bool      `json:"privacy_consent"`
	ServiceConsent         bool      `json:"service_consent"`
	MedicalConsent         bool      `json:"medical_consent"`
	Img                    *string   `json:"img,omitempty"`
	ColorCode              string    `json:"color_code"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// FullName is the display name used in lists.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// applyProfile copies the editable fields of a validated profile.
func (p *Patient) applyProfile(in *validation.PatientProfile) {
	p.FirstName = in.FirstName
	p.LastName = in.LastName
	p.DateOfBirth = in.DateOfBirth
	p.Gender = in.Gender
	p.Phone = in.Phone
	p.Email = in.Email
	p.Address = in.Address
	p.MaritalStatus = in.MaritalStatus
	p.EmergencyContactName = in.EmergencyContactName
	p.EmergencyContactNumber = in.EmergencyContactNumber
	p.Relation = in.Relation
	p.BloodGroup = optional(in.BloodGroup)
	p.Allergies = optional(in.Allergies)
	p.MedicalConditions = optional(in.MedicalConditions)
	p.MedicalHistory = optional(in.MedicalHistory)
	p.InsuranceProvider = optional(in.InsuranceProvider)
	p.InsuranceNumber = optional(in.InsuranceNumber)
	p.Img = optional(in.Img)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
