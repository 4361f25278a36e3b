package validation

import "time"

// Name identifies a registered payload schema.
type Name string

const (
	Patient           Name = "patient"
	PatientUpdate     Name = "patient_update"
	Appointment       Name = "appointment"
	AppointmentAction Name = "appointment_action"
	VitalSigns        Name = "vital_signs"
	Diagnosis         Name = "diagnosis"
	Doctor            Name = "doctor"
	WorkingDay        Name = "working_day"
	Staff             Name = "staff"
	Service           Name = "service"
	Review            Name = "review"
)

var registry = map[Name]func() any{
	Patient:           func() any { return &PatientInput{} },
	PatientUpdate:     func() any { return &PatientProfile{} },
	Appointment:       func() any { return &AppointmentInput{} },
	AppointmentAction: func() any { return &AppointmentActionInput{} },
	VitalSigns:        func() any { return &VitalSignsInput{} },
	Diagnosis:         func() any { return &DiagnosisInput{} },
	Doctor:            func() any { return &DoctorInput{} },
	WorkingDay:        func() any { return &WorkingDayInput{} },
	Staff:             func() any { return &StaffInput{} },
	Service:           func() any { return &ServiceInput{} },
	Review:            func() any { return &ReviewInput{} },
}

// aliases maps legacy form keys onto their canonical field name.
var aliases = map[Name]map[string]string{
	VitalSigns: {"heartRate": "heart_rate"},
	Doctor:     {"work_schedule": "working_days"},
}

// PatientProfile is the editable part of a patient; updates are checked
// against it alone.
type PatientProfile struct {
	FirstName              string    `mapstructure:"first_name" json:"first_name" validate:"required,min=2,max=50"`
	LastName               string    `mapstructure:"last_name" json:"last_name" validate:"required,min=2,max=50"`
	DateOfBirth            time.Time `mapstructure:"date_of_birth" json:"date_of_birth" validate:"required"`
	Gender                 string    `mapstructure:"gender" json:"gender" validate:"required,oneof=MALE FEMALE"`
	Phone                  string    `mapstructure:"phone" json:"phone" validate:"required,len=10,number"`
	Email                  string    `mapstructure:"email" json:"email" validate:"required,email"`
	Address                string    `mapstructure:"address" json:"address" validate:"required,min=5,max=500"`
	MaritalStatus          string    `mapstructure:"marital_status" json:"marital_status" validate:"required,oneof=married single divorced widowed separated"`
	EmergencyContactName   string    `mapstructure:"emergency_contact_name" json:"emergency_contact_name" validate:"required,min=2,max=50"`
	EmergencyContactNumber string    `mapstructure:"emergency_contact_number" json:"emergency_contact_number" validate:"required,len=10,number"`
	Relation               string    `mapstructure:"relation" json:"relation" validate:"required,oneof=mother father husband wife other"`
	BloodGroup             string    `mapstructure:"blood_group" json:"blood_group,omitempty"`
	Allergies              string    `mapstructure:"allergies" json:"allergies,omitempty"`
	MedicalConditions      string    `mapstructure:"medical_conditions" json:"medical_conditions,omitempty"`
	MedicalHistory         string    `mapstructure:"medical_history" json:"medical_history,omitempty"`
	InsuranceProvider      string    `mapstructure:"insurance_provider" json:"insurance_provider,omitempty"`
	InsuranceNumber        string    `mapstructure:"insurance_number" json:"insurance_number,omitempty"`
	Img                    string    `mapstructure:"img" json:"img,omitempty"`
}

// PatientInput is a registration payload; all three consents must be given.
type PatientInput struct {
	PatientProfile `mapstructure:",squash"`
	PrivacyConsent bool `mapstructure:"privacy_consent" json:"privacy_consent" validate:"eqtrue"`
	ServiceConsent bool `mapstructure:"service_consent" json:"service_consent" validate:"eqtrue"`
	MedicalConsent bool `mapstructure:"medical_consent" json:"medical_consent" validate:"eqtrue"`
}

type AppointmentInput struct {
	PatientID       string    `mapstructure:"patient_id" json:"patient_id" validate:"required"`
	DoctorID        string    `mapstructure:"doctor_id" json:"doctor_id" validate:"required"`
	AppointmentDate time.Time `mapstructure:"appointment_date" json:"appointment_date" validate:"required"`
	Time            string    `mapstructure:"time" json:"time" validate:"required"`
	Type            string    `mapstructure:"type" json:"type" validate:"required"`
	Note            string    `mapstructure:"note" json:"note,omitempty"`
}

type AppointmentActionInput struct {
	Status string `mapstructure:"status" json:"status" validate:"required,oneof=PENDING SCHEDULED COMPLETED CANCELLED"`
	Reason string `mapstructure:"reason" json:"reason,omitempty" validate:"omitempty,max=500"`
}

// VitalSignsInput is one set of measurements. MedicalID is zero when the
// caller did not supply an existing record.
type VitalSignsInput struct {
	PatientID        string   `mapstructure:"patient_id" json:"patient_id" validate:"required"`
	MedicalID        int64    `mapstructure:"medical_id" json:"medical_id,omitempty" validate:"gte=0"`
	BodyTemperature  float64  `mapstructure:"body_temperature" json:"body_temperature" validate:"required,gt=0"`
	HeartRate        string   `mapstructure:"heart_rate" json:"heart_rate" validate:"required"`
	Systolic         int      `mapstructure:"systolic" json:"systolic" validate:"required,gt=0"`
	Diastolic        int      `mapstructure:"diastolic" json:"diastolic" validate:"required,gt=0"`
	RespiratoryRate  *int     `mapstructure:"respiratory_rate" json:"respiratory_rate,omitempty" validate:"omitempty,gte=0"`
	OxygenSaturation *float64 `mapstructure:"oxygen_saturation" json:"oxygen_saturation,omitempty" validate:"omitempty,gte=0,lte=100"`
	Weight           float64  `mapstructure:"weight" json:"weight" validate:"required,gt=0"`
	Height           float64  `mapstructure:"height" json:"height" validate:"required,gt=0"`
}

// normalize drops optional measurements that were submitted as blank.
func (v *VitalSignsInput) normalize() {
	if v.RespiratoryRate != nil && *v.RespiratoryRate == 0 {
		v.RespiratoryRate = nil
	}
	if v.OxygenSaturation != nil && *v.OxygenSaturation == 0 {
		v.OxygenSaturation = nil
	}
}

type DiagnosisInput struct {
	PatientID             string `mapstructure:"patient_id" json:"patient_id" validate:"required"`
	MedicalID             int64  `mapstructure:"medical_id" json:"medical_id" validate:"required,gt=0"`
	DoctorID              string `mapstructure:"doctor_id" json:"doctor_id" validate:"required"`
	Symptoms              string `mapstructure:"symptoms" json:"symptoms" validate:"required"`
	Diagnosis             string `mapstructure:"diagnosis" json:"diagnosis" validate:"required"`
	Notes                 string `mapstructure:"notes" json:"notes,omitempty"`
	PrescribedMedications string `mapstructure:"prescribed_medications" json:"prescribed_medications,omitempty"`
	FollowUpPlan          string `mapstructure:"follow_up_plan" json:"follow_up_plan,omitempty"`
}

type WorkingDayInput struct {
	Day       string `mapstructure:"day" json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `mapstructure:"start_time" json:"start_time" validate:"required,datetime=15:04"`
	CloseTime string `mapstructure:"close_time" json:"close_time" validate:"required,datetime=15:04"`
}

// DoctorInput is a doctor registration. Department may be left empty when the
// specialization maps to a known department.
type DoctorInput struct {
	Name           string            `mapstructure:"name" json:"name" validate:"required,min=2,max=50"`
	Phone          string            `mapstructure:"phone" json:"phone" validate:"required,len=10,number"`
	Email          string            `mapstructure:"email" json:"email" validate:"required,email"`
	Address        string            `mapstructure:"address" json:"address" validate:"required,min=5,max=500"`
	Specialization string            `mapstructure:"specialization" json:"specialization" validate:"required,min=2"`
	LicenseNumber  string            `mapstructure:"license_number" json:"license_number" validate:"required,min=2"`
	Type           string            `mapstructure:"type" json:"type" validate:"required,oneof=FULL PART"`
	Department     string            `mapstructure:"department" json:"department,omitempty" validate:"omitempty,min=2"`
	Img            string            `mapstructure:"img" json:"img,omitempty"`
	Password       string            `mapstructure:"password" json:"-" validate:"required,min=8"`
	WorkingDays    []WorkingDayInput `mapstructure:"working_days" json:"working_days,omitempty" validate:"omitempty,dive"`
}

type StaffInput struct {
	Name          string `mapstructure:"name" json:"name" validate:"required,min=2,max=50"`
	Role          string `mapstructure:"role" json:"role" validate:"required,oneof=NURSE LAB_TECHNICIAN"`
	Phone         string `mapstructure:"phone" json:"phone" validate:"required,len=10,number"`
	Email         string `mapstructure:"email" json:"email" validate:"required,email"`
	Address       string `mapstructure:"address" json:"address" validate:"required,min=5,max=500"`
	LicenseNumber string `mapstructure:"license_number" json:"license_number,omitempty"`
	Department    string `mapstructure:"department" json:"department,omitempty"`
	Img           string `mapstructure:"img" json:"img,omitempty"`
	Password      string `mapstructure:"password" json:"-" validate:"required,min=8"`
}

type ServiceInput struct {
	ServiceName string  `mapstructure:"service_name" json:"service_name" validate:"required,min=2,max=100"`
	Price       float64 `mapstructure:"price" json:"price" validate:"gt=0"`
	Description string  `mapstructure:"description" json:"description" validate:"required"`
}

type ReviewInput struct {
	PatientID string `mapstructure:"patient_id" json:"patient_id" validate:"required"`
	StaffID   string `mapstructure:"staff_id" json:"staff_id" validate:"required"`
	Rating    int    `mapstructure:"rating" json:"rating" validate:"gte=1,lte=5"`
	Comment   string `mapstructure:"comment" json:"comment" validate:"required,min=1,max=500"`
}
