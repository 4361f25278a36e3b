package staff

import (
	"strings"
	"time"
)

type Doctor struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	Address            string        `json:"address"`
	Specialization     string        `json:"specialization"`
	Department         string        `json:"department"`
	LicenseNumber      string        `json:"license_number"`
	Type               string        `json:"type"`
	Img                *string       `json:"img,omitempty"`
	ColorCode          string        `json:"color_code"`
	AvailabilityStatus string        `json:"availability_status"`
	WorkingDays        []*WorkingDay `json:"working_days,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// WorkingDay is one weekday on which a doctor receives patients.
type WorkingDay struct {
	ID        int64  `json:"id"`
	DoctorID  string `json:"doctor_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	CloseTime string `json:"close_time"`
}

type Staff struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Role          string    `json:"role"`
	LicenseNumber *string   `json:"license_number,omitempty"`
	Department    *string   `json:"department,omitempty"`
	Img           *string   `json:"img,omitempty"`
	ColorCode     string    `json:"color_code"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"

	AvailabilityAvailable = "AVAILABLE"
)

// departments maps a specialization to the department it belongs to.
var departments = map[string]string{
	"cardiologist":              "Cardiologie",
	"dermatologist":             "Dermatologie",
	"endocrinologist":           "Endocrinologie",
	"gastroenterologist":        "Gastro-entérologie",
	"neurologist":               "Neurologie",
	"oncologist":                "Oncologie",
	"orthopedic surgeon":        "Orthopédie",
	"pediatrician":              "Pédiatrie",
	"psychiatrist":              "Psychiatrie",
	"radiologist":               "Radiologie",
	"urologist":                 "Urologie",
	"ophthalmologist":           "Ophtalmologie",
	"obstetrician/gynecologist": "Obstétrique et Gynécologie",
	"anesthesiologist":          "Anesthésiologie",
	"pulmonologist":             "Pneumologie",
	"rheumatologist":            "Rhumatologie",
	"otolaryngologist":          "Oto-rhino-laryngologie (ORL)",
	"nephrologist":              "Néphrologie",
	"geriatrician":              "Gériatrie",
}

// DepartmentFor returns the department of a known specialization.
func DepartmentFor(specialization string) (string, bool) {
	d, ok := departments[strings.ToLower(strings.TrimSpace(specialization))]
	return d, ok
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
