package catalog

import "time"

// MedicalService is a billable service offered by the hospital.
type MedicalService struct {
	ID          int64     `json:"id"`
	ServiceName string    `json:"service_name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Defaults is the catalog loaded by the seed-services command.
var Defaults = []MedicalService{
	{ServiceName: "Consultation générale", Price: 25000, Description: "Consultation avec un médecin généraliste"},
	{ServiceName: "Consultation spécialisée", Price: 40000, Description: "Consultation avec un médecin spécialiste"},
	{ServiceName: "Analyse sanguine complète", Price: 15000, Description: "Numération formule sanguine et bilan biochimique"},
	{ServiceName: "Radiographie", Price: 30000, Description: "Examen radiologique standard"},
	{ServiceName: "Échographie", Price: 35000, Description: "Échographie abdominale ou pelvienne"},
	{ServiceName: "Électrocardiogramme", Price: 20000, Description: "ECG de repos douze dérivations"},
}
