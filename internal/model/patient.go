package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identification document types accepted by the registry.
const (
	IdentificationCC = "CC"
	IdentificationTI = "TI"
	IdentificationCE = "CE"
)

// Patient is the wire representation of a patient record. Field names match
// the remote API JSON exactly; the server owns id, createdAt and updatedAt.
type Patient struct {
	ID                   uuid.UUID `json:"id,omitempty"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	IdentificationNumber string    `json:"identificationNumber"`
	IdentificationType   string    `json:"identificationType"`
	DateOfBirth          string    `json:"dateOfBirth,omitempty"`
	Email                string    `json:"email,omitempty"`
	PhoneNumber          string    `json:"phoneNumber,omitempty"`

	SexBiological  string `json:"sexBiological,omitempty"`
	GenderIdentity string `json:"genderIdentity,omitempty"`
	MaritalStatus  string `json:"maritalStatus,omitempty"`
	EducationLevel string `json:"educationLevel,omitempty"`
	Occupation     string `json:"occupation,omitempty"`

	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`

	Address                 string `json:"address,omitempty"`
	City                    string `json:"city,omitempty"`
	Municipality            string `json:"municipality,omitempty"`
	Neighborhood            string `json:"neighborhood,omitempty"`
	PostalCode              string `json:"postalCode,omitempty"`
	HousingType             string `json:"housingType,omitempty"`
	SocioeconomicStratum    *int   `json:"socioeconomicStratum,omitempty"`
	ResidenceDurationMonths *int   `json:"residenceDurationMonths,omitempty"`

	EPS       string   `json:"eps,omitempty"`
	BloodType string   `json:"bloodType,omitempty"`
	HeightCm  *float64 `json:"heightCm,omitempty"`
	WeightKg  *float64 `json:"weightKg,omitempty"`

	AbdominalCircumferenceCm *float64 `json:"abdominalCircumferenceCm,omitempty"`
	HeartRateBpm             *float64 `json:"heartRateBpm,omitempty"`
	RespiratoryRateRpm       *float64 `json:"respiratoryRateRpm,omitempty"`
	BloodPressureSys         *float64 `json:"bloodPressureSys,omitempty"`
	BloodPressureDia         *float64 `json:"bloodPressureDia,omitempty"`
	TemperatureC             *float64 `json:"temperatureC,omitempty"`
	SpO2                     *float64 `json:"spo2,omitempty"`

	Allergies         string `json:"allergies,omitempty"`
	Medications       string `json:"medications,omitempty"`
	Surgeries         string `json:"surgeries,omitempty"`
	FamilyHistory     string `json:"familyHistory,omitempty"`
	Habits            string `json:"habits,omitempty"`
	Vaccines          string `json:"vaccines,omitempty"`
	ChronicConditions string `json:"chronicConditions,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// FullName joins first and last name with a single space.
func (p *Patient) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", p.FirstName, p.LastName))
}

// SearchKey is the lowercase composite used for list filtering:
// full name plus identification number.
func (p *Patient) SearchKey() string {
	return strings.ToLower(fmt.Sprintf("%s %s %s", p.FirstName, p.LastName, p.IdentificationNumber))
}

// BMI returns the body-mass index rounded to two decimals, or false when
// height or weight is missing or zero. Never divides by zero.
func (p *Patient) BMI() (float64, bool) {
	return ComputeBMI(p.HeightCm, p.WeightKg)
}

// ComputeBMI derives weight/(height/100)^2 from optional measurements.
func ComputeBMI(heightCm, weightKg *float64) (float64, bool) {
	if heightCm == nil || weightKg == nil {
		return 0, false
	}
	h := *heightCm / 100
	w := *weightKg
	if h == 0 || w == 0 {
		return 0, false
	}
	bmi := w / (h * h)
	return math.Round(bmi*100) / 100, true
}
