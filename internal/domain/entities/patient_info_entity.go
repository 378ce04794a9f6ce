package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// BloodPressure is a pair of systolic (High) and diastolic (Low) values in mmHg.
// The same type carries a patient's baseline and a freshly observed reading.
type BloodPressure struct {
	High int `json:"high"`
	Low  int `json:"low"`
}

// Equal reports whether both components match exactly.
func (bp BloodPressure) Equal(other BloodPressure) bool {
	return bp.High == other.High && bp.Low == other.Low
}

// HealthInfo holds the reference-normal values readings are compared against.
type HealthInfo struct {
	NormalTemperature decimal.Decimal
	BloodPressure     BloodPressure
}

// PatientInfo represents a patient and their health baseline.
// Records are read-only once loaded from the repository.
type PatientInfo struct {
	ID         string
	Name       string
	Surname    string
	Birthday   time.Time
	HealthInfo HealthInfo
}
