package services

import (
	"context"

	"patient-vitals-service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// MedicalServiceContract defines the vitals checks run against a patient's stored baseline.
type MedicalServiceContract interface {
	// CheckBloodPressure alerts when the reading differs from the baseline in either component.
	// It reports whether an alert was sent.
	CheckBloodPressure(ctx context.Context, patientID string, reading entities.BloodPressure) (bool, error)
	// CheckTemperature alerts when the reading is further than the tolerance from the
	// baseline temperature, in either direction. It reports whether an alert was sent.
	CheckTemperature(ctx context.Context, patientID string, temperature decimal.Decimal) (bool, error)
}
