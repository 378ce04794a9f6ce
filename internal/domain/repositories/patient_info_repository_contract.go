package repositories

import (
	"context"
	"errors"

	"patient-vitals-service/internal/domain/entities"
)

// ErrPatientNotFound is returned (possibly wrapped) when no record matches the requested id.
var ErrPatientNotFound = errors.New("patient not found")

// PatientInfoRepositoryContract defines the operations for patient record storage.
type PatientInfoRepositoryContract interface {
	// Add stores a new record and returns its id. A record without an id gets a generated one.
	Add(ctx context.Context, patient *entities.PatientInfo) (string, error)
	GetByID(ctx context.Context, id string) (*entities.PatientInfo, error)
	// Remove deletes the record and returns what was stored.
	Remove(ctx context.Context, id string) (*entities.PatientInfo, error)
	Update(ctx context.Context, patient *entities.PatientInfo) error
	ListAll(ctx context.Context) ([]*entities.PatientInfo, error)
}
