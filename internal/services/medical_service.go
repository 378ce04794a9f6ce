package services

import (
	"context"
	"fmt"

	"patient-vitals-service/internal/domain/entities"
	"patient-vitals-service/internal/domain/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultTemperatureTolerance = "1.5"

// DefaultTemperatureTolerance is the largest deviation from the normal temperature that stays silent.
func DefaultTemperatureTolerance() decimal.Decimal {
	return decimal.RequireFromString(defaultTemperatureTolerance)
}

// MedicalServiceImpl implements MedicalServiceContract.
type MedicalServiceImpl struct {
	patientRepo          repositories.PatientInfoRepositoryContract
	alertService         SendAlertServiceContract
	temperatureTolerance decimal.Decimal
	logger               *zap.Logger
}

// NewMedicalService creates a new instance of MedicalServiceImpl using DefaultTemperatureTolerance.
func NewMedicalService(
	patientRepo repositories.PatientInfoRepositoryContract,
	alertService SendAlertServiceContract,
	logger *zap.Logger,
) MedicalServiceContract {
	return NewMedicalServiceWithTolerance(patientRepo, alertService, DefaultTemperatureTolerance(), logger)
}

// NewMedicalServiceWithTolerance is NewMedicalService with an explicit temperature tolerance.
func NewMedicalServiceWithTolerance(
	patientRepo repositories.PatientInfoRepositoryContract,
	alertService SendAlertServiceContract,
	tolerance decimal.Decimal,
	logger *zap.Logger,
) MedicalServiceContract {
	return &MedicalServiceImpl{
		patientRepo:          patientRepo,
		alertService:         alertService,
		temperatureTolerance: tolerance,
		logger:               logger,
	}
}

func (s *MedicalServiceImpl) CheckBloodPressure(ctx context.Context, patientID string, reading entities.BloodPressure) (bool, error) {
	patient, err := s.getPatient(ctx, patientID)
	if err != nil {
		return false, err
	}

	baseline := patient.HealthInfo.BloodPressure
	if baseline.Equal(reading) {
		return false, nil
	}

	s.logger.Info("Blood pressure deviates from baseline",
		zap.String("patient_id", patient.ID),
		zap.Int("baseline_high", baseline.High),
		zap.Int("baseline_low", baseline.Low),
		zap.Int("reading_high", reading.High),
		zap.Int("reading_low", reading.Low),
	)
	s.alertService.Send(alertMessage(patient))
	return true, nil
}

func (s *MedicalServiceImpl) CheckTemperature(ctx context.Context, patientID string, temperature decimal.Decimal) (bool, error) {
	patient, err := s.getPatient(ctx, patientID)
	if err != nil {
		return false, err
	}

	normal := patient.HealthInfo.NormalTemperature
	if !temperature.Sub(normal).Abs().GreaterThan(s.temperatureTolerance) {
		return false, nil
	}

	s.logger.Info("Temperature deviates from baseline",
		zap.String("patient_id", patient.ID),
		zap.Stringer("normal_temperature", normal),
		zap.Stringer("temperature", temperature),
	)
	s.alertService.Send(alertMessage(patient))
	return true, nil
}

func (s *MedicalServiceImpl) getPatient(ctx context.Context, patientID string) (*entities.PatientInfo, error) {
	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		s.logger.Error("Failed to load patient", zap.String("patient_id", patientID), zap.Error(err))
		return nil, fmt.Errorf("load patient %s: %w", patientID, err)
	}
	if patient == nil {
		return nil, fmt.Errorf("load patient %s: %w", patientID, repositories.ErrPatientNotFound)
	}
	return patient, nil
}

// alertMessage reports the id stored on the record, which is not necessarily the lookup key.
func alertMessage(patient *entities.PatientInfo) string {
	return fmt.Sprintf("Warning, patient with id: %s, need help", patient.ID)
}
