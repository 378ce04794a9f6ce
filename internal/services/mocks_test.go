package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"patient-vitals-service/internal/domain/entities"
	"patient-vitals-service/internal/domain/repositories"
)

// --- MockPatientInfoRepository ---
// Compile-time check to ensure MockPatientInfoRepository implements PatientInfoRepositoryContract
var _ repositories.PatientInfoRepositoryContract = (*MockPatientInfoRepository)(nil)

// MockPatientInfoRepository is a mock implementation of PatientInfoRepositoryContract.
type MockPatientInfoRepository struct {
	AddFunc     func(ctx context.Context, patient *entities.PatientInfo) (string, error)
	GetByIDFunc func(ctx context.Context, id string) (*entities.PatientInfo, error)
	RemoveFunc  func(ctx context.Context, id string) (*entities.PatientInfo, error)
	UpdateFunc  func(ctx context.Context, patient *entities.PatientInfo) error
	ListAllFunc func(ctx context.Context) ([]*entities.PatientInfo, error)

	GetByIDFuncCallCount int32
	LastRequestedID      atomic.Value
}

func (m *MockPatientInfoRepository) Add(ctx context.Context, patient *entities.PatientInfo) (string, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, patient)
	}
	return "", errors.New("AddFunc not implemented in mock")
}

func (m *MockPatientInfoRepository) GetByID(ctx context.Context, id string) (*entities.PatientInfo, error) {
	atomic.AddInt32(&m.GetByIDFuncCallCount, 1)
	m.LastRequestedID.Store(id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockPatientInfoRepository) Remove(ctx context.Context, id string) (*entities.PatientInfo, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil, errors.New("RemoveFunc not implemented in mock")
}

func (m *MockPatientInfoRepository) Update(ctx context.Context, patient *entities.PatientInfo) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, patient)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

func (m *MockPatientInfoRepository) ListAll(ctx context.Context) ([]*entities.PatientInfo, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

// --- MockSendAlertService ---
var _ SendAlertServiceContract = (*MockSendAlertService)(nil)

// MockSendAlertService records every message it is asked to send.
type MockSendAlertService struct {
	mu       sync.Mutex
	Messages []string
}

func (m *MockSendAlertService) Send(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, message)
}

func (m *MockSendAlertService) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Messages...)
}
