package adapters

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"patient-vitals-service/internal/domain/entities"
	"patient-vitals-service/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const birthdayLayout = "2006-01-02"

// patientInfoLine is the on-disk shape of one record: one JSON document per line.
type patientInfoLine struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Birthday   string `json:"birthday"`
	HealthInfo struct {
		NormalTemperature decimal.Decimal        `json:"normalTemperature"`
		BloodPressure     entities.BloodPressure `json:"bloodPressure"`
	} `json:"healthInfo"`
}

func toLine(p *entities.PatientInfo) patientInfoLine {
	var l patientInfoLine
	l.ID = p.ID
	l.Name = p.Name
	l.Surname = p.Surname
	if !p.Birthday.IsZero() {
		l.Birthday = p.Birthday.Format(birthdayLayout)
	}
	l.HealthInfo.NormalTemperature = p.HealthInfo.NormalTemperature
	l.HealthInfo.BloodPressure = p.HealthInfo.BloodPressure
	return l
}

func (l patientInfoLine) toEntity() (*entities.PatientInfo, error) {
	p := &entities.PatientInfo{
		ID:      l.ID,
		Name:    l.Name,
		Surname: l.Surname,
		HealthInfo: entities.HealthInfo{
			NormalTemperature: l.HealthInfo.NormalTemperature,
			BloodPressure:     l.HealthInfo.BloodPressure,
		},
	}
	if l.Birthday != "" {
		birthday, err := time.Parse(birthdayLayout, l.Birthday)
		if err != nil {
			return nil, fmt.Errorf("invalid birthday %q: %w", l.Birthday, err)
		}
		p.Birthday = birthday
	}
	return p, nil
}

// PatientInfoFileRepository stores patient records in a flat JSON-lines file.
// The file is re-read on every call, so edits made by other tools are picked up.
type PatientInfoFileRepository struct {
	path   string
	mu     sync.RWMutex
	logger *zap.Logger
}

var _ repositories.PatientInfoRepositoryContract = (*PatientInfoFileRepository)(nil)

// NewPatientInfoFileRepository creates a repository backed by the file at path.
// The file does not need to exist yet.
func NewPatientInfoFileRepository(path string, logger *zap.Logger) *PatientInfoFileRepository {
	return &PatientInfoFileRepository{path: path, logger: logger}
}

func (r *PatientInfoFileRepository) GetByID(ctx context.Context, id string) (*entities.PatientInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	patients, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for _, p := range patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("patient %s: %w", id, repositories.ErrPatientNotFound)
}

func (r *PatientInfoFileRepository) ListAll(ctx context.Context) ([]*entities.PatientInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readAll()
}

func (r *PatientInfoFileRepository) Add(ctx context.Context, patient *entities.PatientInfo) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if patient == nil {
		return "", errors.New("patient is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	patients, err := r.readAll()
	if err != nil {
		return "", err
	}

	stored := *patient
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	for _, p := range patients {
		if p.ID == stored.ID {
			return "", fmt.Errorf("patient %s already exists", stored.ID)
		}
	}

	if err := r.writeAll(append(patients, &stored)); err != nil {
		return "", err
	}
	r.logger.Debug("Patient added", zap.String("patient_id", stored.ID), zap.String("path", r.path))
	return stored.ID, nil
}

func (r *PatientInfoFileRepository) Remove(ctx context.Context, id string) (*entities.PatientInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	patients, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i, p := range patients {
		if p.ID != id {
			continue
		}
		rest := append(patients[:i:i], patients[i+1:]...)
		if err := r.writeAll(rest); err != nil {
			return nil, err
		}
		r.logger.Debug("Patient removed", zap.String("patient_id", id))
		return p, nil
	}
	return nil, fmt.Errorf("patient %s: %w", id, repositories.ErrPatientNotFound)
}

func (r *PatientInfoFileRepository) Update(ctx context.Context, patient *entities.PatientInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if patient == nil {
		return errors.New("patient is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	patients, err := r.readAll()
	if err != nil {
		return err
	}
	for i, p := range patients {
		if p.ID == patient.ID {
			updated := *patient
			patients[i] = &updated
			return r.writeAll(patients)
		}
	}
	return fmt.Errorf("patient %s: %w", patient.ID, repositories.ErrPatientNotFound)
}

func (r *PatientInfoFileRepository) readAll() ([]*entities.PatientInfo, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open patient file: %w", err)
	}
	defer f.Close()

	var patients []*entities.PatientInfo
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var line patientInfoLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", r.path, lineNo, err)
		}
		p, err := line.toEntity()
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", r.path, lineNo, err)
		}
		patients = append(patients, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read patient file: %w", err)
	}
	return patients, nil
}

// writeAll replaces the file atomically via a temp file in the same directory.
func (r *PatientInfoFileRepository) writeAll(patients []*entities.PatientInfo) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range patients {
		if err := enc.Encode(toLine(p)); err != nil {
			return fmt.Errorf("encode patient %s: %w", p.ID, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".patients-*")
	if err != nil {
		return fmt.Errorf("create temp patient file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write patient file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write patient file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace patient file: %w", err)
	}
	return nil
}
