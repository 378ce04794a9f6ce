package mappers

import (
	"encoding/json"
	"fmt"

	"patient-vitals-service/internal/domain/entities"
)

// FHIRHumanName represents a FHIR HumanName data type.
type FHIRHumanName struct {
	Use    string   `json:"use,omitempty"`    // usual | official | temp | nickname | anonymous | old | maiden
	Family string   `json:"family,omitempty"` // surname
	Given  []string `json:"given,omitempty"`
}

// FHIRIdentifier represents a FHIR Identifier data type.
type FHIRIdentifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value"`
}

// FHIRPatientResource represents a simplified FHIR Patient resource.
type FHIRPatientResource struct {
	ResourceType string           `json:"resourceType"` // always "Patient"
	ID           string           `json:"id,omitempty"`
	Identifier   []FHIRIdentifier `json:"identifier,omitempty"`
	Name         []FHIRHumanName  `json:"name,omitempty"`
	BirthDate    string           `json:"birthDate,omitempty"` // YYYY-MM-DD
}

// PatientIdentifierSystem namespaces the patient ids issued by this service.
const PatientIdentifierSystem = "urn:patient-vitals-service:patient-id"

// MapPatientToFHIR converts a PatientInfo into a FHIR Patient resource.
func MapPatientToFHIR(patient entities.PatientInfo) (json.RawMessage, error) {
	if patient.Name == "" {
		return nil, fmt.Errorf("patient name is required for FHIR mapping")
	}

	fhirPatient := FHIRPatientResource{
		ResourceType: "Patient",
		ID:           patient.ID,
		Name: []FHIRHumanName{{
			Use:    "official",
			Family: patient.Surname,
			Given:  []string{patient.Name},
		}},
	}
	if patient.ID != "" {
		fhirPatient.Identifier = []FHIRIdentifier{{System: PatientIdentifierSystem, Value: patient.ID}}
	}
	if !patient.Birthday.IsZero() {
		fhirPatient.BirthDate = patient.Birthday.Format("2006-01-02")
	}

	rawJSON, err := json.MarshalIndent(fhirPatient, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling FHIR patient resource to JSON: %w", err)
	}
	return rawJSON, nil
}
