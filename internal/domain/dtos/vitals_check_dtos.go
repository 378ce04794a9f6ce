package dtos

// BloodPressureCheckRequest defines the payload for POST /vitals/:id/blood-pressure.
// Pointers distinguish a missing component from a zero reading, which must still be checked.
type BloodPressureCheckRequest struct {
	High *int `json:"high" validate:"required"`
	Low  *int `json:"low" validate:"required"`
}

// TemperatureCheckRequest defines the payload for POST /vitals/:id/temperature.
// Temperature is a decimal string ("36.6") so it is parsed without float rounding.
type TemperatureCheckRequest struct {
	Temperature string `json:"temperature" validate:"required,numeric"`
}

// VitalsCheckResponse is returned for every completed check.
type VitalsCheckResponse struct {
	PatientID string `json:"patientId"`
	Status    string `json:"status"` // always "CHECKED" on success
	AlertSent bool   `json:"alertSent"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
