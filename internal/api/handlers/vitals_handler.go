package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patient-vitals-service/internal/domain/dtos"
	"patient-vitals-service/internal/domain/entities"
	"patient-vitals-service/internal/domain/repositories"
	"patient-vitals-service/internal/fhir/mappers"
	"patient-vitals-service/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

type VitalsHandler struct {
	medicalService services.MedicalServiceContract
	patientRepo    repositories.PatientInfoRepositoryContract
	validate       *validator.Validate
	logger         *zap.Logger
}

func NewVitalsHandler(
	ms services.MedicalServiceContract,
	patientRepo repositories.PatientInfoRepositoryContract,
	logger *zap.Logger,
) *VitalsHandler {
	return &VitalsHandler{
		medicalService: ms,
		patientRepo:    patientRepo,
		validate:       validator.New(),
		logger:         logger,
	}
}

func (h *VitalsHandler) CheckBloodPressure(c *fiber.Ctx) error {
	patientID := c.Params("id")

	var req dtos.BloodPressureCheckRequest
	if err := h.parse(c, &req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	sent, err := h.medicalService.CheckBloodPressure(ctx, patientID, entities.BloodPressure{High: *req.High, Low: *req.Low})
	if err != nil {
		return h.serviceError(c, patientID, err)
	}
	return c.JSON(dtos.VitalsCheckResponse{PatientID: patientID, Status: "CHECKED", AlertSent: sent})
}

func (h *VitalsHandler) CheckTemperature(c *fiber.Ctx) error {
	patientID := c.Params("id")

	var req dtos.TemperatureCheckRequest
	if err := h.parse(c, &req); err != nil {
		return badRequest(c, err)
	}
	temperature, err := decimal.NewFromString(req.Temperature)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	sent, err := h.medicalService.CheckTemperature(ctx, patientID, temperature)
	if err != nil {
		return h.serviceError(c, patientID, err)
	}
	return c.JSON(dtos.VitalsCheckResponse{PatientID: patientID, Status: "CHECKED", AlertSent: sent})
}

// GetPatientFHIR returns the stored patient as a FHIR Patient resource.
func (h *VitalsHandler) GetPatientFHIR(c *fiber.Ctx) error {
	patientID := c.Params("id")

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	patient, err := h.patientRepo.GetByID(ctx, patientID)
	if err == nil && patient == nil {
		err = fmt.Errorf("patient %s: %w", patientID, repositories.ErrPatientNotFound)
	}
	if err != nil {
		return h.serviceError(c, patientID, err)
	}

	body, err := mappers.MapPatientToFHIR(*patient)
	if err != nil {
		h.logger.Error("FHIR mapping failed", zap.String("patient_id", patientID), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dtos.ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/fhir+json")
	return c.Send(body)
}

func (h *VitalsHandler) parse(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return h.validate.Struct(out)
}

func (h *VitalsHandler) serviceError(c *fiber.Ctx, patientID string, err error) error {
	if errors.Is(err, repositories.ErrPatientNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dtos.ErrorResponse{Error: err.Error()})
	}
	h.logger.Error("Vitals request failed", zap.String("patient_id", patientID), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dtos.ErrorResponse{Error: "internal error"})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dtos.ErrorResponse{Error: "invalid request: " + err.Error()})
}

func RegisterVitalsRoutes(app *fiber.App, vh *VitalsHandler) {
	vitals := app.Group("/vitals")
	vitals.Post("/:id/blood-pressure", vh.CheckBloodPressure)
	vitals.Post("/:id/temperature", vh.CheckTemperature)

	app.Get("/patients/:id/fhir", vh.GetPatientFHIR)
}
