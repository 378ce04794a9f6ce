package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-vitals-service/internal/adapters"
	"patient-vitals-service/internal/api/handlers"
	"patient-vitals-service/internal/config"
	"patient-vitals-service/internal/logger"
	"patient-vitals-service/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "vitals-monitor")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	tolerance, err := cfg.TemperatureTolerance()
	if err != nil {
		log.Fatal("Invalid temperature tolerance", zap.Error(err))
	}

	patientRepo := adapters.NewPatientInfoFileRepository(cfg.Storage.PatientFile, log)

	alertService, closeAlerts, err := newAlertService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create alert service", zap.Error(err))
	}
	defer closeAlerts()

	medicalService := services.NewMedicalServiceWithTolerance(patientRepo, alertService, tolerance, log)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	handlers.RegisterVitalsRoutes(app, handlers.NewVitalsHandler(medicalService, patientRepo, log))

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("patient_file", cfg.Storage.PatientFile),
			zap.String("alert_channel", cfg.Alert.Channel),
		)
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErrChan:
		log.Error("HTTP server error", zap.Error(err))
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("Vitals monitor stopped")
}

// newAlertService builds the configured alert channel. The returned func releases its resources.
func newAlertService(cfg *config.Config, log *zap.Logger) (services.SendAlertServiceContract, func(), error) {
	switch cfg.Alert.Channel {
	case config.AlertChannelLog:
		return adapters.NewLogSendAlertService(log), func() {}, nil
	case config.AlertChannelQueue:
		queue := adapters.NewInMemoryQueueAdapter(log)
		deliver := func(ctx context.Context, data []byte) error {
			log.Warn("Patient alert delivered", zap.String("queue", cfg.Alert.Queue), zap.ByteString("alert", data))
			return nil
		}
		if err := queue.StartConsuming(context.Background(), cfg.Alert.Queue, deliver); err != nil {
			queue.Close()
			return nil, nil, err
		}
		return adapters.NewQueueSendAlertService(queue, cfg.Alert.Queue, log), func() { queue.Close() }, nil
	default:
		return adapters.NewConsoleSendAlertService(os.Stdout, log), func() {}, nil
	}
}
