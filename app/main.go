package main

import (
	"context"
	"edubot/config"
	"edubot/services/notification/delivery"
	"edubot/services/notification/repository"
	"edubot/services/notification/usecase"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const repoTimeout = 10 * time.Second

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file loaded")
	}

	log = config.GetLogrusInstance()

	startHTTP()
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	// CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, X-Recipient",
	}))

	pool, err := config.BootDB(context.Background())
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
		return
	}

	// Stores and engine
	notificationRepo := repository.NewNotificationRepository(pool)
	preferenceRepo := repository.NewPreferenceRepository(pool)

	notificationUC := usecase.NewNotificationUseCase(notificationRepo, preferenceRepo, repoTimeout)
	preferenceUC := usecase.NewPreferenceUseCase(preferenceRepo, repoTimeout)
	triggerUC := usecase.NewTriggerUseCase(notificationUC)

	delivery.NewNotificationHandler(app, notificationUC)
	delivery.NewPreferenceHandler(app, preferenceUC)
	delivery.NewTriggerHandler(app, triggerUC)

	// The delivery sweep needs the WhatsApp and SMTP gateways. When either
	// is not configured the engine still runs, only the sweep is off.
	registerDispatcher(app)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server for Public on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, os.Kill)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}

func registerDispatcher(app *fiber.App) {
	meow, err := config.InitMeow()
	if err != nil {
		log.Warnf("WhatsApp client not available, dispatcher disabled: %v", err)
		return
	}

	dialer, emailSender, err := config.InitEmailer()
	if err != nil {
		log.Warnf("SMTP emailer not available, dispatcher disabled: %v", err)
		return
	}

	gormDB, err := config.BootGorm()
	if err != nil {
		log.Warnf("Gorm handle not available, dispatcher disabled: %v", err)
		return
	}

	dispatcherRepo := repository.NewDispatcherRepository(gormDB, meow, dialer, emailSender)
	dispatcherUC := usecase.NewDispatcherUseCase(dispatcherRepo, repoTimeout)
	delivery.NewDispatcherHandler(app, dispatcherUC)
}
