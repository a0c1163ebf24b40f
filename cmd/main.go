package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/rentowl/backend/internal/app"
	"github.com/rentowl/backend/internal/config"
	"github.com/rentowl/backend/internal/controllers"
	"github.com/rentowl/backend/internal/middleware"
	"github.com/rentowl/backend/internal/repositories"
	"github.com/rentowl/backend/internal/routes"
	"github.com/rentowl/backend/internal/services"
	"github.com/rentowl/backend/internal/utils"
	"github.com/rentowl/backend/internal/utils/daraja"
)

func main() {
	utils.InitLogger("rentowl-backend")
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize backend:", err)
	}
	defer application.Close()

	landlordRepo := repositories.NewLandlordRepository(application.DB)
	propRepo := repositories.NewPropertyRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)
	tenantRepo := repositories.NewTenantRepository(application.DB)
	paymentRepo := repositories.NewPaymentRepository(application.DB)
	maintRepo := repositories.NewMaintenanceRequestRepository(application.DB)
	mpesaTxRepo := repositories.NewMpesaTransactionRepository(application.DB)

	darajaClient, err := daraja.NewClient(
		cfg.DarajaConsumerKey,
		cfg.DarajaConsumerSecret,
		cfg.DarajaShortCode,
		cfg.DarajaPasskey,
		cfg.DarajaCallbackURL,
		cfg.DarajaEnvironment == "sandbox",
	)
	if err != nil {
		utils.Logger.Fatal("Failed to create Daraja client:", err)
	}

	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	var sgClient *sendgrid.Client
	if cfg.SendGridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}

	propertyService := services.NewPropertyService(propRepo, unitRepo)
	tenantService := services.NewTenantService(tenantRepo, propRepo, unitRepo, paymentRepo)
	paymentService := services.NewPaymentService(tenantRepo, propRepo, paymentRepo)
	mpesaService := services.NewMpesaService(mpesaTxRepo, tenantRepo, paymentService, darajaClient)
	maintenanceService := services.NewMaintenanceService(maintRepo, tenantRepo, propRepo)
	reminderService := services.NewReminderService(cfg, tenantRepo, propRepo, paymentRepo, twClient, sgClient)

	if cfg.SeedDBWithTestData {
		if err := app.SeedAllTestData(
			context.Background(),
			landlordRepo,
			propertyService,
			tenantService,
		); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
		utils.Logger.Info("Seeded test data successfully")
	}

	healthController := controllers.NewHealthController(application)
	propertyController := controllers.NewPropertyController(propertyService)
	tenantController := controllers.NewTenantController(tenantService)
	paymentController := controllers.NewPaymentController(paymentService)
	mpesaController := controllers.NewMpesaController(mpesaService)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.MpesaCallback, mpesaController.CallbackHandler).Methods(http.MethodPost)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	landlordOnly := secured.NewRoute().Subrouter()
	landlordOnly.Use(middleware.RequireRoles(middleware.RoleLandlord))

	landlordOnly.HandleFunc(routes.PropertiesBase, propertyController.CreatePropertyHandler).Methods(http.MethodPost)
	landlordOnly.HandleFunc(routes.PropertiesBase, propertyController.ListPropertiesHandler).Methods(http.MethodGet)
	landlordOnly.HandleFunc(routes.PropertyByID, propertyController.GetPropertyHandler).Methods(http.MethodGet)
	landlordOnly.HandleFunc(routes.PropertyByID, propertyController.UpdatePropertyHandler).Methods(http.MethodPut)
	landlordOnly.HandleFunc(routes.PropertyByID, propertyController.DeletePropertyHandler).Methods(http.MethodDelete)

	landlordOnly.HandleFunc(routes.TenantsBase, tenantController.CreateTenantHandler).Methods(http.MethodPost)
	landlordOnly.HandleFunc(routes.TenantMoveOut, tenantController.MoveOutHandler).Methods(http.MethodPost)
	landlordOnly.HandleFunc(routes.TenantsByProp, tenantController.ListByPropertyHandler).Methods(http.MethodGet)

	landlordOnly.HandleFunc(routes.PaymentsManual, paymentController.ManualPaymentHandler).Methods(http.MethodPost)
	landlordOnly.HandleFunc(routes.PaymentsPreview, paymentController.PreviewPaymentHandler).Methods(http.MethodPost)
	landlordOnly.HandleFunc(routes.PaymentsByProp, paymentController.ListByPropertyHandler).Methods(http.MethodGet)
	landlordOnly.HandleFunc(routes.PaymentsExport, paymentController.ExportByPropertyHandler).Methods(http.MethodGet)
	landlordOnly.HandleFunc(routes.MaintenanceByID, maintenanceController.SetStatusHandler).Methods(http.MethodPatch)
	landlordOnly.HandleFunc(routes.MaintenanceByProp, maintenanceController.ListByPropertyHandler).Methods(http.MethodGet)

	// Tenants reach their own payments, STK push and maintenance filing.
	secured.HandleFunc(routes.PaymentsByTenant, paymentController.ListByTenantHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.MpesaStkPush, mpesaController.StkPushHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.MaintenanceBase, maintenanceController.FileRequestHandler).Methods(http.MethodPost)

	c := cron.New()
	_, dailyErr := c.AddFunc("5 0 * * *", func() {
		if e := reminderService.RunDailyRentCycle(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled rent cycle failed")
		}
	})
	if dailyErr != nil {
		utils.Logger.WithError(dailyErr).Fatal("Failed to schedule rent cycle cron")
	}

	if cfg.RemindersEnabled {
		_, remErr := c.AddFunc("0 9 * * *", func() {
			if e := reminderService.RunReminderDispatch(context.Background()); e != nil {
				utils.Logger.WithError(e).Error("Reminder dispatch failed")
			}
		})
		if remErr != nil {
			utils.Logger.WithError(remErr).Fatal("Failed to schedule reminder cron")
		}
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Platform"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Backend failed to start:", err)
	}
}
