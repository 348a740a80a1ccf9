package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cliniqon/clinic-scheduler/internal/cache"
	"github.com/cliniqon/clinic-scheduler/internal/config"
	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/export"
	"github.com/cliniqon/clinic-scheduler/internal/gcal"
	"github.com/cliniqon/clinic-scheduler/internal/handlers"
	infraRepo "github.com/cliniqon/clinic-scheduler/internal/infra/repository"
	"github.com/cliniqon/clinic-scheduler/internal/logging"
	"github.com/cliniqon/clinic-scheduler/internal/middleware"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
	"github.com/cliniqon/clinic-scheduler/internal/payment"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
	ucAppointment "github.com/cliniqon/clinic-scheduler/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	logger := logging.L()

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewAppointmentGormRepository(db)

	monthCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	gateways := payment.Registry{}
	offline := payment.NewOffline("USD")
	gateways[offline.Name()] = offline

	if mp, err := payment.NewMercadoPago(cfg.MercadoPagoAccessToken, "BRL"); err != nil {
		logger.Warn("mercadopago disabled", zap.Error(err))
	} else {
		gateways[mp.Name()] = mp
	}

	var telemedProvider telemed.Provider
	var calendarObserver observer.Observer

	calSvc, err := gcal.NewService(context.Background(), cfg.GoogleCredentialsJSON)
	if err != nil {
		logger.Warn("google calendar disabled", zap.Error(err))
	} else {
		telemedProvider = telemed.NewGoogleMeet(calSvc, cfg.GoogleCalendarID)
		calendarObserver = observer.NewCalendarObserver(calSvc, cfg.GoogleCalendarID)
	}

	observers := []observer.Observer{
		observer.NewAuditObserver(db),
		observer.NewCacheObserver(monthCache),
	}
	if calendarObserver != nil {
		observers = append(observers, calendarObserver)
	}
	dispatcher := observer.NewDispatcher(logger, observers...)

	exporter := export.New(cfg.AWSRegion, cfg.AWSKeyID, cfg.AWSSecret, cfg.ExportBucket)

	// ======================================================
	// USE CASES
	// ======================================================
	slotsUC := ucAppointment.NewGetSlots(repo)
	monthUC := ucAppointment.NewMonthSummary(repo, monthCache, logger)
	summaryUC := ucAppointment.NewPriceSummary(repo, domain.NoTax{}, domain.NoopAdjuster{})

	createUC := ucAppointment.NewCreateAppointment(
		repo,
		gateways,
		telemedProvider,
		domain.NoTax{},
		dispatcher,
		logger,
		cfg.MultiClinic,
		cfg.DefaultClinicID,
	)
	updateUC := ucAppointment.NewUpdateAppointment(repo, telemedProvider, dispatcher, logger)
	statusUC := ucAppointment.NewChangeStatus(repo, telemedProvider, dispatcher, logger)
	deleteUC := ucAppointment.NewDeleteAppointment(repo, telemedProvider, dispatcher, logger)
	listUC := ucAppointment.NewListAppointments(repo)
	viewUC := ucAppointment.NewViewAppointment(repo)
	regenerateUC := ucAppointment.NewRegenerateMeeting(repo, telemedProvider, logger)
	callbackUC := ucAppointment.NewPaymentCallback(repo, gateways, dispatcher, logger)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	clinicHandler := handlers.NewClinicHandler(db)
	sessionHandler := handlers.NewSessionHandler(db)
	doctorServiceHandler := handlers.NewDoctorServiceHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		slotsUC,
		monthUC,
		summaryUC,
		createUC,
		updateUC,
		statusUC,
		deleteUC,
		listUC,
		viewUC,
		regenerateUC,
		exporter,
	)

	paymentHandler := handlers.NewPaymentHandler(callbackUC, gateways)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		// Gateways redirect here without our auth token.
		api.GET("/appointments/payment-success", paymentHandler.Success)
		api.POST("/appointments/payment-success", paymentHandler.Success)
		api.GET("/appointments/payment-cancel", paymentHandler.Cancel)
		api.POST("/appointments/payment-verify", paymentHandler.Verify)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", authHandler.Me)

			secured.GET("/me/clinic", clinicHandler.GetMeClinic)
			secured.PATCH("/me/clinic",
				middleware.RequireRoles(models.RoleAdmin),
				clinicHandler.UpdateMeClinic)

			secured.GET("/sessions", sessionHandler.List)
			secured.PUT("/sessions", sessionHandler.Update)

			secured.GET("/doctor-services", doctorServiceHandler.List)
			secured.POST("/doctor-services",
				middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor),
				doctorServiceHandler.Create)
			secured.PATCH("/doctor-services/:id",
				middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor),
				doctorServiceHandler.Update)
			secured.DELETE("/doctor-services/:id",
				middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor),
				doctorServiceHandler.Delete)

			secured.GET("/patients",
				middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist),
				patientHandler.List)
			secured.POST("/patients",
				middleware.RequireRoles(models.RoleAdmin, models.RoleReceptionist),
				patientHandler.Create)

			secured.GET("/payments/gateways", paymentHandler.ListGateways)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments/slots", appointmentHandler.Slots)
			secured.GET("/appointments/summary", appointmentHandler.Summary)
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/export", appointmentHandler.Export)
			secured.POST("/appointments/bulk/delete", appointmentHandler.BulkDelete)
			secured.GET("/appointments/:id", appointmentHandler.View)
			secured.GET("/appointments/:id/view", appointmentHandler.View)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.PUT("/appointments/:id/status", appointmentHandler.ChangeStatus)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.GET("/appointments/:id/regenerate-video-conference", appointmentHandler.RegenerateMeeting)

			secured.GET("/audit-logs",
				middleware.RequireRoles(models.RoleAdmin),
				auditLogsHandler.List)
		}
	}
}
