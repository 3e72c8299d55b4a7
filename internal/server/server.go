package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/clinicdesk/internal/appointment"
	appointmentdomain "github.com/smallbiznis/clinicdesk/internal/appointment/domain"
	"github.com/smallbiznis/clinicdesk/internal/audit"
	auditdomain "github.com/smallbiznis/clinicdesk/internal/audit/domain"
	"github.com/smallbiznis/clinicdesk/internal/auth"
	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/auth/session"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	"github.com/smallbiznis/clinicdesk/internal/billing"
	billingdomain "github.com/smallbiznis/clinicdesk/internal/billing/domain"
	"github.com/smallbiznis/clinicdesk/internal/clinic"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/clinicdesk/internal/dashboard/domain"
	"github.com/smallbiznis/clinicdesk/internal/dietplan"
	dietdomain "github.com/smallbiznis/clinicdesk/internal/dietplan/domain"
	"github.com/smallbiznis/clinicdesk/internal/inventory"
	inventorydomain "github.com/smallbiznis/clinicdesk/internal/inventory/domain"
	"github.com/smallbiznis/clinicdesk/internal/ledger"
	ledgerdomain "github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/smallbiznis/clinicdesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/clinicdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/clinicdesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/clinicdesk/internal/observability/tracing"
	"github.com/smallbiznis/clinicdesk/internal/patient"
	patientdomain "github.com/smallbiznis/clinicdesk/internal/patient/domain"
	"github.com/smallbiznis/clinicdesk/internal/prescription"
	prescriptiondomain "github.com/smallbiznis/clinicdesk/internal/prescription/domain"
	"github.com/smallbiznis/clinicdesk/internal/ratelimit"
	"github.com/smallbiznis/clinicdesk/internal/socialpost"
	socialdomain "github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	"github.com/smallbiznis/clinicdesk/internal/staff"
	staffdomain "github.com/smallbiznis/clinicdesk/internal/staff/domain"
	"github.com/smallbiznis/clinicdesk/internal/therapy"
	therapydomain "github.com/smallbiznis/clinicdesk/internal/therapy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	auth.Module,
	ratelimit.Module,
	clinic.Module,
	patient.Module,
	staff.Module,
	appointment.Module,
	prescription.Module,
	therapy.Module,
	dietplan.Module,
	inventory.Module,
	socialpost.Module,
	ledger.Module,
	billing.Module,
	dashboard.Module,
	fx.Provide(NewServer),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

// RunHTTP serves the routed engine for the lifetime of the app.
func RunHTTP(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	clock        clock.Clock
	authsvc      authdomain.Service
	sessions     *session.Manager
	authzSvc     authorization.Service
	auditSvc     auditdomain.Service
	loginLimiter *ratelimit.LoginLimiter
	obsMetrics   *obsmetrics.Metrics

	clinicSvc       clinicdomain.Service
	patientSvc      patientdomain.Service
	staffSvc        staffdomain.Service
	appointmentSvc  appointmentdomain.Service
	prescriptionSvc prescriptiondomain.Service
	therapySvc      therapydomain.Service
	dietSvc         dietdomain.Service
	inventorySvc    inventorydomain.Service
	socialSvc       socialdomain.Service
	billingSvc      billingdomain.Service
	ledgerSvc       ledgerdomain.Service
	dashboardSvc    dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Clock        clock.Clock
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	AuthzSvc     authorization.Service
	AuditSvc     auditdomain.Service
	LoginLimiter *ratelimit.LoginLimiter `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`

	ClinicSvc       clinicdomain.Service
	PatientSvc      patientdomain.Service
	StaffSvc        staffdomain.Service
	AppointmentSvc  appointmentdomain.Service
	PrescriptionSvc prescriptiondomain.Service
	TherapySvc      therapydomain.Service
	DietSvc         dietdomain.Service
	InventorySvc    inventorydomain.Service
	SocialSvc       socialdomain.Service
	BillingSvc      billingdomain.Service
	LedgerSvc       ledgerdomain.Service
	DashboardSvc    dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		clock:        p.Clock,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		authzSvc:     p.AuthzSvc,
		auditSvc:     p.AuditSvc,
		loginLimiter: p.LoginLimiter,
		obsMetrics:   p.ObsMetrics,

		clinicSvc:       p.ClinicSvc,
		patientSvc:      p.PatientSvc,
		staffSvc:        p.StaffSvc,
		appointmentSvc:  p.AppointmentSvc,
		prescriptionSvc: p.PrescriptionSvc,
		therapySvc:      p.TherapySvc,
		dietSvc:         p.DietSvc,
		inventorySvc:    p.InventorySvc,
		socialSvc:       p.SocialSvc,
		billingSvc:      p.BillingSvc,
		ledgerSvc:       p.LedgerSvc,
		dashboardSvc:    p.DashboardSvc,
	}
	if svc.clock == nil {
		svc.clock = clock.New()
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerCronRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.LoginRateLimit(), s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
	auth.POST("/change-password", s.AuthRequired(), s.ChangePassword)
}

func (s *Server) registerAPIRoutes() {
	const (
		read  = authorization.ActionRead
		write = authorization.ActionWrite
	)

	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Clinic --------
	api.GET("/clinic", s.authorize(authorization.ObjectClinic, read), s.GetClinic)
	api.PATCH("/clinic", s.authorize(authorization.ObjectClinic, write), s.UpdateClinic)

	// -------- Users --------
	api.GET("/users", s.authorize(authorization.ObjectUser, read), s.ListUsers)
	api.POST("/users", s.authorize(authorization.ObjectUser, write), s.CreateUser)

	// -------- Patients --------
	api.GET("/patients", s.authorize(authorization.ObjectPatient, read), s.ListPatients)
	api.POST("/patients", s.authorize(authorization.ObjectPatient, write), s.CreatePatient)
	api.GET("/patients/:id", s.authorize(authorization.ObjectPatient, read), s.GetPatient)
	api.PATCH("/patients/:id", s.authorize(authorization.ObjectPatient, write), s.UpdatePatient)
	api.GET("/patients/:id/payments", s.authorize(authorization.ObjectPayment, read), s.ListPatientPayments)
	api.GET("/patients/:id/ledger", s.authorize(authorization.ObjectLedger, read), s.ListPatientLedger)
	api.GET("/patients/:id/ledger.xlsx", s.authorize(authorization.ObjectLedger, read), s.ExportPatientLedger)
	api.POST("/patients/:id/ledger/adjustments", s.authorize(authorization.ObjectLedger, write), s.CreateLedgerAdjustment)

	// -------- Staff --------
	api.GET("/staff", s.authorize(authorization.ObjectStaff, read), s.ListStaff)
	api.POST("/staff", s.authorize(authorization.ObjectStaff, write), s.CreateStaff)
	api.GET("/staff/:id", s.authorize(authorization.ObjectStaff, read), s.GetStaff)
	api.PATCH("/staff/:id", s.authorize(authorization.ObjectStaff, write), s.UpdateStaff)
	api.POST("/staff/:id/deactivate", s.authorize(authorization.ObjectStaff, write), s.DeactivateStaff)

	// -------- Appointments --------
	api.GET("/appointments", s.authorize(authorization.ObjectAppointment, read), s.ListAppointments)
	api.POST("/appointments", s.authorize(authorization.ObjectAppointment, write), s.CreateAppointment)
	api.GET("/appointments/:id", s.authorize(authorization.ObjectAppointment, read), s.GetAppointment)
	api.POST("/appointments/:id/reschedule", s.authorize(authorization.ObjectAppointment, write), s.RescheduleAppointment)
	api.POST("/appointments/:id/status", s.authorize(authorization.ObjectAppointment, write), s.UpdateAppointmentStatus)

	// -------- Prescriptions --------
	api.GET("/prescriptions", s.authorize(authorization.ObjectPrescription, read), s.ListPrescriptions)
	api.POST("/prescriptions", s.authorize(authorization.ObjectPrescription, write), s.CreatePrescription)
	api.GET("/prescriptions/:id", s.authorize(authorization.ObjectPrescription, read), s.GetPrescription)
	api.PUT("/prescriptions/:id", s.authorize(authorization.ObjectPrescription, write), s.UpdatePrescription)
	api.DELETE("/prescriptions/:id", s.authorize(authorization.ObjectPrescription, write), s.DeletePrescription)

	// -------- Therapy --------
	api.GET("/therapy-plans", s.authorize(authorization.ObjectTherapy, read), s.ListTherapyPlans)
	api.POST("/therapy-plans", s.authorize(authorization.ObjectTherapy, write), s.CreateTherapyPlan)
	api.GET("/therapy-plans/:id", s.authorize(authorization.ObjectTherapy, read), s.GetTherapyPlan)
	api.POST("/therapy-plans/:id/cancel", s.authorize(authorization.ObjectTherapy, write), s.CancelTherapyPlan)
	api.PATCH("/therapy-plans/:id/sessions/:session_id", s.authorize(authorization.ObjectTherapy, write), s.UpdateTherapySession)

	// -------- Diet --------
	api.GET("/diet-templates", s.authorize(authorization.ObjectDiet, read), s.ListDietTemplates)
	api.POST("/diet-templates", s.authorize(authorization.ObjectDiet, write), s.CreateDietTemplate)
	api.GET("/diet-templates/:id", s.authorize(authorization.ObjectDiet, read), s.GetDietTemplate)
	api.PUT("/diet-templates/:id", s.authorize(authorization.ObjectDiet, write), s.UpdateDietTemplate)
	api.DELETE("/diet-templates/:id", s.authorize(authorization.ObjectDiet, write), s.DeleteDietTemplate)
	api.GET("/diet-plans", s.authorize(authorization.ObjectDiet, read), s.ListDietPlans)
	api.POST("/diet-plans", s.authorize(authorization.ObjectDiet, write), s.CreateDietPlan)
	api.GET("/diet-plans/:id", s.authorize(authorization.ObjectDiet, read), s.GetDietPlan)
	api.DELETE("/diet-plans/:id", s.authorize(authorization.ObjectDiet, write), s.DeleteDietPlan)

	// -------- Inventory --------
	api.GET("/inventory/items", s.authorize(authorization.ObjectInventory, read), s.ListInventoryItems)
	api.POST("/inventory/items", s.authorize(authorization.ObjectInventory, write), s.CreateInventoryItem)
	api.GET("/inventory/items/:id", s.authorize(authorization.ObjectInventory, read), s.GetInventoryItem)
	api.PATCH("/inventory/items/:id", s.authorize(authorization.ObjectInventory, write), s.UpdateInventoryItem)
	api.GET("/inventory/items/:id/adjustments", s.authorize(authorization.ObjectInventory, read), s.ListInventoryAdjustments)
	api.POST("/inventory/items/:id/adjustments", s.authorize(authorization.ObjectInventory, write), s.AdjustInventoryItem)

	// -------- Social posts --------
	api.GET("/social-posts", s.authorize(authorization.ObjectSocialPost, read), s.ListSocialPosts)
	api.POST("/social-posts", s.authorize(authorization.ObjectSocialPost, write), s.CreateSocialPost)
	api.GET("/social-posts/:id", s.authorize(authorization.ObjectSocialPost, read), s.GetSocialPost)
	api.PATCH("/social-posts/:id", s.authorize(authorization.ObjectSocialPost, write), s.UpdateSocialPost)
	api.DELETE("/social-posts/:id", s.authorize(authorization.ObjectSocialPost, write), s.DeleteSocialPost)
	api.POST("/social-posts/:id/schedule", s.authorize(authorization.ObjectSocialPost, write), s.ScheduleSocialPost)
	api.POST("/social-posts/:id/publish", s.authorize(authorization.ObjectSocialPost, write), s.PublishSocialPost)

	// -------- Billing --------
	api.GET("/bills", s.authorize(authorization.ObjectBill, read), s.ListBills)
	api.POST("/bills", s.authorize(authorization.ObjectBill, write), s.CreateBill)
	api.GET("/bills/:id", s.authorize(authorization.ObjectBill, read), s.GetBill)
	api.PUT("/bills/:id", s.authorize(authorization.ObjectBill, write), s.UpdateBill)
	api.GET("/bills/:id/ledger", s.authorize(authorization.ObjectLedger, read), s.ListBillLedger)
	api.GET("/bills/:id/payments", s.authorize(authorization.ObjectPayment, read), s.ListBillPayments)
	api.POST("/bills/:id/payments", s.authorize(authorization.ObjectPayment, write), s.RecordBillPayment)
	api.POST("/bills/:id/cancel", s.authorize(authorization.ObjectBill, write), s.CancelBill)
	api.POST("/bills/:id/status", s.authorize(authorization.ObjectBill, write), s.UpdateBillStatus)
	api.GET("/bills/:id/pdf", s.authorize(authorization.ObjectBill, read), s.DownloadBillPDF)

	// -------- Reporting --------
	api.GET("/dashboard", s.authorize(authorization.ObjectDashboard, read), s.GetDashboard)
	api.GET("/audit-logs", s.authorize(authorization.ObjectAuditLog, read), s.ListAuditLogs)
}

func (s *Server) registerCronRoutes() {
	cron := s.engine.Group("/cron", s.CronSecretRequired())

	cron.POST("/social-posts/publish", s.RunPublishDuePosts)
	cron.POST("/bills/overdue", s.RunMarkOverdueBills)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
