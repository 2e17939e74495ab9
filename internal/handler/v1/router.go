package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawsuite/petflow/internal/config"
	"github.com/pawsuite/petflow/internal/domain"
	"github.com/pawsuite/petflow/internal/service"
	"github.com/pawsuite/petflow/pkg/auth"
	"github.com/pawsuite/petflow/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	Log        *zap.Logger
	Collector  *metrics.Collector
	JWTManager *auth.JWTManager

	AuthService       *service.AuthService
	SchedulingService *service.SchedulingService
	PetService        *service.PetService
	CatalogService    *service.CatalogService
	RosterService     *service.RosterService
}

// NewRouter assembles the gin engine: public auth and health endpoints,
// then a versioned API group behind bearer auth.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Log))
	r.Use(RequestMetrics(deps.Collector))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": deps.Config.App.Name})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(deps.AuthService)
	apptHandler := NewAppointmentHandler(deps.SchedulingService, deps.Collector)
	schedHandler := NewScheduleHandler(deps.SchedulingService, deps.Collector)
	petHandler := NewPetHandler(deps.PetService)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	rosterHandler := NewRosterHandler(deps.RosterService)

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/change-password", RequireAuth(deps.JWTManager), authHandler.ChangePassword)
	}

	secured := v1.Group("")
	secured.Use(RequireAuth(deps.JWTManager))

	staff := []domain.Role{domain.RoleAdmin, domain.RoleVet, domain.RoleGroomer, domain.RoleReceptionist}

	appointments := secured.Group("/appointments")
	{
		appointments.POST("", apptHandler.Reserve)
		appointments.GET("", apptHandler.List)
		appointments.GET("/:id", apptHandler.Get)
		appointments.POST("/:id/confirm", RequireRole(staff...), apptHandler.Confirm)
		appointments.POST("/:id/cancel", apptHandler.Cancel)
		appointments.POST("/:id/complete", RequireRole(staff...), apptHandler.Complete)
		appointments.PATCH("/:id/schedule", apptHandler.Reschedule)
		appointments.DELETE("/:id", RequireRole(domain.RoleAdmin), apptHandler.HardDelete)
	}

	secured.GET("/availability", schedHandler.Availability)
	secured.GET("/calendar/:year/:month", schedHandler.MonthView)
	secured.GET("/reminders/upcoming", RequireRole(staff...), apptHandler.Upcoming)

	pets := secured.Group("/pets")
	{
		pets.POST("", petHandler.Create)
		pets.GET("", petHandler.ListByOwner)
		pets.GET("/:id", petHandler.Get)
	}

	services := secured.Group("/services")
	{
		services.GET("", catalogHandler.List)
		services.GET("/:id", catalogHandler.Get)
		services.POST("", RequireRole(domain.RoleAdmin), catalogHandler.Create)
	}

	roster := secured.Group("/roster", RequireRole(domain.RoleAdmin, domain.RoleReceptionist))
	{
		roster.POST("/working-hours", rosterHandler.AddWorkingHours)
		roster.DELETE("/working-hours/:id", rosterHandler.RemoveWorkingHours)
		roster.POST("/overrides", rosterHandler.AddOverride)
	}

	return r
}
