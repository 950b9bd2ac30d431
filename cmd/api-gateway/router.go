package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/school-portal-api/api/swagger"
	"github.com/noah-isme/school-portal-api/internal/app"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
)

func newRouter(a *app.App) *gin.Engine {
	cfg := a.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	metricsHandler := handler.NewMetricsHandler(a.Metrics, a.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	substitutions := handler.NewSubstitutionHandler(a.Substitution)
	timetable := handler.NewTimetableHandler(a.Timetable)
	teachers := handler.NewTeacherHandler(a.Teachers)
	schedule := handler.NewScheduleHandler(a.Schedule)
	catalog := handler.NewCatalogHandler(a.Catalog)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(a.Auth), middleware.ResponseMeta())

	// Any authenticated role.
	api.GET("/timetable/live", timetable.Live)
	api.GET("/timetable/week", timetable.Week)
	api.GET("/courses/:id/notices", timetable.CourseNotices)
	api.GET("/courses", catalog.Courses)
	api.GET("/subjects", catalog.Subjects)

	inbox := api.Group("/me/replacements", middleware.RequireRoles(models.RoleTeacher))
	inbox.GET("", substitutions.Inbox)
	inbox.POST("/:id/respond", substitutions.Respond)

	admin := api.Group("", middleware.RequireAdmin())
	admin.POST("/absences", substitutions.ReportAbsence)
	admin.POST("/absences/period", substitutions.ReportAbsencePeriod)

	admin.GET("/replacements", substitutions.List)
	admin.GET("/replacements/:id", substitutions.Get)
	admin.POST("/replacements/:id/confirm", substitutions.Confirm)
	admin.POST("/replacements/:id/reject", substitutions.Reject)
	admin.POST("/replacements/:id/retry", substitutions.Retry)

	admin.GET("/schedule-slots", schedule.List)
	admin.POST("/schedule-slots", schedule.Create)
	admin.GET("/schedule-slots/:id", schedule.Get)
	admin.DELETE("/schedule-slots/:id", schedule.Deactivate)
	admin.GET("/schedule-slots/:id/substitute", substitutions.FindForSlot)

	admin.GET("/teachers", teachers.List)
	admin.GET("/teachers/by-specialization", teachers.BySpecialization)
	admin.POST("/teachers", teachers.Create)
	admin.GET("/teachers/:id", teachers.Get)
	admin.PUT("/teachers/:id", teachers.Update)

	admin.GET("/dashboard/substitutions", timetable.Dashboard)

	return r
}
