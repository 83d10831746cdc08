package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/middleware"
	"github.com/noah-isme/college-roster/internal/service"
	"github.com/noah-isme/college-roster/pkg/logger"
	reqidmiddleware "github.com/noah-isme/college-roster/pkg/middleware/requestid"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	APIPrefix      string
	MetricsEnabled bool
	Logger         *zap.Logger

	Students    *service.StudentService
	Teachers    *service.TeacherService
	Classrooms  *service.ClassroomService
	Rosters     *service.RosterService
	Persistence persistenceService
	Metrics     *service.MetricsService
}

// NewRouter builds the gin engine with every route registered. Routes that
// touch the catalog run one at a time.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))

	metricsHandler := NewMetricsHandler(deps.Metrics)
	r.GET("/health", metricsHandler.Health)
	if deps.MetricsEnabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	api := r.Group(deps.APIPrefix, middleware.Serialize())

	students := NewStudentHandler(deps.Students)
	api.GET("/students", students.List)
	api.POST("/students", students.Create)
	api.GET("/students/:id", students.Get)
	api.PUT("/students/:id", students.Update)
	api.DELETE("/students/:id", students.Delete)

	teachers := NewTeacherHandler(deps.Teachers)
	api.GET("/teachers", teachers.List)
	api.POST("/teachers", teachers.Create)
	api.GET("/teachers/:id", teachers.Get)
	api.PUT("/teachers/:id", teachers.Update)
	api.DELETE("/teachers/:id", teachers.Delete)

	classrooms := NewClassroomHandler(deps.Classrooms, deps.Rosters)
	api.GET("/classrooms", classrooms.List)
	api.POST("/classrooms", classrooms.Create)
	api.GET("/classrooms/:id", classrooms.Get)
	api.PUT("/classrooms/:id", classrooms.Update)
	api.DELETE("/classrooms/:id", classrooms.Delete)
	api.GET("/classrooms/:id/info", classrooms.Info)
	api.PUT("/classrooms/:id/teacher", classrooms.AssignTeacher)
	api.DELETE("/classrooms/:id/teacher", classrooms.UnassignTeacher)
	api.POST("/classrooms/:id/students", classrooms.AddStudent)
	api.DELETE("/classrooms/:id/students/:studentId", classrooms.RemoveStudent)
	api.GET("/classrooms/:id/roster", classrooms.Roster)

	admin := NewAdminHandler(deps.Persistence)
	api.POST("/admin/save", admin.Save)
	api.POST("/admin/reload", admin.Reload)
	if deps.Metrics != nil {
		api.GET("/admin/metrics", metricsHandler.Summary)
	}

	return r
}
