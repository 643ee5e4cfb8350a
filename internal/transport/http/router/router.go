package router

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"tez-jumush/internal/core/auth"
	"tez-jumush/internal/core/cache"
	"tez-jumush/internal/service"
	"tez-jumush/internal/transport/http/handler"
	"tez-jumush/internal/transport/http/middleware"
)

type Deps struct {
	Log   *zap.Logger
	DB    *gorm.DB
	JWT   *auth.JWTer
	Cache cache.Loader // 可为 nil

	Users        *service.UserService
	Jobs         *service.JobService
	Applications *service.ApplicationService
}

// NewAPIEngine 组装中间件链和全部业务路由
func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ginzap.RecoveryWithZap(d.Log, true))
	r.Use(middleware.AccessLog(d.Log))
	r.Use(middleware.Metrics())
	r.Use(cors.Default())
	r.Use(middleware.RateLimitPerIP(rate.Limit(50), 100))
	r.Use(middleware.ConcurrencyLimit(512))
	r.Use(middleware.MaxBodyBytes(16 << 20))
	r.Use(middleware.Timeout(30 * time.Second))

	authH := handler.NewAuthHandler(d.Users, d.JWT)
	userH := handler.NewUserHandler(d.Users, d.Cache)
	jobH := handler.NewJobHandler(d.Jobs, d.Cache)
	appH := handler.NewApplicationHandler(d.Applications, d.Cache)
	healthH := handler.NewHealthHandler(d.DB)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", healthH.Health)

	api.POST("/users/register", authH.Register)
	api.POST("/users/login", authH.Login)
	api.GET("/users/:id/public", userH.PublicProfile)

	api.GET("/jobs", jobH.List)
	api.GET("/jobs/:id", jobH.Get)

	authed := api.Group("", middleware.AuthJWT(d.JWT))
	{
		authed.GET("/users/me", userH.Me)
		authed.PUT("/users/me", userH.UpdateMe)
		authed.DELETE("/users/me", userH.DeleteMe)
		authed.POST("/users/me/photo", userH.UploadPhoto)
		authed.DELETE("/users/me/photo", userH.DeletePhoto)

		authed.POST("/jobs", jobH.Create)
		authed.PUT("/jobs/:id", jobH.Update)
		authed.DELETE("/jobs/:id", jobH.Delete)
		authed.GET("/jobs/my/posted", jobH.MyJobs)

		authed.POST("/applications", appH.Apply)
		authed.PUT("/applications/:id", appH.SetStatus)
		authed.DELETE("/applications/:id", appH.Withdraw)
		authed.GET("/applications/my", appH.MyApplications)
		authed.GET("/applications/job/:jobId", appH.JobApplications)
		authed.GET("/applications/stats/employer", appH.EmployerStats)
		authed.GET("/applications/stats/worker", appH.WorkerStats)
	}

	return r
}
