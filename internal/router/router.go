package router

import (
	"net/http"

	"github.com/Chadbowen248/burnit/internal/handler"
	"github.com/Chadbowen248/burnit/internal/logger"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options 汇总路由依赖的可选组件
type Options struct {
	SessionSecret string
	Search        handler.FoodSearcher
	Logger        *zap.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	secret := opts.SessionSecret
	if secret == "" {
		secret = "burnit-dev-secret"
	}

	r := gin.New()
	r.Use(logger.Recovery(log), logger.Requests(log), corsMiddleware())

	// 配置会话中间件，用于记住当前选中的日期
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("burnit_session", store))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	api := handler.NewAPI(gdb, opts.Search, log)

	group := r.Group("/api")
	{
		group.GET("/health", api.HealthCheck)

		group.GET("/foods", api.ListFoods)
		group.GET("/foods/:id", api.GetFood)
		group.POST("/foods", api.CreateFood)
		group.PUT("/foods/:id", api.UpdateFood)
		group.DELETE("/foods/:id", api.DeleteFood)

		group.DELETE("/days/:date", api.ResetDay)
		group.GET("/summary/:date", api.GetSummary)
		group.GET("/report/:date", api.GetReport)

		group.GET("/goals", api.ListGoals)
		group.GET("/goals/:date", api.GetGoal)
		group.POST("/goals", api.SetGoal)

		group.GET("/favorites", api.ListFavorites)
		group.POST("/favorites", api.CreateFavorite)
		group.DELETE("/favorites/:id", api.DeleteFavorite)

		group.GET("/search", api.SearchFoods)

		group.GET("/backup", api.ExportBackup)
		group.POST("/backup", api.ImportBackup)

		group.GET("/day", api.GetSelectedDay)
		group.PUT("/day", api.SetSelectedDay)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
