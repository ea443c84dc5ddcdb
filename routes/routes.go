package routes

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rayverse/config"
	"rayverse/handlers"
	"rayverse/middleware"
)

// Deps carries everything the router needs, constructed in main.
type Deps struct {
	Config   config.Config
	Logger   *log.Logger
	Limiter  *middleware.IPRateLimiter
	Articles *handlers.ArticleHandler
	Images   *handlers.ImageHandler
	Videos   *handlers.VideoHandler
	Resumes  *handlers.ResumeHandler
}

// SetupRouter assembles the engine: CORS, the error normalizer, the admin
// token gate on the API prefix, one router per entity, and a JSON 404 for
// everything unmatched. The rate limiter fronts only the endpoints that mint
// signed storage URLs.
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.ErrorHandler(deps.Config.Mode, deps.Logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hello from the Ray Verse API 0.0",
			"app":     "RayVerse",
		})
	})

	limited := deps.Limiter.Middleware()

	api := router.Group(deps.Config.APIPrefix)
	api.Use(middleware.AuthorizeAdmin(deps.Config.APIToken))

	articles := api.Group("/articles")
	articles.GET("", deps.Articles.List)
	articles.POST("", deps.Articles.Create)
	articles.GET("/slug/:slug", limited, deps.Articles.GetBySlug)

	images := api.Group("/images")
	images.POST("", deps.Images.Create)
	images.GET("/thumbnails", limited, deps.Images.Thumbnails)
	images.GET("/slug/:slug", limited, deps.Images.GetBySlug)

	videos := api.Group("/videos")
	videos.GET("", limited, deps.Videos.List)
	videos.POST("", deps.Videos.Create)

	resumes := api.Group("/resumes")
	resumes.GET("", limited, deps.Resumes.Get)
	resumes.POST("", deps.Resumes.Create)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "fail",
			"message": fmt.Sprintf("Can't find %s on this server!", c.Request.URL.Path),
		})
	})

	return router
}
