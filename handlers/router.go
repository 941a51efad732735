package handlers

import (
	"fmt"
	"net/http"
	"time"

	"nyayasetu-web/config"
	"nyayasetu-web/logging"
	"nyayasetu-web/service"
	"nyayasetu-web/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the router hands to its handlers
type Services struct {
	Sessions   *service.SessionService
	Research   *service.ResearchService
	CaseLaw    *service.CaseLawService
	Comparator *service.ComparatorService
	Documents  *service.DocumentService
}

// NewRouter registers every page and API route
func NewRouter(cfg config.Config, svc Services, logger *zap.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(logging.Recovery(logger), logging.Middleware(logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", SessionHeader},
			ExposeHeaders:    []string{SessionHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// multipart bodies above this spill to temp files
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	pages := NewPageHandler(cfg)
	research := NewResearchHandler(svc.Research)
	caseLaw := NewCaseLawHandler(svc.CaseLaw)
	comparator := NewComparatorHandler(svc.Comparator)
	documents := NewDocumentHandler(svc.Documents)

	site := r.Group("")
	site.Use(SessionMiddleware(svc.Sessions, false))
	{
		site.GET("/", pages.Home)
		site.GET("/settings", pages.Settings)

		site.GET("/research", research.Page)
		site.POST("/research", research.Submit)
		site.POST("/research/new", research.NewChat)

		site.GET("/case-law", caseLaw.Page)
		site.POST("/case-law", caseLaw.Submit)

		site.GET("/comparator", comparator.Page)
		site.POST("/comparator", comparator.Submit)

		site.GET("/documents", documents.Page)
		site.POST("/documents/upload", documents.UploadPage)
		site.POST("/documents/query", documents.QueryPage)
	}

	api := r.Group("/api")
	api.Use(SessionMiddleware(svc.Sessions, false))
	{
		api.POST("/research", research.Ask)
		api.GET("/research/history", research.History)
		api.DELETE("/research/history", research.ClearHistory)

		api.POST("/case-law/search", caseLaw.Search)
		api.POST("/compare", comparator.Compare)

		api.POST("/documents", documents.Upload)
		api.GET("/documents/jobs", documents.Jobs)
		api.GET("/documents/jobs/:id", documents.Job)
		api.POST("/documents/query", documents.Query)
	}

	return r, nil
}
