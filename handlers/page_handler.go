package handlers

import (
	"nyayasetu-web/config"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static pages
type PageHandler struct {
	cfg config.Config
}

// NewPageHandler creates a new page handler
func NewPageHandler(cfg config.Config) *PageHandler {
	return &PageHandler{cfg: cfg}
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	renderPage(c, "home.html", gin.H{"Title": "Home", "Active": "home"}, nil)
}

// Settings handles GET /settings. Credentials are never shown
func (h *PageHandler) Settings(c *gin.Context) {
	settings := h.cfg
	settings.Storage.AWSAccessKey = ""
	settings.Storage.AWSSecretKey = ""
	renderPage(c, "settings.html", gin.H{
		"Title":    "Settings",
		"Active":   "settings",
		"Settings": settings,
	}, nil)
}
