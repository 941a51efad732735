package handlers

import (
	"net/http"

	"nyayasetu-web/models"
	"nyayasetu-web/service"
	"nyayasetu-web/views"

	"github.com/gin-gonic/gin"
)

// CaseLawHandler handles case-law search
type CaseLawHandler struct {
	caseLaw *service.CaseLawService
}

// NewCaseLawHandler creates a new case-law handler
func NewCaseLawHandler(caseLaw *service.CaseLawService) *CaseLawHandler {
	return &CaseLawHandler{caseLaw: caseLaw}
}

// SearchRequest represents the case-law search form and API body
type SearchRequest struct {
	Query    string `json:"query" form:"query"`
	Court    string `json:"court" form:"court"`
	FromDate string `json:"from_date" form:"from_date"`
	ToDate   string `json:"to_date" form:"to_date"`
	SortBy   string `json:"sort_by" form:"sort_by"`
}

func (r SearchRequest) toService(c *gin.Context) service.SearchRequest {
	return service.SearchRequest{
		SessionID: currentSession(c).ID,
		Query:     r.Query,
		Court:     r.Court,
		FromDate:  r.FromDate,
		ToDate:    r.ToDate,
		SortBy:    models.SortOrder(r.SortBy),
	}
}

// Search handles POST /api/case-law/search
func (h *CaseLawHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.caseLaw.Search(c.Request.Context(), req.toService(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// Page handles GET /case-law
func (h *CaseLawHandler) Page(c *gin.Context) {
	h.render(c, SearchRequest{SortBy: string(models.SortRelevance)}, nil, nil)
}

// Submit handles POST /case-law
func (h *CaseLawHandler) Submit(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, req, nil, badRequest(err))
		return
	}
	if req.SortBy == "" {
		req.SortBy = string(models.SortRelevance)
	}

	result, err := h.caseLaw.Search(c.Request.Context(), req.toService(c))
	h.render(c, req, result, err)
}

func (h *CaseLawHandler) render(c *gin.Context, form SearchRequest, result *service.SearchResult, err error) {
	renderPage(c, "caselaw.html", gin.H{
		"Title":  "Case Law",
		"Active": "case-law",
		"Courts": views.Courts,
		"Form":   form,
		"Result": result,
	}, err)
}
