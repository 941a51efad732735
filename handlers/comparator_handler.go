package handlers

import (
	"net/http"

	"nyayasetu-web/models"
	"nyayasetu-web/service"

	"github.com/gin-gonic/gin"
)

// ComparatorHandler handles IPC/BNS comparison
type ComparatorHandler struct {
	comparator *service.ComparatorService
}

// NewComparatorHandler creates a new comparator handler
func NewComparatorHandler(comparator *service.ComparatorService) *ComparatorHandler {
	return &ComparatorHandler{comparator: comparator}
}

// CompareRequest represents the comparator form and API body
type CompareRequest struct {
	LawType    string `json:"law_type" form:"law_type"`
	Section    string `json:"section" form:"section"`
	Subsection string `json:"subsection" form:"subsection"`
}

func (r CompareRequest) toService(c *gin.Context) service.CompareRequest {
	return service.CompareRequest{
		SessionID:  currentSession(c).ID,
		LawType:    models.LawType(r.LawType),
		Section:    r.Section,
		Subsection: r.Subsection,
	}
}

// Compare handles POST /api/compare
func (h *ComparatorHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	comparison, err := h.comparator.Compare(c.Request.Context(), req.toService(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, comparison)
}

// Page handles GET /comparator
func (h *ComparatorHandler) Page(c *gin.Context) {
	h.render(c, CompareRequest{LawType: string(models.LawIPC)}, nil, nil)
}

// Submit handles POST /comparator
func (h *ComparatorHandler) Submit(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, req, nil, badRequest(err))
		return
	}

	comparison, err := h.comparator.Compare(c.Request.Context(), req.toService(c))
	h.render(c, req, comparison, err)
}

func (h *ComparatorHandler) render(c *gin.Context, form CompareRequest, comparison *models.Comparison, err error) {
	renderPage(c, "comparator.html", gin.H{
		"Title":      "Comparator",
		"Active":     "comparator",
		"Form":       form,
		"Comparison": comparison,
	}, err)
}
