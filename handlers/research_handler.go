package handlers

import (
	"net/http"
	"strings"

	"nyayasetu-web/service"

	"github.com/gin-gonic/gin"
)

// ResearchHandler handles the research chat page and its API
type ResearchHandler struct {
	research *service.ResearchService
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(research *service.ResearchService) *ResearchHandler {
	return &ResearchHandler{research: research}
}

// AskRequest represents the request body for a research question
type AskRequest struct {
	Query  string `json:"query" form:"query"`
	Strict bool   `json:"strict" form:"strict"`
}

// Ask handles POST /api/research
func (h *ResearchHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.research.Ask(c.Request.Context(), service.AskRequest{
		SessionID: currentSession(c).ID,
		Query:     req.Query,
		Strict:    req.Strict,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result.Exchange)
}

// History handles GET /api/research/history
func (h *ResearchHandler) History(c *gin.Context) {
	session := currentSession(c)
	respondOK(c, http.StatusOK, gin.H{
		"conversation": h.research.History(session.ID),
		"busy":         h.research.Busy(session.ID),
	})
}

// ClearHistory handles DELETE /api/research/history
func (h *ResearchHandler) ClearHistory(c *gin.Context) {
	h.research.NewChat(currentSession(c).ID)
	respondOK(c, http.StatusOK, gin.H{"cleared": true})
}

// Page handles GET /research. A q parameter only prefills the question box
func (h *ResearchHandler) Page(c *gin.Context) {
	h.render(c, AskRequest{Query: strings.TrimSpace(c.Query("q"))}, nil)
}

// Submit handles POST /research
func (h *ResearchHandler) Submit(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, req, badRequest(err))
		return
	}
	h.ask(c, req)
}

// NewChat handles POST /research/new
func (h *ResearchHandler) NewChat(c *gin.Context) {
	h.research.NewChat(currentSession(c).ID)
	c.Redirect(http.StatusSeeOther, "/research")
}

func (h *ResearchHandler) ask(c *gin.Context, req AskRequest) {
	_, err := h.research.Ask(c.Request.Context(), service.AskRequest{
		SessionID: currentSession(c).ID,
		Query:     req.Query,
		Strict:    req.Strict,
	})
	if err != nil {
		h.render(c, req, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/research")
}

func (h *ResearchHandler) render(c *gin.Context, req AskRequest, err error) {
	session := currentSession(c)
	data := gin.H{
		"Title":        "Research",
		"Active":       "research",
		"Conversation": h.research.History(session.ID),
		"Busy":         h.research.Busy(session.ID),
		"Strict":       req.Strict,
		"Query":        req.Query,
	}
	renderPage(c, "research.html", data, err)
}
