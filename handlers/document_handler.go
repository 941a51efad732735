package handlers

import (
	"mime/multipart"
	"net/http"

	"nyayasetu-web/models"
	"nyayasetu-web/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles document uploads and document Q&A
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// DocumentQueryRequest represents a question about uploaded documents
type DocumentQueryRequest struct {
	Question string `json:"question" form:"question"`
}

// Upload handles POST /api/documents. Files are sent as repeated "file"
// parts; reset=true replaces the session's earlier documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	job, err := h.startUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusAccepted, job)
}

// Job handles GET /api/documents/jobs/:id
func (h *DocumentHandler) Job(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid job ID format")
		return
	}

	job, err := h.documents.Job(currentSession(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, job)
}

// Jobs handles GET /api/documents/jobs
func (h *DocumentHandler) Jobs(c *gin.Context) {
	respondOK(c, http.StatusOK, h.documents.Jobs(currentSession(c).ID))
}

// Query handles POST /api/documents/query
func (h *DocumentHandler) Query(c *gin.Context) {
	var req DocumentQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	answer, err := h.query(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"answer": answer})
}

// Page handles GET /documents
func (h *DocumentHandler) Page(c *gin.Context) {
	h.render(c, gin.H{}, nil)
}

// UploadPage handles POST /documents/upload
func (h *DocumentHandler) UploadPage(c *gin.Context) {
	if _, err := h.startUpload(c); err != nil {
		h.render(c, gin.H{}, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/documents")
}

// QueryPage handles POST /documents/query
func (h *DocumentHandler) QueryPage(c *gin.Context) {
	var req DocumentQueryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, gin.H{}, badRequest(err))
		return
	}

	answer, err := h.query(c, req)
	h.render(c, gin.H{"Question": req.Question, "Answer": answer}, err)
}

func (h *DocumentHandler) startUpload(c *gin.Context) (*models.UploadJob, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &service.ValidationError{Code: "MISSING_FILE", Message: "File is required"}
	}
	headers := form.File["file"]

	files := make([]service.UploadFile, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		files = append(files, service.UploadFile{
			Filename: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
			Body:     f,
		})
	}

	session := currentSession(c)
	return h.documents.StartUpload(c.Request.Context(), service.StartUploadRequest{
		SessionID:     session.ID,
		DocumentSetID: session.DocumentSetID,
		Files:         files,
		Reset:         c.PostForm("reset") == "true",
	})
}

func (h *DocumentHandler) query(c *gin.Context, req DocumentQueryRequest) (string, error) {
	session := currentSession(c)
	return h.documents.Query(c.Request.Context(), service.DocumentQueryRequest{
		SessionID:     session.ID,
		DocumentSetID: session.DocumentSetID,
		Question:      req.Question,
	})
}

func (h *DocumentHandler) render(c *gin.Context, data gin.H, err error) {
	session := currentSession(c)
	data["Title"] = "Documents"
	data["Active"] = "documents"
	data["Jobs"] = h.documents.Jobs(session.ID)
	data["Busy"] = h.documents.Busy(session.ID)
	renderPage(c, "documents.html", data, err)
}
