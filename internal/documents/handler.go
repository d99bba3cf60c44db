package documents

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/server/middleware"
	"legal-backend/internal/shared/server/respond"
)

// Handler wires document HTTP routes to the service.
type Handler struct {
	Svc           *Service
	MaxUploadSize int64
}

func NewHandler(svc *Service, maxUploadSizeMB int) *Handler {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = 50
	}
	return &Handler{Svc: svc, MaxUploadSize: int64(maxUploadSizeMB) << 20}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cases/:id/documents", h.upload)
	rg.GET("/cases/:id/documents", h.listByCase)
	rg.GET("/documents/:id", h.get)
	rg.POST("/process/file", h.processFile)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(
		c.Request.Context(),
		userID,
		c.Param("id"),
		c.PostForm("title"),
		fileHeader.Filename,
		c.GetString("requestId"),
		file,
	)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.FromError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) listByCase(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	docs, err := h.Svc.ListByCase(c.Request.Context(), userID, c.Param("id"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		// Extracted text can be large; the list omits it.
		doc.ExtractedText = ""
		out = append(out, toResponse(doc))
	}
	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		return
	}

	respond.OK(c, toResponse(doc))
}

// processFile extracts text from an uploaded file without storing anything.
func (h *Handler) processFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	result, err := h.Svc.ProcessBytes(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		respond.FromError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"fileName":  fileHeader.Filename,
		"text":      result.Text,
		"pageCount": result.PageCount,
		"ocrUsed":   result.OCRUsed,
		"warning":   result.Warning,
	})
}
