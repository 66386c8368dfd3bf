package documents

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumevault-backend/internal/extract"
	"resumevault-backend/internal/shared/server/middleware"
	"resumevault-backend/internal/shared/server/respond"
	"resumevault-backend/internal/validate"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/text", h.text)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "A file field named 'file' is required.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Could not read the uploaded file.", nil)
		return
	}
	defer file.Close()

	// Read one byte past the cap so the size validator fires instead of a
	// silent truncation.
	data, err := io.ReadAll(io.LimitReader(file, validate.MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Could not read the uploaded file.", nil)
		return
	}

	result, err := h.Svc.Ingest(c.Request.Context(), IngestInput{
		UserID:      userID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Title:       c.PostForm("title"),
		Data:        data,
	})
	if err != nil {
		h.respondIngestError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, result)
}

// respondIngestError maps pipeline errors onto HTTP responses. Validation
// failures are client errors; extraction failures are unprocessable input;
// everything else is a server-side failure with a generic message.
func (h *Handler) respondIngestError(c *gin.Context, err error) {
	if code := validate.CodeOf(err); code != "" {
		respond.Error(c, http.StatusBadRequest, string(code), err.Error(), nil)
		return
	}
	if kind := extract.KindOf(err); kind != "" {
		respond.Error(c, http.StatusUnprocessableEntity, string(kind), err.Error(), nil)
		return
	}
	if errors.Is(err, ErrPersist) {
		respond.Error(c, http.StatusInternalServerError, "PERSIST_FAILED", "Failed to save the document. Please try again.", nil)
		return
	}
	if errors.Is(err, ErrUpload) {
		respond.Error(c, http.StatusBadGateway, "UPLOAD_FAILED", "Failed to store the uploaded file. Please try again.", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	docs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to list documents", nil)
		return
	}

	items := make([]documentSummary, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toSummary(doc))
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	respond.OK(c, toSummary(doc))
}

func (h *Handler) text(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	respond.OK(c, documentText{ID: doc.ID, Text: doc.ExtractedText})
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondLookupError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondLookupError hides ownership mismatches behind the same 404 as a
// missing row.
func (h *Handler) respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
}
