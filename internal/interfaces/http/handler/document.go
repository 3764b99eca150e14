package handler

import (
	"context"
	"io"
	"net/http"

	documentapp "github.com/dms/backend/internal/application/document"
	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const pdfContentType = "application/pdf"

// DocumentService renders, registers and serves contract and quote PDFs
type DocumentService interface {
	GenerateContractForOrder(ctx context.Context, caller shared.Actor, orderID string) (*documentapp.Generated, error)
	GenerateQuote(ctx context.Context, data document.QuoteData, actor shared.Actor) (*documentapp.Generated, error)
	ListDocuments(ctx context.Context, caller shared.Actor, orderID string) ([]documentapp.DocumentResponse, error)
	OpenDocument(ctx context.Context, caller shared.Actor, id uuid.UUID) (*document.Record, io.ReadCloser, error)
	DownloadURL(ctx context.Context, caller shared.Actor, id uuid.UUID) (*documentapp.DownloadLink, error)
}

// DocumentHandler handles PDF generation and document download endpoints
type DocumentHandler struct {
	BaseHandler
	service DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// ContractPDF renders the sales contract of an order and downloads it
// GET /orders/:id/contract.pdf
func (h *DocumentHandler) ContractPDF(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	generated, err := h.service.GenerateContractForOrder(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, pdfContentType, generated.FileName, generated.Content)
}

// QuotePDF renders a quote from the posted data and downloads it
// POST /quotes/pdf
func (h *DocumentHandler) QuotePDF(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var data document.QuoteData
	if err := c.ShouldBindJSON(&data); err != nil {
		h.BindError(c, err)
		return
	}

	generated, err := h.service.GenerateQuote(c.Request.Context(), data, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, pdfContentType, generated.FileName, generated.Content)
}

// ListDocuments lists the documents generated for an order
// GET /orders/:id/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	docs, err := h.service.ListDocuments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// Download streams a stored document
// GET /documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	record, body, err := h.service.OpenDocument(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer body.Close()

	contentType := record.ContentType
	if contentType == "" {
		contentType = pdfContentType
	}
	size := record.SizeBytes
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, contentType, body, map[string]string{
		"Content-Disposition": dto.ContentDisposition(record.FileName),
	})
}

// DownloadLink returns a time-limited direct URL to a stored document
// GET /documents/:id/link
func (h *DocumentHandler) DownloadLink(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	link, err := h.service.DownloadURL(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}
