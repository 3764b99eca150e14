package handler

import (
	"errors"
	"net/http"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/printing"
	"github.com/dms/backend/internal/interfaces/http/dto"
	"github.com/dms/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// upstreamError is implemented by errors carrying a dealer backend response
type upstreamError interface {
	error
	UpstreamStatus() int
	UpstreamMessage() string
}

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID returns the id assigned by the request id middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return logger.GetRequestID(c.Request.Context())
}

// actorFrom returns the authenticated caller or writes a 401
func (h *BaseHandler) actorFrom(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok || actor.UserID == "" {
		h.Unauthorized(c, "Authentication required")
		return shared.Actor{}, false
	}
	return actor, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, limit int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, limit))
}

// SuccessWithWarning sends a success response carrying a warning for the console
func (h *BaseHandler) SuccessWithWarning(c *gin.Context, data any, warning string) {
	if warning == "" {
		h.Success(c, data)
		return
	}
	c.JSON(http.StatusOK, dto.NewWarningResponse(data, warning))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Attachment sends a file download
func (h *BaseHandler) Attachment(c *gin.Context, contentType, fileName string, content []byte) {
	c.Header("Content-Disposition", dto.ContentDisposition(fileName))
	c.Data(http.StatusOK, contentType, content)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindError reports a request body or query that failed to bind
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request: "+err.Error())
}

// HandleError maps service errors to HTTP responses. Transient domain errors
// are reported as 202 with the message repeated as a warning.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status, code := dto.StatusForDomainError(domainErr)
		resp := dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID)
		if domainErr.Class == shared.ClassTransient {
			resp.Warning = domainErr.Message
		}
		c.JSON(status, resp)
		return
	}

	var renderErr *printing.RenderError
	if errors.As(err, &renderErr) {
		logger.L(c.Request.Context()).Error("document pipeline failed",
			zap.String("code", renderErr.Code), zap.Error(err))
		c.JSON(dto.GetHTTPStatus(renderErr.Code), dto.NewErrorResponseWithRequestID(renderErr.Code, renderErr.Message, requestID))
		return
	}

	var upErr upstreamError
	if errors.As(err, &upErr) {
		message := upErr.UpstreamMessage()
		if message == "" {
			message = http.StatusText(upErr.UpstreamStatus())
		}
		c.JSON(dto.StatusForUpstream(upErr.UpstreamStatus()), dto.NewErrorResponseWithRequestID(dto.ErrCodeUpstream, message, requestID))
		return
	}

	logger.L(c.Request.Context()).Error("unhandled request error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
