// Package document renders sales contracts and quotations to PDF, keeps the
// files in document storage and records every generated file in a registry.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dms/backend/internal/application/payment"
	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/printing"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by the document service
var (
	ErrDocumentNotFound   = shared.NewClassifiedError(shared.ClassTerminal, "DOCUMENT_NOT_FOUND", "Không tìm thấy tài liệu")
	ErrPresignUnsupported = shared.NewClassifiedError(shared.ClassTerminal, "PRESIGN_UNSUPPORTED", "Kho lưu trữ không hỗ trợ liên kết tải xuống")
)

// Metrics receives render latency
type Metrics interface {
	DocumentRendered(ctx context.Context, kind string, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) DocumentRendered(context.Context, string, time.Duration) {}

// presigner is implemented by storages that can hand out direct download URLs
type presigner interface {
	PresignDownload(ctx context.Context, key, fileName string) (string, time.Time, error)
}

// Service is the contract and quote document pipeline:
// template, PDF render, storage, registry.
type Service struct {
	templates *printing.TemplateEngine
	renderer  printing.PDFRenderer
	storage   printing.DocumentStorage
	records   document.Repository
	resolver  *Resolver
	orders    order.Gateway
	errors    *payment.MessageTranslator
	setup     document.PageSetup
	timeout   time.Duration
	now       func() time.Time
	metrics   Metrics
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the clock used for signing and issue dates
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderTimeout bounds a single PDF render
func WithRenderTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// NewService creates a document Service
func NewService(
	templates *printing.TemplateEngine,
	renderer printing.PDFRenderer,
	storage printing.DocumentStorage,
	records document.Repository,
	resolver *Resolver,
	orders order.Gateway,
	opts ...Option,
) *Service {
	s := &Service{
		templates: templates,
		renderer:  renderer,
		storage:   storage,
		records:   records,
		resolver:  resolver,
		orders:    orders,
		errors:    payment.NewMessageTranslator(),
		setup:     document.DefaultPageSetup(),
		now:       time.Now,
		metrics:   noopMetrics{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("document")
	return s
}

// =============================================================================
// Generation
// =============================================================================

// GenerateContract renders, stores and registers a sales contract
func (s *Service) GenerateContract(ctx context.Context, data document.ContractData, actor shared.Actor) (*Generated, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "GenerateContract",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentKind, document.KindContract.String()),
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, data.OrderID))
	defer span.End()

	if err := data.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	html, err := s.templates.RenderContract(&data, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, printing.NewRenderError(printing.ErrCodeTemplateFailed, "failed to build contract", err)
	}

	title := fmt.Sprintf("%s - %s", document.KindContract.DisplayName(), data.ContractCode)
	gen, err := s.produce(ctx, document.KindContract, data.ContractCode, data.OrderID, title, html, actor)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, gen.Record.ID.String())
	telemetry.SetOK(span)
	return gen, nil
}

// GenerateQuote renders, stores and registers a quotation. Line totals,
// subtotal and total are recomputed from prices and quantities.
func (s *Service) GenerateQuote(ctx context.Context, data document.QuoteData, actor shared.Actor) (*Generated, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "GenerateQuote",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentKind, document.KindQuote.String()))
	defer span.End()

	if err := data.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	data.Recalculate()

	html, err := s.templates.RenderQuote(&data, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, printing.NewRenderError(printing.ErrCodeTemplateFailed, "failed to build quote", err)
	}

	title := fmt.Sprintf("%s - %s", document.KindQuote.DisplayName(), data.QuoteCode)
	gen, err := s.produce(ctx, document.KindQuote, data.QuoteCode, "", title, html, actor)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, gen.Record.ID.String())
	telemetry.SetOK(span)
	return gen, nil
}

// GenerateContractForOrder loads the order, resolves both parties and
// generates its contract
func (s *Service) GenerateContractForOrder(ctx context.Context, caller shared.Actor, orderID string) (*Generated, error) {
	o, err := s.loadOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	data := s.resolver.ResolveContractData(ctx, o, nil)
	return s.GenerateContract(ctx, data, caller)
}

// ContractForOrder generates the contract of an order snapshot already in hand
func (s *Service) ContractForOrder(ctx context.Context, caller shared.Actor, o *order.Order) (*document.Record, error) {
	data := s.resolver.ResolveContractData(ctx, o, nil)
	gen, err := s.GenerateContract(ctx, data, caller)
	if err != nil {
		return nil, err
	}
	return gen.Record, nil
}

// produce runs a rendered page through the PDF renderer, storage and registry.
// A registry failure removes the stored object again.
func (s *Service) produce(ctx context.Context, kind document.Kind, code, orderID, title, html string, actor shared.Actor) (*Generated, error) {
	log := logger.Enrich(ctx, s.logger).With(zap.String("kind", kind.String()), zap.String("code", code))

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:    html,
		Setup:   s.setup,
		Title:   title,
		Timeout: s.timeout,
	})
	if err != nil {
		log.Error("PDF rendering failed", zap.Error(err))
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}
	s.metrics.DocumentRendered(ctx, kind.String(), result.RenderDuration)

	sum := sha256.Sum256(result.PDFData)
	rec := document.NewRecord(kind, code, orderID, "", int64(len(result.PDFData)), hex.EncodeToString(sum[:]), actor.UserID)
	rec.CreatedAt = s.now()
	rec.StorageKey = printing.BuildKey(kind, code, rec.ID, rec.CreatedAt)

	if err := s.storage.Put(ctx, rec.StorageKey, result.PDFData, rec.ContentType); err != nil {
		log.Error("PDF storage failed", zap.String("key", rec.StorageKey), zap.Error(err))
		var renderErr *printing.RenderError
		if errors.As(err, &renderErr) {
			return nil, err
		}
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to store document", err)
	}

	if err := s.records.Save(ctx, rec); err != nil {
		log.Error("document registry save failed", zap.String("key", rec.StorageKey), zap.Error(err))
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), rec.StorageKey); delErr != nil {
			log.Warn("failed to remove orphaned document", zap.String("key", rec.StorageKey), zap.Error(delErr))
		}
		return nil, fmt.Errorf("save document record: %w", err)
	}

	log.Info("document generated",
		zap.String("document_id", rec.ID.String()),
		zap.Int64("size", rec.SizeBytes),
		zap.Int("pages", result.PageCount),
		zap.Duration("render_duration", result.RenderDuration))

	return &Generated{Record: rec, FileName: rec.FileName, Content: result.PDFData}, nil
}

// =============================================================================
// Registry
// =============================================================================

// ListDocuments returns the documents generated for an order, newest first
func (s *Service) ListDocuments(ctx context.Context, caller shared.Actor, orderID string) ([]DocumentResponse, error) {
	if _, err := s.loadOrder(ctx, caller, orderID); err != nil {
		return nil, err
	}
	records, err := s.records.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	items := make([]DocumentResponse, len(records))
	for i := range records {
		items[i] = toDocumentResponse(&records[i])
	}
	return items, nil
}

// OpenDocument returns a registry record and a reader over its stored bytes.
// The caller closes the reader.
func (s *Service) OpenDocument(ctx context.Context, caller shared.Actor, id uuid.UUID) (*document.Record, io.ReadCloser, error) {
	rec, err := s.findRecord(ctx, caller, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(ctx, rec.StorageKey)
	if err != nil {
		if errors.Is(err, printing.ErrObjectNotFound) {
			logger.Enrich(ctx, s.logger).Warn("registered document missing from storage",
				zap.String("document_id", id.String()),
				zap.String("key", rec.StorageKey))
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return rec, rc, nil
}

// DownloadURL returns a presigned URL when the storage backend supports it
func (s *Service) DownloadURL(ctx context.Context, caller shared.Actor, id uuid.UUID) (*DownloadLink, error) {
	p, ok := s.storage.(presigner)
	if !ok {
		return nil, ErrPresignUnsupported
	}
	rec, err := s.findRecord(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := p.PresignDownload(ctx, rec.StorageKey, rec.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to presign document: %w", err)
	}
	return &DownloadLink{DocumentID: rec.ID.String(), FileName: rec.FileName, URL: url, ExpiresAt: expiresAt}, nil
}

func (s *Service) findRecord(ctx context.Context, caller shared.Actor, id uuid.UUID) (*document.Record, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if rec.OrderID != "" && caller.Role.IsDealershipScoped() {
		if _, err := s.loadOrder(ctx, caller, rec.OrderID); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (s *Service) loadOrder(ctx context.Context, caller shared.Actor, orderID string) (*order.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Thiếu mã đơn hàng")
	}
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.errors.Translate(err)
	}
	if !caller.CanAccessDealership(o.DealershipID()) {
		return nil, payment.ErrDealershipMismatch
	}
	return o, nil
}
