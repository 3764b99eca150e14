package payment

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dms/backend/internal/domain/shared"
)

// upstreamError is implemented by backend client errors that carry the
// backend's own message and status
type upstreamError interface {
	UpstreamMessage() string
	UpstreamStatus() int
}

type translationRule struct {
	needles []string
	err     *shared.DomainError
}

// Rules are checked in order; the first rule with a matching needle wins.
var defaultRules = []translationRule{
	{
		needles: []string{"insufficient stock", "out of stock", "không đủ hàng", "hết hàng"},
		err:     ErrInsufficientStock,
	},
	{
		needles: []string{"vehicle not ready", "vehicle is not ready", "xe chưa sẵn sàng", "xe chưa về"},
		err:     shared.NewClassifiedError(shared.ClassTerminal, ErrVehicleNotReady.Code, ErrVehicleNotReady.Message),
	},
	{
		needles: []string{"already fully paid", "already paid in full", "đã thanh toán đủ", "đã thanh toán hết"},
		err:     shared.NewClassifiedError(shared.ClassTerminal, ErrAlreadyFullyPaid.Code, ErrAlreadyFullyPaid.Message),
	},
	{
		needles: []string{"exceeds remaining", "exceeds the remaining", "amount exceeds", "vượt quá số tiền còn lại"},
		err:     shared.NewClassifiedError(shared.ClassTerminal, ErrAmountExceedsRemaining.Code, ErrAmountExceedsRemaining.Message),
	},
	{
		needles: []string{"color is required", "select a color", "missing color", "chưa chọn màu"},
		err:     ErrColorRequired,
	},
	{
		needles: []string{"order not found", "không tìm thấy đơn hàng"},
		err:     ErrOrderNotFound,
	},
	{
		needles: []string{"invalid status", "invalid order status", "wrong status", "cannot transition", "trạng thái không hợp lệ"},
		err:     ErrInvalidOrderStatus,
	},
	{
		needles: []string{"dealer backend unavailable"},
		err:     ErrBackendUnavailable,
	},
}

// MessageTranslator turns backend failures into classified domain errors
// with a Vietnamese message for the user
type MessageTranslator struct {
	rules []translationRule
}

// NewMessageTranslator creates a translator with the built-in rule table
func NewMessageTranslator() *MessageTranslator {
	return &MessageTranslator{rules: defaultRules}
}

// TranslateMessage matches msg against the rule table, case-insensitively.
// It returns nil when no rule matches.
func (t *MessageTranslator) TranslateMessage(msg string) *shared.DomainError {
	lower := strings.ToLower(msg)
	for _, r := range t.rules {
		for _, n := range r.needles {
			if strings.Contains(lower, n) {
				return r.err
			}
		}
	}
	return nil
}

// Translate maps err to a domain error. Domain errors and context errors pass
// through unchanged; unmatched backend messages become UPSTREAM_ERROR verbatim.
func (t *MessageTranslator) Translate(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg, status := err.Error(), 0
	var ue upstreamError
	if errors.As(err, &ue) {
		msg, status = ue.UpstreamMessage(), ue.UpstreamStatus()
	}
	if matched := t.TranslateMessage(msg); matched != nil {
		return matched
	}
	if status == http.StatusNotFound {
		return shared.NewClassifiedError(shared.ClassTerminal, shared.ErrNotFound.Code, msg)
	}
	return shared.NewClassifiedError(shared.ClassUpstream, CodeUpstreamError, msg)
}
