package dealerapi

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared/valueobject"
)

// unwrapData returns the "data" member of a {success, data} envelope,
// or the body itself when the backend answered with a bare payload.
func unwrapData(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return trimmed
	}
	return env.Data
}

// orderWire is the backend's order document. A party may arrive under its
// _id key, under its own key, or both.
type orderWire struct {
	ID            string                            `json:"_id"`
	LegacyID      string                            `json:"id"`
	Code          string                            `json:"code"`
	OrderCode     string                            `json:"order_code"`
	CustomerID    order.Reference[order.Customer]   `json:"customer_id"`
	Customer      order.Reference[order.Customer]   `json:"customer"`
	DealershipID  order.Reference[order.Dealership] `json:"dealership_id"`
	Dealership    order.Reference[order.Dealership] `json:"dealership"`
	FinalAmount   valueobject.Money                 `json:"final_amount"`
	PaidAmount    valueobject.Money                 `json:"paid_amount"`
	Status        order.Status                      `json:"status"`
	PaymentMethod string                            `json:"payment_method"`
	Items         []order.Item                      `json:"items"`
	Delivery      *order.Delivery                   `json:"delivery"`
	Contract      order.ContractInfo                `json:"contract"`
	Notes         string                            `json:"notes"`
	CreatedAt     time.Time                         `json:"createdAt"`
	UpdatedAt     time.Time                         `json:"updatedAt"`
}

func (w *orderWire) toDomain() *order.Order {
	id := w.ID
	if id == "" {
		id = w.LegacyID
	}
	code := w.Code
	if code == "" {
		code = w.OrderCode
	}
	return &order.Order{
		ID:            id,
		Code:          code,
		Customer:      w.CustomerID.Or(w.Customer),
		Dealership:    w.DealershipID.Or(w.Dealership),
		FinalAmount:   w.FinalAmount,
		PaidAmount:    w.PaidAmount,
		Status:        w.Status,
		PaymentMethod: w.PaymentMethod,
		Items:         w.Items,
		Delivery:      w.Delivery,
		Contract:      w.Contract,
		Notes:         w.Notes,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// depositWire accepts both {order, has_stock} and a bare order with a stock flag
type depositWire struct {
	Order          *orderWire `json:"order"`
	HasStock       *bool      `json:"has_stock"`
	HasStockCamel  *bool      `json:"hasStock"`
	StockAvailable *bool      `json:"stock_available"`
}

func decodeDeposit(data []byte) (*order.DepositResponse, error) {
	var dw depositWire
	if err := json.Unmarshal(data, &dw); err != nil {
		return nil, err
	}
	ow := dw.Order
	if ow == nil {
		ow = &orderWire{}
		if err := json.Unmarshal(data, ow); err != nil {
			return nil, err
		}
	}
	o := ow.toDomain()

	var hasStock bool
	switch {
	case dw.HasStock != nil:
		hasStock = *dw.HasStock
	case dw.HasStockCamel != nil:
		hasStock = *dw.HasStockCamel
	case dw.StockAvailable != nil:
		hasStock = *dw.StockAvailable
	default:
		hasStock = o.Status != order.StatusWaitingVehicleRequest
	}
	return &order.DepositResponse{Order: o, HasStock: hasStock}, nil
}

// decodeOrder decodes an order that may be nested under "order"
func decodeOrder(data []byte) (*order.Order, error) {
	var wrapped struct {
		Order *orderWire `json:"order"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Order != nil {
		return wrapped.Order.toDomain(), nil
	}
	var ow orderWire
	if err := json.Unmarshal(data, &ow); err != nil {
		return nil, err
	}
	return ow.toDomain(), nil
}

type depositBody struct {
	DepositAmount valueobject.Money   `json:"deposit_amount"`
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes,omitempty"`
}

type finalPaymentBody struct {
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes,omitempty"`
}

type bankProfileStatusBody struct {
	Status ledger.BankProfileStatus `json:"status"`
	Notes  string                   `json:"notes,omitempty"`
}

// debtPageWire covers {data: [...], pagination: {...}} and {items|debts: [...], total, page, limit}
type debtPageWire struct {
	Items      []ledger.Debt   `json:"items"`
	Debts      []ledger.Debt   `json:"debts"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Pagination *paginationWire `json:"pagination"`
}

type paginationWire struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func decodeDebtPage(body []byte, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	filter = filter.Normalize()
	data := unwrapData(body)

	// bare array, pagination (if any) sits next to "data"
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '[' {
		var items []ledger.Debt
		if err := json.Unmarshal(t, &items); err != nil {
			return ledger.Page[ledger.Debt]{}, err
		}
		var outer debtPageWire
		_ = json.Unmarshal(body, &outer)
		total, page, limit := int64(len(items)), filter.Page, filter.Limit
		if p := outer.Pagination; p != nil {
			total, page, limit = p.Total, orInt(p.Page, page), orInt(p.Limit, limit)
		} else if outer.Total > 0 {
			total = outer.Total
		}
		return ledger.NewPage(items, total, page, limit), nil
	}

	var pw debtPageWire
	if err := json.Unmarshal(data, &pw); err != nil {
		return ledger.Page[ledger.Debt]{}, err
	}
	items := pw.Items
	if items == nil {
		items = pw.Debts
	}
	total, page, limit := pw.Total, orInt(pw.Page, filter.Page), orInt(pw.Limit, filter.Limit)
	if p := pw.Pagination; p != nil {
		total, page, limit = p.Total, orInt(p.Page, page), orInt(p.Limit, limit)
	}
	if total == 0 {
		total = int64(len(items))
	}
	return ledger.NewPage(items, total, page, limit), nil
}

func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
