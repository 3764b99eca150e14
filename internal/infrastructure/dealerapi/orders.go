package dealerapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dms/backend/internal/domain/order"
)

var (
	_ order.Gateway          = (*Client)(nil)
	_ order.DirectoryGateway = (*Client)(nil)
	_ order.HistoryGateway   = (*Client)(nil)
)

// GetOrder fetches the current order snapshot
func (c *Client) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/orders/"+escape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	o, err := decodeOrder(unwrapData(body))
	if err != nil {
		return nil, fmt.Errorf("dealer api: failed to decode order %s: %w", id, err)
	}
	return o, nil
}

// SubmitDeposit records the deposit; the backend decides whether stock is reserved
func (c *Client) SubmitDeposit(ctx context.Context, orderID string, req order.DepositRequest) (*order.DepositResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/orders/"+escape(orderID)+"/deposit", nil, depositBody{
		DepositAmount: req.Amount,
		PaymentMethod: req.Method,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}
	resp, err := decodeDeposit(unwrapData(body))
	if err != nil {
		return nil, fmt.Errorf("dealer api: failed to decode deposit response: %w", err)
	}
	return resp, nil
}

// SubmitFinalPayment settles the remaining balance computed by the backend
func (c *Client) SubmitFinalPayment(ctx context.Context, orderID string, req order.FinalPaymentRequest) (*order.Order, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/orders/"+escape(orderID)+"/final-payment", nil, finalPaymentBody{
		PaymentMethod: req.Method,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}
	o, err := decodeOrder(unwrapData(body))
	if err != nil {
		return nil, fmt.Errorf("dealer api: failed to decode final payment response: %w", err)
	}
	return o, nil
}

// GetDealership fetches the full dealership record
func (c *Client) GetDealership(ctx context.Context, id string) (*order.Dealership, error) {
	var d order.Dealership
	if err := c.call(ctx, http.MethodGet, "/api/dealerships/"+escape(id), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetCustomer fetches the full customer record
func (c *Client) GetCustomer(ctx context.Context, id string) (*order.Customer, error) {
	var cu order.Customer
	if err := c.call(ctx, http.MethodGet, "/api/customers/"+escape(id), nil, nil, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

// ListPayments returns the payment records of an order
func (c *Client) ListPayments(ctx context.Context, orderID string) ([]order.Payment, error) {
	var payments []order.Payment
	if err := c.call(ctx, http.MethodGet, "/api/payments/order/"+escape(orderID), nil, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// ListStatusLogs returns the status timeline of an order
func (c *Client) ListStatusLogs(ctx context.Context, orderID string) ([]order.StatusLog, error) {
	var logs []order.StatusLog
	if err := c.call(ctx, http.MethodGet, "/api/order-status-logs/orders/"+escape(orderID)+"/history", nil, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
