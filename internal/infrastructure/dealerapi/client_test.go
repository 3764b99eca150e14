package dealerapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.DealerAPIConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, nil)
}

func actorCtx() context.Context {
	return shared.ContextWithActor(context.Background(), shared.Actor{
		UserID: "u-1", Role: shared.RoleDealerStaff, DealershipID: "d-1", Token: "tok-123",
	})
}

func TestGetOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/o-1", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"data":{
			"_id":"o-1","code":"DH001",
			"customer_id":{"_id":"c-1","full_name":"Nguyễn Văn A"},
			"dealership_id":"d-1",
			"final_amount":1000000000,"paid_amount":"200000000",
			"status":"halfPayment",
			"items":[{"vehicle_id":{"_id":"v-1","name":"VF 8"},"color":"Đỏ","quantity":1,"vehicle_price":1000000000}]
		}}`)
	})

	o, err := c.GetOrder(actorCtx(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
	assert.Equal(t, "DH001", o.Code)
	assert.Equal(t, order.StatusDepositPaid, o.Status)
	assert.True(t, o.Customer.IsResolved())
	assert.Equal(t, "d-1", o.DealershipID())
	assert.False(t, o.Dealership.IsResolved())
	assert.Equal(t, int64(800_000_000), o.RemainingAmount().Amount().IntPart())
	require.Len(t, o.Items, 1)
	assert.Equal(t, "v-1", o.Items[0].Vehicle.ID())
}

func TestSubmitDeposit(t *testing.T) {
	t.Run("wrapped response with stock flag", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/orders/o-1/deposit", r.URL.Path)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.EqualValues(t, 300000000, body["deposit_amount"])
			assert.Equal(t, "bank", body["payment_method"])
			_, _ = io.WriteString(w, `{"data":{"order":{"_id":"o-1","status":"waiting_vehicle_request"},"has_stock":false}}`)
		})

		resp, err := c.SubmitDeposit(actorCtx(), "o-1", order.DepositRequest{
			Amount: valueobject.NewMoneyFromInt(300_000_000),
			Method: order.PaymentMethodBank,
		})
		require.NoError(t, err)
		assert.False(t, resp.HasStock)
		assert.Equal(t, order.StatusWaitingVehicleRequest, resp.Order.Status)
	})

	t.Run("bare order infers stock from status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"_id":"o-1","status":"deposit_paid"}`)
		})

		resp, err := c.SubmitDeposit(actorCtx(), "o-1", order.DepositRequest{Amount: valueobject.NewMoneyFromInt(1)})
		require.NoError(t, err)
		assert.True(t, resp.HasStock)
	})

	t.Run("backend error keeps the message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"success":false,"message":"Insufficient stock for this vehicle"}`)
		})

		_, err := c.SubmitDeposit(actorCtx(), "o-1", order.DepositRequest{Amount: valueobject.NewMoneyFromInt(1)})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Insufficient stock for this vehicle", apiErr.Message)
	})
}

func TestSubmitFinalPayment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasAmount := body["amount"]
		assert.False(t, hasAmount)
		assert.Equal(t, "cash", body["payment_method"])
		_, _ = io.WriteString(w, `{"data":{"order":{"_id":"o-1","status":"fully_paid","final_amount":5,"paid_amount":5}}}`)
	})

	o, err := c.SubmitFinalPayment(actorCtx(), "o-1", order.FinalPaymentRequest{Method: order.PaymentMethodCash})
	require.NoError(t, err)
	assert.Equal(t, order.StatusFullyPaid, o.Status)
	assert.True(t, o.RemainingAmount().IsZero())
}

func TestDirectoryAndHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dealerships/d-1":
			_, _ = io.WriteString(w, `{"data":{"_id":"d-1","company_name":"VinFast Hà Nội","tax_code":"0101"}}`)
		case "/api/customers/c-1":
			_, _ = io.WriteString(w, `{"data":{"_id":"c-1","full_name":"Trần B","address":"12 Lê Lợi"}}`)
		case "/api/payments/order/o-1":
			_, _ = io.WriteString(w, `{"data":[{"_id":"p-1","order_id":"o-1","amount":100,"method":"cash","paid_at":"2026-01-02T03:04:05Z"}]}`)
		case "/api/order-status-logs/orders/o-1/history":
			_, _ = io.WriteString(w, `[{"_id":"l-1","order_id":"o-1","new_status":"pending","changed_at":"2026-01-01T00:00:00Z"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":"NOT_FOUND","message":"Order not found"}}`)
		}
	})
	ctx := actorCtx()

	d, err := c.GetDealership(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "VinFast Hà Nội", d.CompanyName)

	cu, err := c.GetCustomer(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, cu.HasAddress())

	payments, err := c.ListPayments(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, order.PaymentMethodCash, payments[0].Method)

	logs, err := c.ListStatusLogs(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, logs, 1)

	_, err = c.GetOrder(ctx, "missing")
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Order not found", apiErr.Message)
}

func TestListDebts(t *testing.T) {
	t.Run("array with pagination", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/debts/customers", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "overdue", r.URL.Query().Get("status"))
			_, _ = io.WriteString(w, `{"data":[{"_id":"debt-1","total_amount":10,"paid_amount":4,"status":"partial"}],
				"pagination":{"total":41,"page":2,"limit":20}}`)
		})

		page, err := c.ListDebts(actorCtx(), ledger.DebtorCustomer, ledger.DebtFilter{Page: 2, Status: ledger.DebtStatusOverdue})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(41), page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("object page", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/debts/manufacturers", r.URL.Path)
			_, _ = io.WriteString(w, `{"data":{"debts":[{"_id":"a"},{"_id":"b"}],"total":2,"page":1,"limit":20}}`)
		})

		page, err := c.ListDebts(actorCtx(), ledger.DebtorManufacturer, ledger.DebtFilter{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("unsupported debtor type", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})
		_, err := c.ListDebts(actorCtx(), ledger.DebtorDealer, ledger.DebtFilter{})
		assert.Error(t, err)
	})
}

func TestBankProfiles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/bank-profiles":
			_, _ = io.WriteString(w, `{"data":{"_id":"bp-1","order_id":"o-1","bank_name":"VCB","status":"pending"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/bank-profiles/bp-1/status":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "submitted", body["status"])
			_, _ = io.WriteString(w, `{"data":{"_id":"bp-1","status":"submitted"}}`)
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"data":{"_id":"bp-1","status":"pending"}}`)
		}
	})
	ctx := actorCtx()

	created, err := c.CreateBankProfile(ctx, &ledger.BankProfile{OrderID: "o-1", BankName: "VCB"})
	require.NoError(t, err)
	assert.Equal(t, "bp-1", created.ID)

	got, err := c.GetBankProfile(ctx, "bp-1")
	require.NoError(t, err)
	assert.Equal(t, ledger.BankProfilePending, got.Status)

	updated, err := c.UpdateBankProfileStatus(ctx, "bp-1", ledger.BankProfileSubmitted, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.BankProfileSubmitted, updated.Status)
}

func TestTransportFailures(t *testing.T) {
	t.Run("unreachable backend", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(config.DealerAPIConfig{BaseURL: srv.URL}, nil)

		_, err := c.GetOrder(context.Background(), "o-1")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.GetOrder(ctx, "o-1")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("plain text error body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
		})
		_, err := c.GetOrder(context.Background(), "o-1")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "upstream down", apiErr.Message)
	})
}
