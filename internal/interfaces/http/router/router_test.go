package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	paymentapp "github.com/dms/backend/internal/application/payment"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/auth"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/dms/backend/internal/interfaces/http/handler"
	"github.com/dms/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAPI_Prefix(t *testing.T) {
	assert.Equal(t, "/api/v1", NewAPI("").Prefix())
	assert.Equal(t, "/api/v2", NewAPI("v2").Prefix())
}

func TestAPI_Mount(t *testing.T) {
	var seen []string
	api := NewAPI("v1").Use(func(c *gin.Context) {
		seen = append(seen, c.Request.Method)
		c.Next()
	})
	api.Add(
		NewResource("/orders").
			GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "get "+c.Param("id")) }).
			POST("/:id", func(c *gin.Context) { c.String(http.StatusCreated, "post") }).
			PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, "put") }),
		NewResource("/empty"),
	)
	assert.Len(t, api.resources, 1)

	engine := gin.New()
	api.Mount(engine)

	tests := []struct {
		method string
		status int
		body   string
	}{
		{http.MethodGet, http.StatusOK, "get 42"},
		{http.MethodPost, http.StatusCreated, "post"},
		{http.MethodPut, http.StatusOK, "put"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/v1/orders/42", nil))
		assert.Equal(t, tt.status, w.Code, tt.method)
		assert.Equal(t, tt.body, w.Body.String(), tt.method)
	}
	assert.Equal(t, []string{http.MethodGet, http.MethodPost, http.MethodPut}, seen)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/42", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubPayments struct {
	caller shared.Actor
}

func (s *stubPayments) Summary(_ context.Context, caller shared.Actor, orderID string) (*paymentapp.SummaryResult, error) {
	s.caller = caller
	return &paymentapp.SummaryResult{OrderID: orderID, Status: order.StatusPending, NextStep: paymentapp.NextStepDeposit}, nil
}

func (s *stubPayments) SubmitDeposit(context.Context, shared.Actor, paymentapp.DepositCommand) (*paymentapp.DepositResult, error) {
	return nil, paymentapp.ErrStockPending
}

func (s *stubPayments) SubmitFinalPayment(context.Context, shared.Actor, paymentapp.FinalPaymentCommand) (*paymentapp.FinalPaymentResult, error) {
	return nil, paymentapp.ErrVehicleNotReady
}

func newTestEngine(t *testing.T, httpCfg config.HTTPConfig, limiter *middleware.RateLimiter) (*gin.Engine, *stubPayments, string) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "dms-test",
		AccessTokenExpiration: time.Hour,
	})
	token, _, err := jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:       "user-7",
		Username:     "minh.tran",
		Role:         shared.RoleDealerStaff,
		DealershipID: "dealer-3",
	})
	require.NoError(t, err)

	payments := &stubPayments{}
	engine := NewEngine(EngineConfig{
		HTTP:        httpCfg,
		JWT:         jwtService,
		ServiceName: "dms-test",
		RateLimiter: limiter,
	}, Handlers{
		Payment: handler.NewPaymentHandler(payments),
		System:  handler.NewSystemHandler("dms-test", "test", nil),
	})
	return engine, payments, token
}

func serve(engine http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewEngine(t *testing.T) {
	t.Run("health needs no token", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, config.HTTPConfig{}, nil)

		for _, path := range []string{"/health", "/api/v1/health"} {
			w := serve(engine, http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusOK, w.Code, path)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), path)
		}
	})

	t.Run("api requires a token", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, config.HTTPConfig{}, nil)

		w := serve(engine, http.MethodGet, "/api/v1/orders/ord-1/payment-summary", "", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token caller reaches the service", func(t *testing.T) {
		engine, payments, token := newTestEngine(t, config.HTTPConfig{}, nil)

		w := serve(engine, http.MethodGet, "/api/v1/orders/ord-1/payment-summary", token, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-7", payments.caller.UserID)
		assert.Equal(t, "dealer-3", payments.caller.DealershipID)
		assert.Equal(t, token, payments.caller.Token)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("stock pending is accepted", func(t *testing.T) {
		engine, _, token := newTestEngine(t, config.HTTPConfig{}, nil)

		w := serve(engine, http.MethodPost, "/api/v1/orders/ord-1/deposit", token, `{"deposit_percent":30,"method":"cash"}`)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), `"warning"`)
	})

	t.Run("unregistered groups are absent", func(t *testing.T) {
		engine, _, token := newTestEngine(t, config.HTTPConfig{}, nil)

		w := serve(engine, http.MethodGet, "/api/v1/debts/customers", token, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("body limit", func(t *testing.T) {
		engine, _, token := newTestEngine(t, config.HTTPConfig{MaxBodySize: 16}, nil)

		w := serve(engine, http.MethodPost, "/api/v1/orders/ord-1/final-payment", token, `{"method":"cash","notes":"this body is too long"}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("rate limit per caller", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(0.01, 1)
		defer limiter.Close()
		engine, _, token := newTestEngine(t, config.HTTPConfig{}, limiter)

		first := serve(engine, http.MethodGet, "/api/v1/orders/ord-1/payment-summary", token, "")
		second := serve(engine, http.MethodGet, "/api/v1/orders/ord-1/payment-summary", token, "")

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, config.HTTPConfig{CORSOrigins: []string{"https://console.example.com"}}, nil)

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders/ord-1/deposit", nil)
		req.Header.Set("Origin", "https://console.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
