package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	r := gin.New()
	r.Use(BodyLimit(limit))
	echo := func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "truncated")
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	}
	r.POST("/orders/:id/deposit", echo)
	r.GET("/orders/:id/payment-summary", echo)
	return r
}

func TestBodyLimit(t *testing.T) {
	deposit := `{"deposit_percent":30,"method":"cash"}`

	tests := []struct {
		name          string
		limit         int64
		method        string
		path          string
		body          string
		contentLength int64
		wantStatus    int
		wantBody      string
	}{
		{
			name:          "deposit within limit",
			limit:         1024,
			method:        http.MethodPost,
			path:          "/orders/ord-1/deposit",
			body:          deposit,
			contentLength: int64(len(deposit)),
			wantStatus:    http.StatusOK,
			wantBody:      "38",
		},
		{
			name:          "declared length over limit is rejected before the handler",
			limit:         16,
			method:        http.MethodPost,
			path:          "/orders/ord-1/deposit",
			body:          deposit,
			contentLength: int64(len(deposit)),
			wantStatus:    http.StatusRequestEntityTooLarge,
			wantBody:      "REQUEST_TOO_LARGE",
		},
		{
			name:          "chunked body is cut off while reading",
			limit:         16,
			method:        http.MethodPost,
			path:          "/orders/ord-1/deposit",
			body:          deposit,
			contentLength: -1,
			wantStatus:    http.StatusRequestEntityTooLarge,
			wantBody:      "truncated",
		},
		{
			name:       "reads without a body pass",
			limit:      1,
			method:     http.MethodGet,
			path:       "/orders/ord-1/payment-summary",
			wantStatus: http.StatusOK,
			wantBody:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.body != "" {
				req.ContentLength = tt.contentLength
			}
			w := httptest.NewRecorder()
			bodyLimitRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
