package dto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/blog-service/internal/domain"
	"github.com/jsamuelsen/blog-service/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return c, w
}

func TestNewErrorResponse(t *testing.T) {
	got := NewErrorResponse(ErrorCodeNotFound, "entry not found")

	assert.Equal(t, &ErrorResponse{
		Error: ErrorDetail{Code: ErrorCodeNotFound, Message: "entry not found"},
	}, got)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"page_size": "must be less than or equal to 100"}

	got := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details).
		WithTraceID("trace-1")

	assert.Equal(t, ErrorCodeValidation, got.Error.Code)
	assert.Equal(t, details, got.Error.Details)
	assert.Equal(t, "trace-1", got.TraceID)

	data, err := json.Marshal(NewErrorResponse(ErrorCodeInternal, "boom"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "details")
	assert.NotContains(t, string(data), "traceId")
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[string]int{
		ErrorCodeNotFound:    http.StatusNotFound,
		ErrorCodeConflict:    http.StatusConflict,
		ErrorCodeValidation:  http.StatusBadRequest,
		ErrorCodeBadRequest:  http.StatusBadRequest,
		ErrorCodeUnavailable: http.StatusServiceUnavailable,
		ErrorCodeTimeout:     http.StatusGatewayTimeout,
		ErrorCodeCanceled:    StatusClientClosedRequest,
		ErrorCodeInternal:    http.StatusInternalServerError,
		"UNKNOWN_CODE":       http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, HTTPStatusFromCode(code), code)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "entry not found",
			err:         domain.NewNotFoundError("entry", "no-such-entry"),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: `entry "no-such-entry" not found`,
		},
		{
			name:        "wrapped not found",
			err:         fmt.Errorf("loading fragment: %w", domain.NewNotFoundError("fragment", "first-post")),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: `loading fragment: fragment "first-post" not found`,
		},
		{
			name:        "duplicate slug",
			err:         domain.NewConflictError("entry", "duplicate slug", "first-post"),
			wantStatus:  http.StatusConflict,
			wantCode:    ErrorCodeConflict,
			wantMessage: "entry conflict: duplicate slug (first-post)",
		},
		{
			name:        "validation with field",
			err:         domain.NewValidationError("page", "must not be negative"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "validation failed for page: must not be negative",
			wantDetails: map[string]string{"page": "must not be negative"},
		},
		{
			name:        "content store unavailable",
			err:         domain.NewUnavailableError("content store", fs.ErrPermission),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "blog content is temporarily unavailable",
		},
		{
			name:        "client went away",
			err:         fmt.Errorf("loading fragments: %w", context.Canceled),
			wantStatus:  StatusClientClosedRequest,
			wantCode:    ErrorCodeCanceled,
			wantMessage: "request canceled",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("loading fragments: %w", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    ErrorCodeTimeout,
			wantMessage: "request timeout exceeded",
		},
		{
			name:        "unexpected error",
			err:         errors.New("template exploded"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			require.NotNil(t, resp)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}

	t.Run("nil", func(t *testing.T) {
		status, resp := MapDomainError(nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp)
	})
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name:  "trace ID in context",
			setup: func(c *gin.Context) { c.Set(ContextKeyTraceID, "context-trace-123") },
			want:  "context-trace-123",
		},
		{
			name:  "request ID header",
			setup: func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "header-trace-456") },
			want:  "header-trace-456",
		},
		{
			name: "context takes precedence",
			setup: func(c *gin.Context) {
				c.Set(ContextKeyTraceID, "context-trace-123")
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "context-trace-123",
		},
		{
			name:  "none",
			setup: func(*gin.Context) {},
			want:  "",
		},
		{
			name:  "wrong type in context",
			setup: func(c *gin.Context) { c.Set(ContextKeyTraceID, 12345) },
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext()
			tt.setup(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	c, w := testContext()
	c.Set(ContextKeyTraceID, "trace-abc")

	HandleError(c, domain.NewNotFoundError("entry", "no-such-entry"))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "no-such-entry")
	assert.Equal(t, "trace-abc", resp.TraceID)
}

func TestHandleError_Internal(t *testing.T) {
	c, w := testContext()

	HandleError(c, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestHandleError_CanceledIsNotLoggedAsError(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, w := testContext()
	c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))

	HandleError(c, fmt.Errorf("rendering index: %w", context.Canceled))

	assert.Equal(t, StatusClientClosedRequest, w.Code)
	assert.Contains(t, buf.String(), "request canceled by client")
	assert.NotContains(t, buf.String(), `"level":"ERROR"`)
}

func TestHandleValidationErrors(t *testing.T) {
	c, w := testContext()
	c.Request.Header.Set("X-Request-ID", "req-1")

	HandleValidationErrors(c, map[string]string{"min_date": "must be a date formatted as YYYY-MM-DD"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, "must be a date formatted as YYYY-MM-DD", resp.Error.Details["min_date"])
	assert.Equal(t, "req-1", resp.TraceID)
}
