package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"tarefaTracker/internal/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	handler := middleware.RequestID(middleware.Tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	ctx, span := tp.Tracer("test").Start(context.Background(), "DELETE /api/tarefas/{id}")
	req := httptest.NewRequest(http.MethodDelete, "/api/tarefas/1", nil).WithContext(ctx)
	req.Header.Set(middleware.RequestIdHeader, "req-42")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), rec.Header().Get(middleware.TraceIdHeader))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Attributes(), attribute.String("request.id", "req-42"))
}

// TestTracing_NoSpan без активного спана заголовок не выставляется
func TestTracing_NoSpan(t *testing.T) {
	handler := middleware.Tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, rec.Header().Get(middleware.TraceIdHeader))
}
