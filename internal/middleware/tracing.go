package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const TraceIdHeader = "Trace-Id"

// Tracing дополняет серверный спан otelhttp id запроса и отдает trace id клиенту.
// Должен стоять после RequestID.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		if sc := span.SpanContext(); sc.IsValid() {
			w.Header().Set(TraceIdHeader, sc.TraceID().String())
		}

		span.SetAttributes(attribute.String("request.id", GetRequestID(r.Context())))
		next.ServeHTTP(w, r)
	})
}
