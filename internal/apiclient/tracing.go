package apiclient

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "repmeup-client/apiclient"

// TracingInterceptor opens a span per outgoing request. A no-op unless a
// tracer provider was installed (see internal/tracer).
func TracingInterceptor() Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			tracer := otel.Tracer(tracerName)
			ctx, span := tracer.Start(req.Context(), req.Method+" "+req.URL.Path,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.method", req.Method),
					attribute.String("http.url", req.URL.String()),
				),
			)
			defer span.End()

			resp, err := next.RoundTrip(req.WithContext(ctx))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
			if resp.StatusCode >= 400 {
				span.SetStatus(codes.Error, resp.Status)
			}
			return resp, nil
		})
	}
}
