package tracing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	obscontext "github.com/smallbiznis/clinicdesk/internal/observability/context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/smallbiznis/clinicdesk/http"

// GinMiddleware opens a server span per request, continuing any remote parent.
// Health and metrics scrapes are not traced.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(instrumentationName)
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/health" || route == "/metrics" {
			c.Next()
			return
		}
		if route == "" {
			route = "unmatched"
		}

		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		requestID := obscontext.RequestIDFromContext(ctx)
		if requestID != "" {
			if member, err := baggage.NewMember("request_id", requestID); err == nil {
				if bag, err := baggage.FromContext(ctx).SetMember(member); err == nil {
					ctx = baggage.ContextWithBaggage(ctx, bag)
				}
			}
		}

		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request_id", requestID),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// Handlers run with the context AuthRequired built, which carries the clinic scope.
		reqCtx := c.Request.Context()
		if clinicID, ok := cliniccontext.ClinicIDFromContext(reqCtx); ok {
			span.SetAttributes(attribute.String("clinic.id", clinicID.String()))
		}
		if actor, ok := cliniccontext.ActorFromContext(reqCtx); ok {
			span.SetAttributes(SafeAttributes(
				attribute.String("enduser.id", actor.UserID.String()),
				attribute.String("enduser.role", actor.Role),
			)...)
		}

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status < http.StatusInternalServerError {
			return
		}
		if last := c.Errors.Last(); last != nil {
			span.RecordError(SafeError(last.Err))
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
