package middleware

import (
	"strconv"

	"unpolished/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// LocalTraceID holds the current trace id for the logging middleware.
const LocalTraceID = "traceID"

// routeParams are path parameters copied onto the server span so traces can
// be filtered by blog or comment.
var routeParams = map[string]string{
	"slug":      "blog.slug",
	"blogId":    "blog.id",
	"commentId": "comment.id",
	"id":        "resource.id",
}

// TracingMiddleware opens a server span per request, continuing any trace the
// caller propagated. The span is renamed to the matched route template once
// routing finishes, so /blogs/:slug is one span name, not one per blog.
func TracingMiddleware() fiber.Handler {
	propagator := otel.GetTextMapPropagator()
	return func(c *fiber.Ctx) error {
		// Fiber strings alias fasthttp buffers that are reused after the
		// request; spans outlive it, so everything they keep is copied.
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Path())

		ctx := propagator.Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := observability.Tracer.Start(ctx, method+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.path", path),
				attribute.String("client.address", utils.CopyString(c.IP())),
				attribute.String("user_agent.original", utils.CopyString(c.Get(fiber.HeaderUserAgent))),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals(LocalTraceID, traceID)
		c.Set("X-Trace-ID", traceID)
		if rid, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("request.id", rid))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		if route := c.Route(); route != nil && route.Path != "" {
			span.SetName(method + " " + route.Path)
			span.SetAttributes(attribute.String("http.route", utils.CopyString(route.Path)))
			for param, attr := range routeParams {
				if v := c.Params(param); v != "" {
					span.SetAttributes(attribute.String(attr, utils.CopyString(v)))
				}
			}
		}
		if uid := UserIDFrom(c); uid != 0 {
			span.SetAttributes(attribute.String("user.id", strconv.FormatUint(uint64(uid), 10)))
		}

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
		return err
	}
}
