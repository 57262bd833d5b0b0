package httpgin

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kirinyoku/dinego/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxRequestID = "request_id"
	ctxPrincipal = "principal"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set(ctxRequestID, reqID)

		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Request-ID",
			headerUserID,
			headerUserRole,
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Retry-After"},
		MaxAge:        12 * time.Hour,
	})
}

// TracingMiddleware opens a server span per request, continuing a trace
// propagated by the caller.
func TracingMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("dinego/http")

	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetAttributes(attribute.Int("http.response.status_code", c.Writer.Status()))
	}
}

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		reqID, _ := c.Get(ctxRequestID)
		attrs := []any{
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", c.Writer.Size()),
		}
		if p, ok := principalFrom(c); ok {
			attrs = append(attrs, slog.Int64("user_id", p.UserID))
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			attrs = append(attrs, slog.String("error", c.Errors.String()))
			logger.Error("http", slog.Group("http", attrs...))
		case len(c.Errors) > 0:
			attrs = append(attrs, slog.String("error", c.Errors.Last().Error()))
			logger.Warn("http", slog.Group("http", attrs...))
		default:
			logger.Info("http", slog.Group("http", attrs...))
		}
	}
}

// PrincipalMiddleware reads the acting user that the gateway in front of
// the service has already authenticated. Requests without a valid identity
// are rejected with 401.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader(headerUserID), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid " + headerUserID, Code: "unauthenticated"})
			return
		}

		role := domain.Role(c.GetHeader(headerUserRole))
		if role == "" {
			role = domain.RoleCustomer
		}
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid " + headerUserRole, Code: "unauthenticated"})
			return
		}

		c.Set(ctxPrincipal, domain.Principal{UserID: id, Role: role})
		c.Next()
	}
}

// RequireRole lets through principals holding one of roles; admins always pass.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Code: "unauthenticated"})
			return
		}
		if !p.IsAdmin() && !slices.Contains(roles, p.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "forbidden", Code: "forbidden"})
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func principal(c *gin.Context) domain.Principal {
	p, _ := principalFrom(c)
	return p
}
