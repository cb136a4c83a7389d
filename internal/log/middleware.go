package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the request-scoped logger.
const LoggerContextKey ContextKey = "logger"

// Middleware stores the logger in the request context so handlers and error
// helpers can log without plumbing it through every signature.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts a logger from the context, falling back to the
// process default when no middleware installed one.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger emits the application's well-known log records.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogMutation logs a successful entity mutation
func (sl *StructuredLogger) LogMutation(ctx context.Context, userID, kind, id, operation string) {
	fields := NewFields().
		WithUser(userID).
		WithEntity(kind, id).
		WithOperation(operation).
		WithComponent(ComponentFinance)

	sl.logger.InfoContext(ctx, "Entity mutated", fields.ToSlice()...)
}

// LogSuspiciousRequest logs a request flagged by scan detection. The request
// is still served; this is for the audit trail.
func (sl *StructuredLogger) LogSuspiciousRequest(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithClientIP(clientIP).
		WithComponent(ComponentSecurity)

	sl.logger.WarnContext(ctx, "Suspicious request detected", fields.ToSlice()...)
}
