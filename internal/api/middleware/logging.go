package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// requestMeta is a per-request holder the gates fill in as they resolve the
// caller and the tenant. The logger allocates it before the chain runs, so
// the access line carries the identity and organization even though they are
// attached to derived request contexts further down.
type requestMeta struct {
	role           string
	userID         string
	organizationID string
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Logger emits one structured access line per request. Unauthenticated
// requests log without caller attributes; tenant-scoped requests additionally
// carry the resolved organization id.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		meta := &requestMeta{}
		r = r.WithContext(withRequestMeta(r.Context(), meta))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Int("bytes", rec.bytes),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("remote_addr", r.RemoteAddr),
		}
		if meta.role != "" {
			attrs = append(attrs,
				slog.String("role", meta.role),
				slog.String("user_id", meta.userID))
		}
		if meta.organizationID != "" {
			attrs = append(attrs, slog.String("organization_id", meta.organizationID))
		}
		slog.Info("request", attrs...)
	})
}
