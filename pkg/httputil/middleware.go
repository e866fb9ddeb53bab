package httputil

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tangent/pkg/observability"
)

// Observe reports each request to the registered HTTP hooks. Responses
// with a 5xx status are also reported through OnError.
func Observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		ctx := r.Context()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status >= http.StatusInternalServerError {
			hooks.OnError(ctx, r.Method, r.URL.Path, errStatus(status))
		}
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, time.Since(start))
	})
}

type errStatus int

func (e errStatus) Error() string { return http.StatusText(int(e)) }
