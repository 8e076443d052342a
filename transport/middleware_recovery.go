package transport

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into an internal error response
// and reports it to Sentry when a client is configured.
func RecoveryMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(r)
			ctx := sentry.SetHubOnContext(r.Context(), hub)

			defer func() {
				if rec := recover(); rec != nil {
					hub.RecoverWithContext(ctx, rec)
					logger.Error("[RecoveryMiddleware] panic",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("panic", fmt.Sprint(rec)))
					writeError(w, errors.SetCustomError(constant.ErrInternal))
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
