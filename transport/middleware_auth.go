package transport

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/muhammadheryan/reliefbridge/application/user"
	"github.com/muhammadheryan/reliefbridge/constant"
	utilsContext "github.com/muhammadheryan/reliefbridge/utils/context"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the identity provider's bearer token and puts the
// session into the request context. Resolving the profile is left to the
// handlers since registering one needs only the identity.
func AuthMiddleware(userApp user.UserApp) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			session, err := userApp.ValidateToken(r.Context(), token)
			if err != nil {
				logger.Debug("[AuthMiddleware] token rejected", zap.String("error", err.Error()))
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			ctx := utilsContext.WithSession(r.Context(), session.UserID, session.TokenID, session.ExpiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return token, token != ""
}

// isPublicPath defines which endpoints skip the user token check
func isPublicPath(path string) bool {
	return strings.HasPrefix(path, "/swagger/") || strings.HasPrefix(path, "/internal/")
}
