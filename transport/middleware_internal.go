package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	"golang.org/x/crypto/bcrypt"
)

// InternalMiddleware admits service callers whose bearer key matches the
// configured bcrypt hash. An empty hash disables the internal routes.
func InternalMiddleware(apiKeyHash string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := bearerToken(r)
			if !ok || apiKeyHash == "" || bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(key)) != nil {
				writeError(w, errors.SetCustomError(constant.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
