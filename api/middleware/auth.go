package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/user941211/delivery-sub004/api/responses"
	pkgAuth "github.com/user941211/delivery-sub004/pkg/auth"
	"github.com/user941211/delivery-sub004/pkg/config"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
	"github.com/user941211/delivery-sub004/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the customer claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxCustomerID, claims.CustomerID.String())
			if claims.ID != "" {
				ctx = context.WithValue(ctx, ctxSessionID, claims.ID)
			}
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, claims.CustomerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
