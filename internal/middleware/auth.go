package middleware

import (
	"net/http"

	"sigloy-shop/internal/auth"
	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/utils"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorBody{Code: status, Message: msg})
}

// Auth puts the caller into the request context when a valid bearer token is
// present. Requests without a token pass through anonymously; a token that
// fails validation is rejected with 401.
func Auth(parser auth.TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractAccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected bearer token", zap.Error(err))
				writeError(w, r, http.StatusUnauthorized, "given token not valid for any token type.")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Phone)
			ctx = logger.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
