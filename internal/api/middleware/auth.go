package middleware

import (
	"context"
	"errors"
	"net/http"

	"blog_api/internal/common"
	"blog_api/internal/domain/model"
	"blog_api/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey    contextKey = "userID"
	UserEmailCtxKey contextKey = "userEmail"
)

// Authenticator guards routes behind a valid bearer token. It relies on
// jwtauth.Verifier having already parsed the Authorization header and
// placed the outcome in the request context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil || token == nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) || token == nil {
				common.RespondError(w, http.StatusUnauthorized, common.ErrTokenMissing.Error())
			} else {
				common.RespondError(w, http.StatusUnauthorized, common.ErrTokenInvalid.Error())
			}
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			common.RespondError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}
		email, _ := claims["email"].(string)

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserEmailCtxKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin loads the authenticated user and rejects non-admin roles.
// The role is looked up in the store rather than trusted from the token,
// so demotions take effect before the token expires.
func RequireAdmin(userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				common.RespondError(w, http.StatusUnauthorized, common.ErrTokenMissing.Error())
				return
			}
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				common.RespondError(w, common.HTTPStatusFromError(err), "Failed to resolve user")
				return
			}
			if user.Role != model.RoleAdmin {
				common.RespondError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}
